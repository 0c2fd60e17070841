package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/TNSHR/teacher-rating-backend/core"
	"github.com/TNSHR/teacher-rating-backend/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) error {
	q := `INSERT INTO student (id, name, grade, code, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.db.ExecContext(ctx, q, std.ID, std.Name, std.Grade, std.Code, std.CreatedAt, std.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "student_code_key") {
			return student.ErrCodeExists
		}
		return core.NewStorageError(err)
	}
	return nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var stds []student.Student
	if err := repo.db.SelectContext(ctx, &stds, `SELECT * FROM student ORDER BY grade, name`); err != nil {
		return nil, core.NewStorageError(err)
	}
	return stds, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var std student.Student
	if err := repo.db.GetContext(ctx, &std, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, core.NewStorageError(err)
	}
	return std, nil
}

func (repo *studentRepository) GetStudentByCode(ctx context.Context, code string) (student.Student, error) {
	var std student.Student
	q := `SELECT * FROM student WHERE UPPER(code) = UPPER($1)`
	if err := repo.db.GetContext(ctx, &std, q, code); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, core.NewStorageError(err)
	}
	return std, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) error {
	q := `UPDATE student SET name = $2, grade = $3, code = $4, updated_at = $5 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, std.ID, std.Name, std.Grade, std.Code, std.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "student_code_key") {
			return student.ErrCodeExists
		}
		return core.NewStorageError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ErrNotFound
	}
	return nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM student WHERE id IN (?)`, ids)
	if err != nil {
		return core.NewStorageError(err)
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return core.NewStorageError(err)
	}
	return nil
}

func (repo *studentRepository) ReplaceStudents(ctx context.Context, stds []student.Student) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return core.NewStorageError(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM student`); err != nil {
		return core.NewStorageError(err)
	}
	q := `INSERT INTO student (id, name, grade, code, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6)`
	for _, std := range stds {
		if _, err = tx.ExecContext(ctx, q, std.ID, std.Name, std.Grade, std.Code, std.CreatedAt, std.UpdatedAt); err != nil {
			if isUniqueViolation(err, "student_code_key") {
				return errors.Wrap(student.ErrCodeExists, "replacing students")
			}
			return core.NewStorageError(err)
		}
	}
	if err = tx.Commit(); err != nil {
		return core.NewStorageError(err)
	}
	return nil
}
