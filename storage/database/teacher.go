package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/TNSHR/teacher-rating-backend/core"
	"github.com/TNSHR/teacher-rating-backend/core/teacher"
)

type teacherRepository struct {
	db *sqlx.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *sqlx.DB) teacher.Repository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, tch teacher.Teacher) error {
	q := `INSERT INTO teacher (id, name, subject, grade, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.db.ExecContext(ctx, q, tch.ID, tch.Name, tch.Subject, tch.Grade, tch.CreatedAt, tch.UpdatedAt)
	if err != nil {
		return core.NewStorageError(err)
	}
	return nil
}

func (repo *teacherRepository) QueryAllTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	var tchs []teacher.Teacher
	if err := repo.db.SelectContext(ctx, &tchs, `SELECT * FROM teacher ORDER BY grade, name`); err != nil {
		return nil, core.NewStorageError(err)
	}
	return tchs, nil
}

func (repo *teacherRepository) GetTeacherByID(ctx context.Context, id string) (teacher.Teacher, error) {
	var tch teacher.Teacher
	if err := repo.db.GetContext(ctx, &tch, `SELECT * FROM teacher WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, core.NewStorageError(err)
	}
	return tch, nil
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, tch teacher.Teacher) error {
	q := `UPDATE teacher SET name = $2, subject = $3, grade = $4, updated_at = $5 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, tch.ID, tch.Name, tch.Subject, tch.Grade, tch.UpdatedAt)
	if err != nil {
		return core.NewStorageError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return teacher.ErrNotFound
	}
	return nil
}

func (repo *teacherRepository) DeleteTeachersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM teacher WHERE id IN (?)`, ids)
	if err != nil {
		return core.NewStorageError(err)
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return core.NewStorageError(err)
	}
	return nil
}

func (repo *teacherRepository) ReplaceTeachers(ctx context.Context, tchs []teacher.Teacher) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return core.NewStorageError(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM teacher`); err != nil {
		return core.NewStorageError(err)
	}
	q := `INSERT INTO teacher (id, name, subject, grade, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6)`
	for _, tch := range tchs {
		if _, err = tx.ExecContext(ctx, q, tch.ID, tch.Name, tch.Subject, tch.Grade, tch.CreatedAt, tch.UpdatedAt); err != nil {
			return core.NewStorageError(err)
		}
	}
	if err = tx.Commit(); err != nil {
		return core.NewStorageError(err)
	}
	return nil
}
