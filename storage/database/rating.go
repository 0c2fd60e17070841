package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/TNSHR/teacher-rating-backend/core"
	"github.com/TNSHR/teacher-rating-backend/core/rating"
)

type ratingRepository struct {
	db *sqlx.DB
}

var _ rating.Repository = (*ratingRepository)(nil) // interface compliance check

func NewRatingRepository(db *sqlx.DB) rating.Repository {
	return &ratingRepository{db: db}
}

func (repo *ratingRepository) CreateRating(ctx context.Context, rat rating.Rating) error {
	q := `INSERT INTO rating (id, student_id, teacher_id, score, created_at, day)
	      VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.db.ExecContext(ctx, q, rat.ID, rat.StudentID, rat.TeacherID, rat.Score, rat.CreatedAt, rat.Day)
	if err != nil {
		// the (student, teacher, day) constraint is the authoritative duplicate guard
		if isUniqueViolation(err, "rating_student_id_teacher_id_day_key") {
			return rating.ErrAlreadyRated
		}
		return core.NewStorageError(err)
	}
	return nil
}

func (repo *ratingRepository) FilterRatings(ctx context.Context, filter rating.Filter) ([]rating.Rating, error) {
	q := `SELECT * FROM rating WHERE 1=1`
	args := make([]interface{}, 0, 3)
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		q += ` AND student_id = ?`
	}
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		q += ` AND teacher_id = ?`
	}
	if filter.Day != nil {
		args = append(args, *filter.Day)
		q += ` AND day = ?`
	}
	q += ` ORDER BY created_at`

	var rats []rating.Rating
	if err := repo.db.SelectContext(ctx, &rats, repo.db.Rebind(q), args...); err != nil {
		return nil, core.NewStorageError(err)
	}
	return rats, nil
}

func (repo *ratingRepository) DeleteAllRatings(ctx context.Context) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM rating`); err != nil {
		return core.NewStorageError(err)
	}
	return nil
}

func (repo *ratingRepository) ReplaceRatings(ctx context.Context, rats []rating.Rating) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return core.NewStorageError(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM rating`); err != nil {
		return core.NewStorageError(err)
	}
	q := `INSERT INTO rating (id, student_id, teacher_id, score, created_at, day)
	      VALUES ($1, $2, $3, $4, $5, $6)`
	for _, rat := range rats {
		if _, err = tx.ExecContext(ctx, q, rat.ID, rat.StudentID, rat.TeacherID, rat.Score, rat.CreatedAt, rat.Day); err != nil {
			if isUniqueViolation(err, "rating_student_id_teacher_id_day_key") {
				return rating.ErrAlreadyRated
			}
			return core.NewStorageError(err)
		}
	}
	if err = tx.Commit(); err != nil {
		return core.NewStorageError(err)
	}
	return nil
}
