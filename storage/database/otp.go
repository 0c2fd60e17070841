package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/TNSHR/teacher-rating-backend/core"
	"github.com/TNSHR/teacher-rating-backend/core/otp"
)

type otpRepository struct {
	db *sqlx.DB
}

var _ otp.Repository = (*otpRepository)(nil) // interface compliance check

func NewOTPRepository(db *sqlx.DB) otp.Repository {
	return &otpRepository{db: db}
}

func (repo *otpRepository) CreateCode(ctx context.Context, code otp.Code) (otp.Code, error) {
	q := `INSERT INTO otp_code (id, email, code_hash, expires_at, created_at)
	      VALUES ($1, $2, $3, $4, $5)`
	_, err := repo.db.ExecContext(ctx, q, code.ID, code.Email, code.CodeHash, code.ExpiresAt, code.CreatedAt)
	if err != nil {
		return otp.Code{}, core.NewStorageError(err)
	}
	return code, nil
}

func (repo *otpRepository) GetCodeByEmail(ctx context.Context, email string) (otp.Code, error) {
	var code otp.Code
	q := `SELECT * FROM otp_code WHERE email = $1 ORDER BY created_at DESC LIMIT 1`
	if err := repo.db.GetContext(ctx, &code, q, email); err != nil {
		if err == sql.ErrNoRows {
			return otp.Code{}, otp.ErrNotFound
		}
		return otp.Code{}, core.NewStorageError(err)
	}
	return code, nil
}

func (repo *otpRepository) DeleteCodesByEmail(ctx context.Context, email string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM otp_code WHERE email = $1`, email); err != nil {
		return core.NewStorageError(err)
	}
	return nil
}

func (repo *otpRepository) DeleteCode(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM otp_code WHERE id = $1`, id); err != nil {
		return core.NewStorageError(err)
	}
	return nil
}
