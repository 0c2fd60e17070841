package dummydb

import (
	"context"

	"github.com/TNSHR/teacher-rating-backend/core/otp"
)

type otpRepository struct {
	db *otpTable
}

var _ otp.Repository = (*otpRepository)(nil) // interface compliance check

func NewOTPRepository(db *DB) otp.Repository {
	return &otpRepository{db: db.otp}
}

func (repo *otpRepository) CreateCode(ctx context.Context, code otp.Code) (otp.Code, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[code.ID] = &code
	return code, nil
}

func (repo *otpRepository) GetCodeByEmail(ctx context.Context, email string) (otp.Code, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var latest *otp.Code
	for _, code := range repo.db.table {
		if code.Email != email {
			continue
		}
		if latest == nil || code.CreatedAt.After(latest.CreatedAt) {
			latest = code
		}
	}
	if latest == nil {
		return otp.Code{}, otp.ErrNotFound
	}
	return *latest, nil
}

func (repo *otpRepository) DeleteCodesByEmail(ctx context.Context, email string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, code := range repo.db.table {
		if code.Email == email {
			delete(repo.db.table, id)
		}
	}
	return nil
}

func (repo *otpRepository) DeleteCode(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, id)
	return nil
}
