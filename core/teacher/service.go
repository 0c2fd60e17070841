package teacher

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("teacher not found")

type Repository interface {
	CreateTeacher(ctx context.Context, tch Teacher) error
	QueryAllTeachers(ctx context.Context) ([]Teacher, error)
	GetTeacherByID(ctx context.Context, id string) (Teacher, error)
	UpdateTeacher(ctx context.Context, tch Teacher) error
	DeleteTeachersByID(ctx context.Context, ids ...string) error
	ReplaceTeachers(ctx context.Context, tchs []Teacher) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	now := time.Now().UTC()
	tch := Teacher{
		ID:        uuid.New().String(),
		Name:      nt.Name,
		Subject:   nt.Subject,
		Grade:     nt.Grade,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.repo.CreateTeacher(ctx, tch); err != nil {
		return Teacher{}, errors.Wrap(err, "creating teacher")
	}
	return tch, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryAllTeachers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error) {
	tch, err := svc.repo.GetTeacherByID(ctx, id)
	if err != nil {
		return Teacher{}, err
	}

	tch.Name = ut.Name
	tch.Subject = ut.Subject
	tch.Grade = ut.Grade
	tch.UpdatedAt = time.Now().UTC()

	if err := svc.repo.UpdateTeacher(ctx, tch); err != nil {
		return Teacher{}, errors.Wrap(err, "updating teacher")
	}
	return tch, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteTeachersByID(ctx, ids...)
}

// Replace swaps the entire teacher set, used by restore.
func (svc *Service) Replace(ctx context.Context, tchs []Teacher) error {
	return svc.repo.ReplaceTeachers(ctx, tchs)
}
