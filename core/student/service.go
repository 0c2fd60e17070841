package student

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/TNSHR/teacher-rating-backend/core"
)

var (
	ErrNotFound   = errors.New("student not found")
	ErrCodeExists = errors.New("access code already in use")
)

// maxCodeAttempts bounds code regeneration on collision; with a 36^6
// space collisions are vanishingly rare so the bound is never hit in practice.
const maxCodeAttempts = 10

type Repository interface {
	CreateStudent(ctx context.Context, std Student) error
	QueryAllStudents(ctx context.Context) ([]Student, error)
	GetStudentByID(ctx context.Context, id string) (Student, error)
	GetStudentByCode(ctx context.Context, code string) (Student, error)
	UpdateStudent(ctx context.Context, std Student) error
	DeleteStudentsByID(ctx context.Context, ids ...string) error
	ReplaceStudents(ctx context.Context, stds []Student) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new student. When ns.Code is empty a fresh access
// code is generated, regenerating on the off chance of a collision.
// An explicitly supplied code that is already taken fails with a
// validation error on the code field.
func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		ID:        uuid.New().String(),
		Name:      ns.Name,
		Grade:     ns.Grade,
		Code:      ns.Code,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if std.Code != "" {
		if _, err := svc.repo.GetStudentByCode(ctx, std.Code); err == nil {
			return Student{}, core.NewValidationError(ErrCodeExists, core.FieldError{Field: "code", Error: ErrCodeExists.Error()})
		} else if errors.Cause(err) != ErrNotFound {
			return Student{}, err
		}
		if err := svc.repo.CreateStudent(ctx, std); err != nil {
			return Student{}, errors.Wrap(err, "creating student")
		}
		return std, nil
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return Student{}, err
		}
		std.Code = code

		err = svc.repo.CreateStudent(ctx, std)
		if err == nil {
			return std, nil
		}
		if errors.Cause(err) != ErrCodeExists {
			return Student{}, errors.Wrap(err, "creating student")
		}
	}
	return Student{}, ErrCodeExists
}

// VerifyCode resolves a student by ID and matches the supplied access
// code against theirs, case-insensitively.
func (svc *Service) VerifyCode(ctx context.Context, id, code string) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if err := std.CheckCode(code); err != nil {
		return Student{}, err
	}
	return std, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

// QueryByGrade lists the students of one grade.
func (svc *Service) QueryByGrade(ctx context.Context, grade int) ([]Student, error) {
	stds, err := svc.repo.QueryAllStudents(ctx)
	if err != nil {
		return nil, err
	}
	var res []Student
	for _, std := range stds {
		if std.Grade == grade {
			res = append(res, std)
		}
	}
	return res, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetByCode(ctx context.Context, code string) (Student, error) {
	return svc.repo.GetStudentByCode(ctx, code)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}

	if us.Code != std.Code {
		if other, err := svc.repo.GetStudentByCode(ctx, us.Code); err == nil && other.ID != std.ID {
			return Student{}, core.NewValidationError(ErrCodeExists, core.FieldError{Field: "code", Error: ErrCodeExists.Error()})
		} else if err != nil && errors.Cause(err) != ErrNotFound {
			return Student{}, err
		}
	}

	std.Name = us.Name
	std.Grade = us.Grade
	std.Code = us.Code
	std.UpdatedAt = time.Now().UTC()

	if err := svc.repo.UpdateStudent(ctx, std); err != nil {
		return Student{}, errors.Wrap(err, "updating student")
	}
	return std, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}

// Replace swaps the entire student set, used by restore.
func (svc *Service) Replace(ctx context.Context, stds []Student) error {
	return svc.repo.ReplaceStudents(ctx, stds)
}
