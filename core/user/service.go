package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/TNSHR/teacher-rating-backend/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrAlreadyRegistered  = errors.New("user already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		CountUsers(ctx context.Context) (int, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		FilterUsersByRole(ctx context.Context, role string) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUsersByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
		conf *core.Config
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{repo: repo, conf: conf}
}

// Register creates an administrator credential for email. Registration is
// idempotent: a second call for an existing email returns the stored user
// and ErrAlreadyRegistered without touching the password (first write wins).
func (svc *Service) Register(ctx context.Context, email, password string) (User, error) {
	email = core.CleanString(email, true /* lower */)

	if usr, err := svc.repo.GetUserByEmail(ctx, email); err == nil {
		return usr, ErrAlreadyRegistered
	} else if err != ErrNotFound {
		return User{}, err
	}

	usr := User{
		ID:        uuid.New().String(),
		Email:     email,
		Roles:     []string{RoleAdmin},
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}

// CreateTeacherUser creates a teacher-proxy credential. Unlike Register,
// a duplicate email here is a field error, not a soft success.
func (svc *Service) CreateTeacherUser(ctx context.Context, nu NewTeacherUser) (User, error) {
	email := core.CleanString(nu.Email, true /* lower */)

	if _, err := svc.repo.GetUserByEmail(ctx, email); err == nil {
		return User{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	} else if err != ErrNotFound {
		return User{}, err
	}

	usr := User{
		ID:        uuid.New().String(),
		Email:     email,
		Roles:     []string{RoleTeacher},
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}

// ResetPassword replaces the stored hash for email; the hash is computed
// exactly once, here, from the plaintext.
func (svc *Service) ResetPassword(ctx context.Context, email, password string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if err := usr.SetPassword(password); err != nil {
		return User{}, err
	}
	return svc.repo.UpdateUser(ctx, usr)
}

// Authenticate verifies email+password. An unknown email and a wrong
// password both return ErrInvalidCredentials so callers cannot enumerate
// accounts.
func (svc *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := usr.CheckPassword(password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return svc.SetLastLogin(ctx, usr)
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) QueryTeacherUsers(ctx context.Context) ([]User, error) {
	return svc.repo.FilterUsersByRole(ctx, RoleTeacher)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteUsersByID(ctx, ids...)
}
