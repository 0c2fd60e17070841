package student

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/TNSHR/teacher-rating-backend/core"
)

var ErrCodeMismatch = errors.New("invalid student code")

type Student struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Grade     int       `json:"grade" db:"grade"`
	Code      string    `json:"code" db:"code"`             // uppercase, unique
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// CheckCode matches supplied against the stored access code,
// case-insensitively. A mismatch is a caller-visible rejection.
func (s *Student) CheckCode(supplied string) error {
	if !strings.EqualFold(s.Code, core.CleanString(supplied)) {
		return ErrCodeMismatch
	}
	return nil
}

// NewStudent contains information needed to create a new Student.
// Code is optional; when empty a code is generated.
type NewStudent struct {
	Name  string `json:"name" validate:"required"`
	Grade int    `json:"grade" validate:"required,min=1"`
	Code  string `json:"code" validate:"omitempty,accesscode"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Code = strings.ToUpper(core.CleanString(ns.Code))
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name  string `json:"name"`
	Grade int    `json:"grade" validate:"omitempty,min=1"`
	Code  string `json:"code" validate:"omitempty,accesscode"`
}

func (us *UpdateStudent) Validate(orig Student, validate *validator.Validate) error {
	name := core.CleanString(us.Name)
	if name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}

	if us.Grade == 0 {
		us.Grade = orig.Grade
	}

	code := strings.ToUpper(core.CleanString(us.Code))
	if code != "" {
		us.Code = code
	} else {
		us.Code = orig.Code
	}

	return validate.Struct(us)
}
