package teacher

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/TNSHR/teacher-rating-backend/core"
)

type Teacher struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Subject   string    `json:"subject" db:"subject"`
	Grade     int       `json:"grade" db:"grade"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewTeacher contains information needed to create a new Teacher.
type NewTeacher struct {
	Name    string `json:"name" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Grade   int    `json:"grade" validate:"required,min=1"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Subject = core.CleanString(nt.Subject)
	return validate.Struct(nt)
}

// UpdateTeacher defines what information may be provided to modify an existing Teacher.
type UpdateTeacher struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Grade   int    `json:"grade" validate:"omitempty,min=1"`
}

func (ut *UpdateTeacher) Validate(orig Teacher, validate *validator.Validate) error {
	name := core.CleanString(ut.Name)
	if name != "" {
		ut.Name = name
	} else {
		ut.Name = orig.Name
	}

	subject := core.CleanString(ut.Subject)
	if subject != "" {
		ut.Subject = subject
	} else {
		ut.Subject = orig.Subject
	}

	if ut.Grade == 0 {
		ut.Grade = orig.Grade
	}

	return validate.Struct(ut)
}
