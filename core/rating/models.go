package rating

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/TNSHR/teacher-rating-backend/core"
)

type Rating struct {
	ID        string    `json:"id" db:"id"`
	StudentID string    `json:"student_id" db:"student_id"`
	TeacherID string    `json:"teacher_id" db:"teacher_id"`
	Score     int       `json:"score" db:"score"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	Day       time.Time `json:"day" db:"day"`               // UTC midnight bucket of CreatedAt
}

// NewRating contains information needed to submit a new Rating.
// Code is the submitting student's access code.
type NewRating struct {
	StudentID string `json:"student_id" validate:"required"`
	TeacherID string `json:"teacher_id" validate:"required"`
	Score     int    `json:"score" validate:"required,min=1,max=5"`
	Code      string `json:"code" validate:"required"`
}

func (nr *NewRating) Validate(validate *validator.Validate) error {
	nr.StudentID = core.CleanString(nr.StudentID)
	nr.TeacherID = core.CleanString(nr.TeacherID)
	nr.Code = core.CleanString(nr.Code)
	return validate.Struct(nr)
}

// TeacherSummary is the aggregated view of one teacher's ratings.
// Averages are 0 when no ratings exist.
type TeacherSummary struct {
	TeacherID    string         `json:"teacher_id"`
	Name         string         `json:"name"`
	Subject      string         `json:"subject"`
	Grade        int            `json:"grade"`
	Average      float64        `json:"average"`
	TodayAverage float64        `json:"today_average"`
	Ratings      []SummaryEntry `json:"ratings"`
}

// SummaryEntry is one rating as listed inside a TeacherSummary,
// enriched with the submitting student's display fields at read time.
type SummaryEntry struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"student_id"`
	StudentName  string    `json:"student_name"`
	StudentGrade int       `json:"student_grade"`
	Score        int       `json:"score"`
	CreatedAt    time.Time `json:"created_at"`
}

// Detail is a rating enriched with the names behind its references,
// assembled at read time for administrative listings and exports.
type Detail struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"student_id"`
	StudentName  string    `json:"student_name"`
	StudentGrade int       `json:"student_grade"`
	TeacherID    string    `json:"teacher_id"`
	TeacherName  string    `json:"teacher_name"`
	Subject      string    `json:"subject"`
	Score        int       `json:"score"`
	CreatedAt    time.Time `json:"created_at"`
}

// Filter narrows rating queries; zero values match everything.
type Filter struct {
	StudentID string
	TeacherID string
	Day       *time.Time // UTC midnight bucket
}
