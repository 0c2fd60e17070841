package rating

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/TNSHR/teacher-rating-backend/core"
	"github.com/TNSHR/teacher-rating-backend/core/student"
	"github.com/TNSHR/teacher-rating-backend/core/teacher"
)

var (
	ErrAlreadyRated = errors.New("teacher already rated today")
	ErrInvalidScore = errors.New("score must be between 1 and 5")
)

var nowFunc = time.Now // mocked in tests

// dayBucket truncates t to its UTC midnight.
func dayBucket(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

type Repository interface {
	// CreateRating persists rat, failing with ErrAlreadyRated when a
	// rating for the same (student, teacher, day) already exists. This
	// constraint is the authoritative duplicate guard; the service's
	// pre-check only exists to fail fast.
	CreateRating(ctx context.Context, rat Rating) error
	FilterRatings(ctx context.Context, filter Filter) ([]Rating, error)
	DeleteAllRatings(ctx context.Context) error
	ReplaceRatings(ctx context.Context, rats []Rating) error
}

// StudentDirectory is the slice of the student service the ledger needs.
type StudentDirectory interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
	VerifyCode(ctx context.Context, id, code string) (student.Student, error)
	QueryAll(ctx context.Context) ([]student.Student, error)
}

// TeacherDirectory is the slice of the teacher service the ledger needs.
type TeacherDirectory interface {
	GetByID(ctx context.Context, id string) (teacher.Teacher, error)
	QueryAll(ctx context.Context) ([]teacher.Teacher, error)
}

type Service struct {
	repo     Repository
	students StudentDirectory
	teachers TeacherDirectory
}

func NewService(repo Repository, students StudentDirectory, teachers TeacherDirectory) *Service {
	return &Service{
		repo:     repo,
		students: students,
		teachers: teachers,
	}
}

// Submit records a rating after verifying the submitting student's
// access code. At most one rating per (student, teacher) pair is
// accepted per UTC calendar day; a duplicate fails with ErrAlreadyRated.
func (svc *Service) Submit(ctx context.Context, nr NewRating) (Rating, error) {
	if _, err := svc.students.VerifyCode(ctx, nr.StudentID, nr.Code); err != nil {
		return Rating{}, err
	}
	if _, err := svc.teachers.GetByID(ctx, nr.TeacherID); err != nil {
		return Rating{}, err
	}
	if nr.Score < 1 || nr.Score > 5 {
		return Rating{}, core.NewValidationError(ErrInvalidScore, core.FieldError{Field: "score", Error: ErrInvalidScore.Error()})
	}

	now := nowFunc().UTC()
	day := dayBucket(now)

	// advisory fast path; the storage uniqueness constraint decides
	existing, err := svc.repo.FilterRatings(ctx, Filter{StudentID: nr.StudentID, TeacherID: nr.TeacherID, Day: &day})
	if err != nil {
		return Rating{}, err
	}
	if len(existing) > 0 {
		return Rating{}, ErrAlreadyRated
	}

	rat := Rating{
		ID:        uuid.New().String(),
		StudentID: nr.StudentID,
		TeacherID: nr.TeacherID,
		Score:     nr.Score,
		CreatedAt: now,
		Day:       day,
	}
	if err := svc.repo.CreateRating(ctx, rat); err != nil {
		if errors.Cause(err) == ErrAlreadyRated {
			return Rating{}, ErrAlreadyRated
		}
		return Rating{}, errors.Wrap(err, "creating rating")
	}
	return rat, nil
}

// ListForStudentToday returns the ratings the student submitted since
// today's UTC midnight.
func (svc *Service) ListForStudentToday(ctx context.Context, studentID string) ([]Rating, error) {
	if _, err := svc.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	day := dayBucket(nowFunc())
	return svc.repo.FilterRatings(ctx, Filter{StudentID: studentID, Day: &day})
}

// TeacherSummary aggregates one teacher's ratings. Averages are 0 when
// the teacher has no ratings.
func (svc *Service) TeacherSummary(ctx context.Context, teacherID string) (TeacherSummary, error) {
	tch, err := svc.teachers.GetByID(ctx, teacherID)
	if err != nil {
		return TeacherSummary{}, err
	}
	rats, err := svc.repo.FilterRatings(ctx, Filter{TeacherID: teacherID})
	if err != nil {
		return TeacherSummary{}, err
	}
	stdByID, err := svc.studentIndex(ctx)
	if err != nil {
		return TeacherSummary{}, err
	}
	return svc.summarize(tch, rats, stdByID), nil
}

// TeacherSummaries aggregates every teacher, each computed fresh and
// independently.
func (svc *Service) TeacherSummaries(ctx context.Context) ([]TeacherSummary, error) {
	tchs, err := svc.teachers.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	rats, err := svc.repo.FilterRatings(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	stdByID, err := svc.studentIndex(ctx)
	if err != nil {
		return nil, err
	}

	byTeacher := make(map[string][]Rating)
	for _, rat := range rats {
		byTeacher[rat.TeacherID] = append(byTeacher[rat.TeacherID], rat)
	}

	summaries := make([]TeacherSummary, 0, len(tchs))
	for _, tch := range tchs {
		summaries = append(summaries, svc.summarize(tch, byTeacher[tch.ID], stdByID))
	}
	return summaries, nil
}

// studentIndex loads the student set once for read-time joins.
func (svc *Service) studentIndex(ctx context.Context) (map[string]student.Student, error) {
	stds, err := svc.students.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]student.Student, len(stds))
	for _, std := range stds {
		byID[std.ID] = std
	}
	return byID, nil
}

func (svc *Service) summarize(tch teacher.Teacher, rats []Rating, stdByID map[string]student.Student) TeacherSummary {
	sum := TeacherSummary{
		TeacherID: tch.ID,
		Name:      tch.Name,
		Subject:   tch.Subject,
		Grade:     tch.Grade,
		Ratings:   make([]SummaryEntry, 0, len(rats)),
	}

	day := dayBucket(nowFunc())
	var total, todayTotal, todayCount int
	for _, rat := range rats {
		total += rat.Score
		if rat.Day.Equal(day) {
			todayTotal += rat.Score
			todayCount++
		}
		entry := SummaryEntry{
			ID:        rat.ID,
			StudentID: rat.StudentID,
			Score:     rat.Score,
			CreatedAt: rat.CreatedAt,
		}
		if std, ok := stdByID[rat.StudentID]; ok {
			entry.StudentName = std.Name
			entry.StudentGrade = std.Grade
		}
		sum.Ratings = append(sum.Ratings, entry)
	}
	if len(rats) > 0 {
		sum.Average = float64(total) / float64(len(rats))
	}
	if todayCount > 0 {
		sum.TodayAverage = float64(todayTotal) / float64(todayCount)
	}
	return sum
}

// ListAll returns every rating enriched with student and teacher
// details, assembled at read time.
func (svc *Service) ListAll(ctx context.Context) ([]Detail, error) {
	rats, err := svc.repo.FilterRatings(ctx, Filter{})
	if err != nil {
		return nil, err
	}
	stdByID, err := svc.studentIndex(ctx)
	if err != nil {
		return nil, err
	}
	tchs, err := svc.teachers.QueryAll(ctx)
	if err != nil {
		return nil, err
	}

	tchByID := make(map[string]teacher.Teacher, len(tchs))
	for _, tch := range tchs {
		tchByID[tch.ID] = tch
	}

	details := make([]Detail, 0, len(rats))
	for _, rat := range rats {
		det := Detail{
			ID:        rat.ID,
			StudentID: rat.StudentID,
			TeacherID: rat.TeacherID,
			Score:     rat.Score,
			CreatedAt: rat.CreatedAt,
		}
		if std, ok := stdByID[rat.StudentID]; ok {
			det.StudentName = std.Name
			det.StudentGrade = std.Grade
		}
		if tch, ok := tchByID[rat.TeacherID]; ok {
			det.TeacherName = tch.Name
			det.Subject = tch.Subject
		}
		details = append(details, det)
	}
	return details, nil
}

// Clear deletes every rating. Callers are expected to export a backup
// first; students, teachers and users are untouched.
func (svc *Service) Clear(ctx context.Context) error {
	return svc.repo.DeleteAllRatings(ctx)
}

// Replace swaps the entire rating set, used by restore.
func (svc *Service) Replace(ctx context.Context, rats []Rating) error {
	return svc.repo.ReplaceRatings(ctx, rats)
}
