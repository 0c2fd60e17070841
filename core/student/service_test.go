package student_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TNSHR/teacher-rating-backend/core"
	"github.com/TNSHR/teacher-rating-backend/core/student"
	"github.com/TNSHR/teacher-rating-backend/storage/database/dummy"
)

var codeShape = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func newService(t *testing.T) *student.Service {
	db, err := dummydb.Open()
	require.NoError(t, err)
	return student.NewService(dummydb.NewStudentRepository(db))
}

func Test_Create_generatesCode(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	std, err := svc.Create(ctx, student.NewStudent{Name: "John Kamau", Grade: 3})
	require.NoError(t, err)
	assert.Regexp(t, codeShape, std.Code)

	other, err := svc.Create(ctx, student.NewStudent{Name: "Mary Achieng", Grade: 3})
	require.NoError(t, err)
	assert.NotEqual(t, std.Code, other.Code)
}

func Test_Create_explicitCode(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	std, err := svc.Create(ctx, student.NewStudent{Name: "John Kamau", Grade: 3, Code: "ABC123"})
	require.NoError(t, err)
	assert.Equal(t, "ABC123", std.Code)

	// taken codes are rejected as a field error, case-insensitively
	_, err = svc.Create(ctx, student.NewStudent{Name: "Mary Achieng", Grade: 3, Code: "abc123"})
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "code", vErr.Fields[0].Field)
}

func Test_VerifyCode(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	std, err := svc.Create(ctx, student.NewStudent{Name: "John Kamau", Grade: 3, Code: "ABC123"})
	require.NoError(t, err)

	t.Run("exact", func(t *testing.T) {
		_, err := svc.VerifyCode(ctx, std.ID, "ABC123")
		assert.NoError(t, err)
	})
	t.Run("case-insensitive", func(t *testing.T) {
		_, err := svc.VerifyCode(ctx, std.ID, "abc123")
		assert.NoError(t, err)
	})
	t.Run("mismatch", func(t *testing.T) {
		_, err := svc.VerifyCode(ctx, std.ID, "XYZ789")
		assert.Equal(t, student.ErrCodeMismatch, errors.Cause(err))
	})
	t.Run("unknown student", func(t *testing.T) {
		_, err := svc.VerifyCode(ctx, "nope", "ABC123")
		assert.Equal(t, student.ErrNotFound, errors.Cause(err))
	})
}

func Test_Update(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	std, err := svc.Create(ctx, student.NewStudent{Name: "John Kamau", Grade: 3, Code: "ABC123"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, std.ID, student.UpdateStudent{Name: "John K. Kamau", Grade: 4, Code: "ABC123"})
	require.NoError(t, err)
	assert.Equal(t, "John K. Kamau", got.Name)
	assert.Equal(t, 4, got.Grade)
	assert.Equal(t, "ABC123", got.Code)

	_, err = svc.Update(ctx, "nope", student.UpdateStudent{Name: "x", Grade: 1, Code: "ZZZZZZ"})
	assert.Equal(t, student.ErrNotFound, errors.Cause(err))
}

func Test_GetByCode(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	std, err := svc.Create(ctx, student.NewStudent{Name: "John Kamau", Grade: 3, Code: "ABC123"})
	require.NoError(t, err)

	got, err := svc.GetByCode(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, std.ID, got.ID)
}
