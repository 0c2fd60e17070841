package teacher_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TNSHR/teacher-rating-backend/core/teacher"
	"github.com/TNSHR/teacher-rating-backend/storage/database/dummy"
)

func newService(t *testing.T) *teacher.Service {
	db, err := dummydb.Open()
	require.NoError(t, err)
	return teacher.NewService(dummydb.NewTeacherRepository(db))
}

func Test_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	tch, err := svc.Create(ctx, teacher.NewTeacher{Name: "Grace Mwangi", Subject: "Mathematics", Grade: 3})
	require.NoError(t, err)
	assert.NotEmpty(t, tch.ID)

	got, err := svc.GetByID(ctx, tch.ID)
	require.NoError(t, err)
	assert.Equal(t, tch.Name, got.Name)

	got, err = svc.Update(ctx, tch.ID, teacher.UpdateTeacher{Name: "Grace W. Mwangi", Subject: "Physics", Grade: 4})
	require.NoError(t, err)
	assert.Equal(t, "Grace W. Mwangi", got.Name)
	assert.Equal(t, "Physics", got.Subject)
	assert.Equal(t, 4, got.Grade)

	all, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Delete(ctx, tch.ID))
	_, err = svc.GetByID(ctx, tch.ID)
	assert.Equal(t, teacher.ErrNotFound, errors.Cause(err))
}

func Test_Update_unknown(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Update(ctx, "nope", teacher.UpdateTeacher{Name: "x", Subject: "y", Grade: 1})
	assert.Equal(t, teacher.ErrNotFound, errors.Cause(err))
}
