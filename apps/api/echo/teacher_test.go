package echoapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TNSHR/teacher-rating-backend/core/teacher"
)

func Test_teacherApi_queryIsPublic(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/v1/teachers")
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}, rec)

	_, err := app.tchSvc.Create(context.Background(), teacher.NewTeacher{Name: "Mme Odile", Subject: "Math", Grade: 3})
	require.NoError(t, err)

	req, rec = newRequest(http.MethodGet, "/v1/teachers")
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tchs []teacher.Teacher
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tchs))
	require.Len(t, tchs, 1)
	assert.Equal(t, "Mme Odile", tchs[0].Name)
}

func Test_teacherApi_crud(t *testing.T) {
	app := setup(t)
	adminToken := app.adminToken(t, "admin@school.cd")

	// create requires admin
	req, rec := newRequest(http.MethodPost, "/v1/teachers",
		marchallObj(t, teacher.NewTeacher{Name: "M. Ilunga", Subject: "History", Grade: 5}))
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)

	req, rec = newAuthRequest(http.MethodPost, "/v1/teachers", adminToken,
		marchallObj(t, teacher.NewTeacher{Name: "M. Ilunga", Subject: "History", Grade: 5}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tch teacher.Teacher
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tch))
	assert.Equal(t, "M. Ilunga", tch.Name)

	req, rec = newAuthRequest(http.MethodPut, "/v1/teachers/"+tch.ID, adminToken,
		marchallObj(t, teacher.UpdateTeacher{Subject: "Geography"}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated teacher.Teacher
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Geography", updated.Subject)
	assert.Equal(t, "M. Ilunga", updated.Name)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/teachers/"+tch.ID, adminToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	_, err := app.tchSvc.GetByID(context.Background(), tch.ID)
	assert.Equal(t, teacher.ErrNotFound, err)
}
