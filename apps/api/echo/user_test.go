package echoapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/TNSHR/teacher-rating-backend/apps/api/echo"
	"github.com/TNSHR/teacher-rating-backend/core/user"
	emailsvc "github.com/TNSHR/teacher-rating-backend/services/email"
)

var otpRegex = regexp.MustCompile(`\d{6}`)

// requestOTP drives `POST /v1/users/otp` and plucks the plaintext
// passcode out of the captured outbox.
func requestOTP(t *testing.T, app *testApp, email string) string {
	emailsvc.ClearSentMessages()

	req, rec := newRequest(http.MethodPost, "/v1/users/otp", marchallObj(t, echoapi.OTPRequest{Email: email}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.NotEmpty(t, emailsvc.SentMessages)
	msg := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
	code := otpRegex.FindString(msg.TextContent)
	require.Len(t, code, 6)
	return code
}

func Test_userApi_register(t *testing.T) {
	app := setup(t)

	code := requestOTP(t, app, "admin@school.cd")

	// wrong passcode is rejected and the pending request survives
	badCode := "000000"
	if badCode == code {
		badCode = "000001"
	}
	req, rec := newRequest(http.MethodPost, "/v1/users/register",
		marchallObj(t, echoapi.RegisterRequest{Email: "admin@school.cd", Password: "S3kure#pass", Code: badCode}))
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: "invalid passcode"}),
	}, rec)

	// the real passcode still works after the failed attempt
	req, rec = newRequest(http.MethodPost, "/v1/users/register",
		marchallObj(t, echoapi.RegisterRequest{Email: "admin@school.cd", Password: "S3kure#pass", Code: code}))
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusCreated,
		wantData: marchallObj(t, echoapi.SuccessResponse{Success: "Account created. You can now log in."}),
	}, rec)

	usr, err := app.usrSvc.GetByEmail(context.Background(), "admin@school.cd")
	require.NoError(t, err)
	assert.True(t, usr.IsAdmin())

	// registering the same email again is a soft success; the original
	// password is untouched
	code = requestOTP(t, app, "admin@school.cd")
	req, rec = newRequest(http.MethodPost, "/v1/users/register",
		marchallObj(t, echoapi.RegisterRequest{Email: "admin@school.cd", Password: "Other#pass99", Code: code}))
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, echoapi.SuccessResponse{Success: "This email address is already registered."}),
	}, rec)

	_, err = app.usrSvc.Authenticate(context.Background(), "admin@school.cd", "S3kure#pass")
	assert.NoError(t, err)
}

func Test_userApi_register_weakPassword(t *testing.T) {
	app := setup(t)
	code := requestOTP(t, app, "admin@school.cd")

	req, rec := newRequest(http.MethodPost, "/v1/users/register",
		marchallObj(t, echoapi.RegisterRequest{Email: "admin@school.cd", Password: "pw1", Code: code}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var fldErrs map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fldErrs))
	assert.Contains(t, fldErrs, "password")
}

func Test_userApi_login(t *testing.T) {
	app := setup(t)
	_, err := app.usrSvc.Register(context.Background(), "admin@school.cd", "S3kure#pass")
	require.NoError(t, err)

	tests := []httpTest{
		{
			name:     "ok",
			body:     marchallObj(t, echoapi.LoginRequest{Email: "admin@school.cd", Password: "S3kure#pass"}),
			wantCode: http.StatusOK,
		},
		{
			name:     "unknown email",
			body:     marchallObj(t, echoapi.LoginRequest{Email: "nobody@school.cd", Password: "S3kure#pass"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "wrong password",
			body:     marchallObj(t, echoapi.LoginRequest{Email: "admin@school.cd", Password: "not-the-one"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var resp echoapi.LoginResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}

func Test_userApi_passwordReset(t *testing.T) {
	app := setup(t)
	_, err := app.usrSvc.Register(context.Background(), "admin@school.cd", "S3kure#pass")
	require.NoError(t, err)

	code := requestOTP(t, app, "admin@school.cd")
	req, rec := newRequest(http.MethodPost, "/v1/users/password-reset",
		marchallObj(t, echoapi.PasswordResetRequest{Email: "admin@school.cd", Password: "Fresh#pass77", Code: code}))
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, echoapi.SuccessResponse{Success: "Password has been reset with the new password."}),
	}, rec)

	_, err = app.usrSvc.Authenticate(context.Background(), "admin@school.cd", "Fresh#pass77")
	assert.NoError(t, err)
	_, err = app.usrSvc.Authenticate(context.Background(), "admin@school.cd", "S3kure#pass")
	assert.Equal(t, user.ErrInvalidCredentials, err)
}

func Test_userApi_count(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/v1/users/count")
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, echoapi.CountResponse{Count: 0}),
	}, rec)

	_, err := app.usrSvc.Register(context.Background(), "admin@school.cd", "S3kure#pass")
	require.NoError(t, err)

	req, rec = newRequest(http.MethodGet, "/v1/users/count")
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, echoapi.CountResponse{Count: 1}),
	}, rec)
}

func Test_userApi_adminGuards(t *testing.T) {
	app := setup(t)
	adminToken := app.adminToken(t, "admin@school.cd")
	teacherToken := app.teacherToken(t, "teacher@school.cd")

	tests := []httpTest{
		{name: "query anonymous", method: http.MethodGet, path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "query teacher", method: http.MethodGet, path: "/v1/users", token: teacherToken, wantCode: http.StatusForbidden},
		{name: "query admin", method: http.MethodGet, path: "/v1/users", token: adminToken, wantCode: http.StatusOK},
		{name: "teachers anonymous", method: http.MethodGet, path: "/v1/users/teachers", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "teachers admin", method: http.MethodGet, path: "/v1/users/teachers", token: adminToken, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_createTeacherUser(t *testing.T) {
	app := setup(t)
	adminToken := app.adminToken(t, "admin@school.cd")

	req, rec := newAuthRequest(http.MethodPost, "/v1/users/teachers", adminToken,
		marchallObj(t, user.NewTeacherUser{Email: "mwalimu@school.cd", Password: "S3kure#pass"}))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var usr user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usr))
	assert.Equal(t, "mwalimu@school.cd", usr.Email)
	assert.True(t, usr.IsTeacher())

	// duplicate email is a field error
	req, rec = newAuthRequest(http.MethodPost, "/v1/users/teachers", adminToken,
		marchallObj(t, user.NewTeacherUser{Email: "mwalimu@school.cd", Password: "S3kure#pass"}))
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, map[string]string{"email": "a user with this email already exists"}),
	}, rec)
}

func Test_userApi_destroyMultiple(t *testing.T) {
	app := setup(t)
	adminToken := app.adminToken(t, "admin@school.cd")

	ctx := context.Background()
	victim, err := app.usrSvc.CreateTeacherUser(ctx, user.NewTeacherUser{Email: "mwalimu@school.cd", Password: "S3kure#pass"})
	require.NoError(t, err)
	admin, err := app.usrSvc.GetByEmail(ctx, "admin@school.cd")
	require.NoError(t, err)

	// self-delete is forbidden
	req, rec := newAuthRequest(http.MethodDelete, "/v1/users?id="+admin.ID, adminToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	req, rec = newAuthRequest(http.MethodDelete, "/v1/users?id="+victim.ID, adminToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	_, err = app.usrSvc.GetByEmail(ctx, "mwalimu@school.cd")
	assert.Equal(t, user.ErrNotFound, err)
}
