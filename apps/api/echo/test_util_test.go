package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/TNSHR/teacher-rating-backend/apps/api/echo"
	"github.com/TNSHR/teacher-rating-backend/core"
	"github.com/TNSHR/teacher-rating-backend/core/otp"
	"github.com/TNSHR/teacher-rating-backend/core/rating"
	"github.com/TNSHR/teacher-rating-backend/core/student"
	"github.com/TNSHR/teacher-rating-backend/core/teacher"
	"github.com/TNSHR/teacher-rating-backend/core/user"
	emailsvc "github.com/TNSHR/teacher-rating-backend/services/email"
	exportsvc "github.com/TNSHR/teacher-rating-backend/services/export"
	"github.com/TNSHR/teacher-rating-backend/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	server *echoapi.Server
	conf   *core.Config
	usrSvc *user.Service
	otpSvc *otp.Service
	stdSvc *student.Service
	tchSvc *teacher.Service
	ratSvc *rating.Service
}

func setup(t *testing.T) *testApp {
	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true

	db, err := dummydb.Open()
	require.NoError(t, err)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(dummydb.NewUserRepository(db), conf)
	otpSvc := otp.NewService(dummydb.NewOTPRepository(db), mailSvc, conf)
	stdSvc := student.NewService(dummydb.NewStudentRepository(db))
	tchSvc := teacher.NewService(dummydb.NewTeacherRepository(db))
	ratSvc := rating.NewService(dummydb.NewRatingRepository(db), stdSvc, tchSvc)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     testLogger{t},
		UserSvc:    usrSvc,
		OTPSvc:     otpSvc,
		StudentSvc: stdSvc,
		TeacherSvc: tchSvc,
		RatingSvc:  ratSvc,
		ExportSvc:  exportsvc.NewExcelService(),
		Validate:   validate,
		Translator: translator,

		DisableReqLogs: true,
	})

	return &testApp{
		server: server,
		conf:   conf,
		usrSvc: usrSvc,
		otpSvc: otpSvc,
		stdSvc: stdSvc,
		tchSvc: tchSvc,
		ratSvc: ratSvc,
	}
}

type testLogger struct{ t *testing.T }

func (l testLogger) Enable(bool)                           {}
func (l testLogger) Debug(msg string, args ...interface{}) { l.t.Logf("DEBUG: %s %v", msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.t.Logf("INFO: %s %v", msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.t.Logf("WARN: %s %v", msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.t.Logf("ERROR: %s %v", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatalf("FATAL: %s %v", msg, args) }

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (app *testApp) adminToken(t *testing.T, email string) string {
	usr, err := app.usrSvc.Register(context.Background(), email, "S3kure#pass")
	require.NoError(t, err)
	return getToken(t, app.conf, usr)
}

func (app *testApp) teacherToken(t *testing.T, email string) string {
	usr, err := app.usrSvc.CreateTeacherUser(context.Background(), user.NewTeacherUser{Email: email, Password: "S3kure#pass"})
	require.NoError(t, err)
	return getToken(t, app.conf, usr)
}

func getToken(t *testing.T, conf *core.Config, usr user.User) string {
	token, err := echoapi.GenerateToken(conf, echoapi.GetUserClaims(conf, usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
