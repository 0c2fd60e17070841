package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/TNSHR/teacher-rating-backend/core"
	"github.com/TNSHR/teacher-rating-backend/core/rating"
	"github.com/TNSHR/teacher-rating-backend/core/student"
	"github.com/TNSHR/teacher-rating-backend/core/teacher"
	"github.com/TNSHR/teacher-rating-backend/core/user"
	"github.com/TNSHR/teacher-rating-backend/storage/database/dummy"
)

var (
	usrSvc *user.Service
	stdSvc *student.Service
	tchSvc *teacher.Service
)

func setup(t *testing.T) *commandLine {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags)

	conf := core.NewConfig()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	usrSvc = user.NewService(dummydb.NewUserRepository(db), conf)
	stdSvc = student.NewService(dummydb.NewStudentRepository(db))
	tchSvc = teacher.NewService(dummydb.NewTeacherRepository(db))

	return &commandLine{
		usrSvc: usrSvc,
		stdSvc: stdSvc,
		tchSvc: tchSvc,
		ratSvc: rating.NewService(dummydb.NewRatingRepository(db), stdSvc, tchSvc),
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_addSuperuser(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addsuperuser"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"addsuperuser", "-email", "admin@school.cd"}, wantErr: errHelp},
		{name: "ok", args: []string{"addsuperuser", "-email", "admin@school.cd"}, pwd: "S3kure#pass"},
		{name: "already registered is a no-op", args: []string{"addsuperuser", "-email", "admin@school.cd"}, pwd: "Other#pass99"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	// the first password won
	if _, err := usrSvc.Authenticate(context.Background(), "admin@school.cd", "S3kure#pass"); err != nil {
		t.Errorf("Authenticate() failed: %v", err)
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	ctx := context.Background()
	if _, err := usrSvc.Register(ctx, "admin@school.cd", "S3kure#pass"); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "admin@school.cd"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "nobody@school.cd"}, pwd: "lol", wantErr: user.ErrNotFound},
		{name: "ok", args: []string{"resetpassword", "-email", "admin@school.cd"}, pwd: "Fresh#pass77"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if _, err := usrSvc.Authenticate(ctx, "admin@school.cd", "Fresh#pass77"); err != nil {
		t.Errorf("Authenticate() with new password failed: %v", err)
	}
	if _, err := usrSvc.Authenticate(ctx, "admin@school.cd", "S3kure#pass"); err != user.ErrInvalidCredentials {
		t.Errorf("Authenticate() with old password: error = %v, want %v", err, user.ErrInvalidCredentials)
	}
}

func Test_commandLine_addStudent(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no args", args: []string{"addstudent"}, wantErr: errHelp},
		{name: "name but no grade", args: []string{"addstudent", "-name", "John Kamau"}, wantErr: errHelp},
		{name: "generated code", args: []string{"addstudent", "-name", "John Kamau", "-grade", "3"}},
		{name: "explicit code", args: []string{"addstudent", "-name", "Mary Achieng", "-grade", "4", "-code", "XYZ789"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	stds, err := stdSvc.QueryAll(context.Background())
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	if len(stds) != 2 {
		t.Fatalf("len(stds) = %d, want 2", len(stds))
	}
	codeShape := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	for _, std := range stds {
		if !codeShape.MatchString(std.Code) {
			t.Errorf("student %q has malformed access code %q", std.Name, std.Code)
		}
	}
}

func Test_commandLine_addTeacher(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no args", args: []string{"addteacher"}, wantErr: errHelp},
		{name: "missing subject", args: []string{"addteacher", "-name", "Grace Mwangi", "-grade", "3"}, wantErr: errHelp},
		{name: "ok", args: []string{"addteacher", "-name", "Grace Mwangi", "-subject", "Mathematics", "-grade", "3"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	tchs, err := tchSvc.QueryAll(context.Background())
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	if len(tchs) != 1 {
		t.Fatalf("len(tchs) = %d, want 1", len(tchs))
	}
}

func Test_commandLine_seed(t *testing.T) {
	cli := setup(t)

	if err := cli.run([]string{"admin", "seed"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}

	stds, err := stdSvc.QueryAll(context.Background())
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	tchs, err := tchSvc.QueryAll(context.Background())
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	if len(stds) == 0 || len(tchs) == 0 {
		t.Errorf("seed left an empty school: %d students, %d teachers", len(stds), len(tchs))
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	migrateFunc = func(db *sqlx.DB, command string, args ...string) error {
		switch command {
		case "up", "down", "redo", "reset", "status", "version", "fix": // pass
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []struct {
		name       string
		args       []string
		wantErr    error
		wantErrStr string
	}{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			default:
				if err != nil {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}
