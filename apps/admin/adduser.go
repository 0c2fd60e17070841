package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/TNSHR/teacher-rating-backend/core"
	"github.com/TNSHR/teacher-rating-backend/core/user"
)

// addSuperuser creates an admin account; an existing one keeps its
// original credentials.
func (cli *commandLine) addSuperuser(email, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	_, err := cli.usrSvc.Register(ctx, email, pwd)
	if errors.Cause(err) == user.ErrAlreadyRegistered {
		logger.Printf("%s is already registered", email)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Printf("admin account created for %s", email)
	return nil
}

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	if _, err := cli.usrSvc.ResetPassword(ctx, email, pwd); err != nil {
		return err
	}
	logger.Printf("password reset for %s", email)
	return nil
}
