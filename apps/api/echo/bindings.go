package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/TNSHR/teacher-rating-backend/core"
	"github.com/TNSHR/teacher-rating-backend/core/user"
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	RegisterRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
		Code     string `json:"code" validate:"required,len=6,numeric"`
	}

	PasswordResetRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
		Code     string `json:"code" validate:"required,len=6,numeric"`
	}

	OTPRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	OTPVerifyRequest struct {
		Email string `json:"email" validate:"required,email"`
		Code  string `json:"code" validate:"required,len=6,numeric"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	CountResponse struct {
		Count int `json:"count"`
	}

	DestroyMultipleRequest struct {
		IDs []string `query:"id"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (rr *RegisterRequest) Validate(validate *validator.Validate) error {
	rr.Email = core.CleanString(rr.Email, true /* lower */)
	rr.Code = core.CleanString(rr.Code)
	if err := validate.Struct(rr); err != nil {
		return err
	}
	// password policy applies to the credential, not the transport
	reg := user.Register{Email: rr.Email, Password: rr.Password}
	return reg.Validate(validate)
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	pr.Code = core.CleanString(pr.Code)
	if err := validate.Struct(pr); err != nil {
		return err
	}
	rp := user.ResetUserPassword{Email: pr.Email, Password: pr.Password}
	return rp.Validate(validate)
}

func (or *OTPRequest) Validate(validate *validator.Validate) error {
	or.Email = core.CleanString(or.Email, true /* lower */)
	return validate.Struct(or)
}

func (ov *OTPVerifyRequest) Validate(validate *validator.Validate) error {
	ov.Email = core.CleanString(ov.Email, true /* lower */)
	ov.Code = core.CleanString(ov.Code)
	return validate.Struct(ov)
}
