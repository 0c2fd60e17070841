package echoapi

import (
	"net/http"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/TNSHR/teacher-rating-backend/core"
	"github.com/TNSHR/teacher-rating-backend/core/otp"
	"github.com/TNSHR/teacher-rating-backend/core/user"
)

type userApi struct {
	svc      *user.Service
	otpSvc   *otp.Service
	conf     *core.Config
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := userApi{
		svc:      deps.UserSvc,
		otpSvc:   deps.OTPSvc,
		conf:     deps.Conf,
		validate: deps.Validate,
	}

	ug := g.Group("/users")

	// un-authed endpoints
	// TODO: rate limit `/otp` & `/otp/verify`
	ug.POST("/login", api.login)
	ug.POST("/register", api.register)
	ug.POST("/password-reset", api.resetPassword)
	ug.POST("/otp", api.requestOTP)
	ug.POST("/otp/verify", api.verifyOTP)
	ug.GET("/count", api.count)

	// admin endpoints
	ag := ug.Group("", jwt, adminMiddleware())
	ag.GET("", api.query)
	ag.DELETE("", api.destroyMultiple)
	ag.POST("/teachers", api.createTeacherUser)
	ag.GET("/teachers", api.queryTeacherUsers)
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return err
	}
	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *userApi) register(ctx echo.Context) error {
	var data RegisterRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegisterRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.otpSvc.Verify(ctx.Request().Context(), data.Email, data.Code); err != nil {
		return err
	}

	_, err := api.svc.Register(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrAlreadyRegistered {
			// idempotent registration; the first write won
			return ctx.JSON(http.StatusOK, SuccessResponse{Success: "This email address is already registered."})
		}
		return errors.Wrap(err, "registering user")
	}
	return ctx.JSON(http.StatusCreated, SuccessResponse{Success: "Account created. You can now log in."})
}

func (api *userApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.otpSvc.Verify(ctx.Request().Context(), data.Email, data.Code); err != nil {
		return err
	}

	if _, err := api.svc.ResetPassword(ctx.Request().Context(), data.Email, data.Password); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

func (api *userApi) requestOTP(ctx echo.Context) error {
	var data OTPRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to OTPRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.otpSvc.Request(ctx.Request().Context(), data.Email); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "A verification code has been sent to your email address."})
}

func (api *userApi) verifyOTP(ctx echo.Context) error {
	var data OTPVerifyRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to OTPVerifyRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.otpSvc.Verify(ctx.Request().Context(), data.Email, data.Code); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Code verified."})
}

func (api *userApi) count(ctx echo.Context) error {
	count, err := api.svc.Count(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "counting users")
	}
	return ctx.JSON(http.StatusOK, CountResponse{Count: count})
}

func (api *userApi) query(ctx echo.Context) error {
	users, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	// ctxUser cannot delete themselves
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	sort.Strings(query.IDs)
	if i := sort.SearchStrings(query.IDs, claims.Subject); i < len(query.IDs) {
		if match := query.IDs[i]; claims.Subject == match {
			return errHttpForbidden
		}
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) createTeacherUser(ctx echo.Context) error {
	var data user.NewTeacherUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacherUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.CreateTeacherUser(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) queryTeacherUsers(ctx echo.Context) error {
	users, err := api.svc.QueryTeacherUsers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teacher users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}
