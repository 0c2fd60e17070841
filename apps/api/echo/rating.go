package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/TNSHR/teacher-rating-backend/core/rating"
	"github.com/TNSHR/teacher-rating-backend/core/student"
	"github.com/TNSHR/teacher-rating-backend/core/teacher"
	exportsvc "github.com/TNSHR/teacher-rating-backend/services/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ratingApi struct {
	svc       *rating.Service
	stdSvc    *student.Service
	tchSvc    *teacher.Service
	exportSvc *exportsvc.ExcelService
	validate  *validator.Validate
}

func registerRatingAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := ratingApi{
		svc:       deps.RatingSvc,
		stdSvc:    deps.StudentSvc,
		tchSvc:    deps.TeacherSvc,
		exportSvc: deps.ExportSvc,
		validate:  deps.Validate,
	}

	// un-authed endpoints; submissions are gated by the student's access code
	g.POST("/ratings", api.submit)
	g.GET("/ratings/today/:studentId", api.listForStudentToday)
	g.GET("/teachers-ratings", api.teacherSummaries)
	g.GET("/teachers-ratings/:teacherId", api.teacherSummary)

	// admin endpoints
	ag := g.Group("", jwt, adminMiddleware())
	ag.GET("/ratings", api.query)
	ag.DELETE("/ratings", api.clear)
	ag.GET("/backup", api.backup)
	ag.POST("/restore", api.restore)
}

// Handlers

func (api *ratingApi) submit(ctx echo.Context) error {
	var data rating.NewRating
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRating")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rat, err := api.svc.Submit(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rat)
}

func (api *ratingApi) listForStudentToday(ctx echo.Context) error {
	rats, err := api.svc.ListForStudentToday(ctx.Request().Context(), ctx.Param("studentId"))
	if err != nil {
		return err
	}
	if rats == nil {
		rats = []rating.Rating{}
	}
	return ctx.JSON(http.StatusOK, rats)
}

func (api *ratingApi) teacherSummaries(ctx echo.Context) error {
	summaries, err := api.svc.TeacherSummaries(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "summarizing teachers")
	}
	if summaries == nil {
		summaries = []rating.TeacherSummary{}
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (api *ratingApi) teacherSummary(ctx echo.Context) error {
	summary, err := api.svc.TeacherSummary(ctx.Request().Context(), ctx.Param("teacherId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *ratingApi) query(ctx echo.Context) error {
	details, err := api.svc.ListAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing ratings")
	}
	if details == nil {
		details = []rating.Detail{}
	}
	return ctx.JSON(http.StatusOK, details)
}

// clear exports a ratings-only backup, empties the ledger and returns
// the backup file. Students, teachers and users are untouched.
func (api *ratingApi) clear(ctx echo.Context) error {
	details, err := api.svc.ListAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing ratings")
	}

	buf, filename, err := api.exportSvc.RatingsBackup(details)
	if err != nil {
		return errors.Wrap(err, "exporting ratings backup")
	}

	if err = api.svc.Clear(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "clearing ratings")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (api *ratingApi) backup(ctx echo.Context) error {
	details, err := api.svc.ListAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing ratings")
	}
	tchs, err := api.tchSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	stds, err := api.stdSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	buf, filename, err := api.exportSvc.Backup(details, tchs, stds)
	if err != nil {
		return errors.Wrap(err, "exporting backup")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

type RestoreRequest struct {
	Students []student.Student `json:"students"`
	Teachers []teacher.Teacher `json:"teachers"`
	Ratings  []rating.Rating   `json:"ratings"`
}

// restore bulk-replaces the student, teacher and rating sets, in
// reference order so ratings never point at missing rows.
func (api *ratingApi) restore(ctx echo.Context) error {
	var data RestoreRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RestoreRequest")
	}

	rctx := ctx.Request().Context()
	if err := api.svc.Replace(rctx, nil); err != nil {
		return errors.Wrap(err, "clearing ratings")
	}
	if err := api.stdSvc.Replace(rctx, data.Students); err != nil {
		return errors.Wrap(err, "restoring students")
	}
	if err := api.tchSvc.Replace(rctx, data.Teachers); err != nil {
		return errors.Wrap(err, "restoring teachers")
	}
	if err := api.svc.Replace(rctx, data.Ratings); err != nil {
		return errors.Wrap(err, "restoring ratings")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Data restored."})
}
