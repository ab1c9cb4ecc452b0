package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/neptune-academy/reportcards/core"
	"github.com/neptune-academy/reportcards/core/auth"
	"github.com/neptune-academy/reportcards/core/exam"
	"github.com/neptune-academy/reportcards/core/student"
)

type (
	reportCardApi struct {
		examSvc  *exam.Service
		stdSvc   *student.Service
		validate *validator.Validate
		school   core.SchoolConfig
	}

	// GradeRequest carries the three round tables of a class.
	GradeRequest struct {
		Subjects []exam.Subject `json:"subjects"`
		Opener   []exam.Entry   `json:"opener"`
		Midterm  []exam.Entry   `json:"midterm"`
		Endterm  []exam.Entry   `json:"endterm"`
	}

	GradeTermRequest struct {
		Term     exam.Term      `json:"term"`
		Subjects []exam.Subject `json:"subjects"`
	}

	ImportRoundRequest struct {
		Term    exam.Term    `json:"term"`
		Round   string       `json:"round"`
		Entries []exam.Entry `json:"entries"`
	}

	ReportCard struct {
		exam.StudentRecord
		Name     string `json:"name"`
		Position int    `json:"position"`
		OutOf    int    `json:"out_of"`
	}

	GradeResponse struct {
		School      core.SchoolConfig `json:"school"`
		Term        *exam.Term        `json:"term,omitempty"`
		ReportCards []ReportCard      `json:"report_cards"`
	}
)

func registerReportCardAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	examSvc *exam.Service,
	stdSvc *student.Service,
	validate *validator.Validate,
	school core.SchoolConfig,
) {
	api := reportCardApi{
		examSvc:  examSvc,
		stdSvc:   stdSvc,
		validate: validate,
		school:   school,
	}

	rg := g.Group("/reportcards", jwt, roleMiddleware(auth.RoleTeacher))
	rg.POST("", api.grade)
	rg.POST("/term", api.gradeTerm)
	rg.PUT("/rounds", api.importRound)
}

func (api *reportCardApi) validateSubjects(subjects []exam.Subject) error {
	if len(subjects) == 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "subjects", Error: "this field is required"})
	}
	return exam.ValidateSubjects(api.validate, subjects)
}

func (api *reportCardApi) grade(ctx echo.Context) error {
	var data GradeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeRequest")
	}
	if err := api.validateSubjects(data.Subjects); err != nil {
		return err
	}

	rounds := [exam.NumRounds][]exam.Entry{fillGrades(data.Opener), fillGrades(data.Midterm), fillGrades(data.Endterm)}
	res, err := api.examSvc.Grade(data.Subjects, rounds)
	if err != nil {
		return err
	}
	return api.respond(ctx, nil, res)
}

func (api *reportCardApi) gradeTerm(ctx echo.Context) error {
	var data GradeTermRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeTermRequest")
	}
	if err := api.validate.Struct(data.Term); err != nil {
		return err
	}
	if err := api.validateSubjects(data.Subjects); err != nil {
		return err
	}

	res, err := api.examSvc.GradeTerm(ctx.Request().Context(), data.Term, data.Subjects)
	if err != nil {
		return err
	}
	return api.respond(ctx, &data.Term, res)
}

func (api *reportCardApi) importRound(ctx echo.Context) error {
	var data ImportRoundRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ImportRoundRequest")
	}
	if err := api.validate.Struct(data.Term); err != nil {
		return err
	}
	round, err := exam.ParseRound(data.Round)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "round", Error: err.Error()})
	}

	if err = api.examSvc.ImportRound(ctx.Request().Context(), data.Term, round, fillGrades(data.Entries)); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *reportCardApi) respond(ctx echo.Context, term *exam.Term, res *exam.Results) error {
	names, err := api.stdSvc.Names(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "loading student names")
	}

	ranking := exam.Rank(res)
	cards := make([]ReportCard, 0, res.Len())
	for _, rec := range res.All() {
		cards = append(cards, ReportCard{
			StudentRecord: rec,
			Name:          names[rec.StudentID],
			Position:      ranking.Position(rec.StudentID),
			OutOf:         ranking.OutOf(),
		})
	}
	return ctx.JSON(http.StatusOK, GradeResponse{School: api.school, Term: term, ReportCards: cards})
}
