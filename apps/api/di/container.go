// Package di builds the API dependency graph.
package di

import (
	"context"
	"log"
	"os"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/neptune-academy/reportcards/apps/api/echo"
	"github.com/neptune-academy/reportcards/core"
	"github.com/neptune-academy/reportcards/core/exam"
	"github.com/neptune-academy/reportcards/core/student"
	logsvc "github.com/neptune-academy/reportcards/services/logger"
	"github.com/neptune-academy/reportcards/storage/database"
	"github.com/neptune-academy/reportcards/storage/database/inmem"
	"github.com/neptune-academy/reportcards/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Repositories are backed by postgres, or kept in memory when the database is disabled.
type Repositories struct {
	dig.Out
	Student student.Repository
	Exam    exam.Repository
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

// newDB returns a nil DB when the database engine is "inmem".
func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, error) {
	if conf.Database.Engine == "inmem" {
		loggerParam.Logger.Warn("database disabled, data is kept in memory")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return nil, errors.Wrap(err, "creating database")
	}
	db, err := database.Open(conf)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = database.Ping(ctx, db); err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	if err = database.Migrate(db.DB, "up"); err != nil {
		return nil, err
	}
	return db, nil
}

func newRepositories(db *sqlx.DB) Repositories {
	if db == nil {
		mem := inmemdb.Open()
		return Repositories{
			Student: inmemdb.NewStudentRepository(mem),
			Exam:    inmemdb.NewExamRepository(mem),
		}
	}
	return Repositories{
		Student: sqlxrepos.NewStudentRepository(db),
		Exam:    sqlxrepos.NewExamRepository(db),
	}
}

func newGrader(conf *core.Config) exam.Grader {
	return exam.NewGrader(exam.TreatZeroAsAbsent(conf.Grading.TreatZeroAsAbsent))
}

func newValidator(translator ut.Translator) *validator.Validate {
	return core.NewValidator(translator)
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	stdSvc *student.Service,
	examSvc *exam.Service,
	validate *validator.Validate,
	translator ut.Translator,
) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		StudentSvc: stdSvc,
		ExamSvc:    examSvc,
		Validate:   validate,
		Translator: translator,
	})
}

// New returns a new dependency injection dig.Container
func New(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newRepositories))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(newGrader))
	must(c.Provide(student.NewService))
	must(c.Provide(exam.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
