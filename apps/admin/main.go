package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/neptune-academy/reportcards/core"
	"github.com/neptune-academy/reportcards/core/exam"
	"github.com/neptune-academy/reportcards/core/password"
	"github.com/neptune-academy/reportcards/core/student"
	emailsvc "github.com/neptune-academy/reportcards/services/email"
	logsvc "github.com/neptune-academy/reportcards/services/logger"
	"github.com/neptune-academy/reportcards/storage/database"
	"github.com/neptune-academy/reportcards/storage/database/inmem"
	"github.com/neptune-academy/reportcards/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	std := log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, conf)

	// set up storage
	stdRepo, examRepo, db, err := openStorage(conf)
	if err != nil {
		logger.Fatal("setting up storage", err)
	}
	closeDB := func() {
		if db != nil {
			_ = db.Close()
		}
	}
	defer closeDB()

	emailSvc, err := emailsvc.New(conf, logger, os.Stderr)
	if err != nil {
		logger.Fatal("setting up emails", err)
	}

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)

	// start CLI
	cli := commandLine{
		conf:     conf,
		out:      os.Stdout,
		logger:   logger,
		validate: validate,
		stdSvc:   student.NewService(stdRepo, validate, translator),
		examSvc: exam.NewService(
			examRepo,
			exam.NewGrader(exam.TreatZeroAsAbsent(conf.Grading.TreatZeroAsAbsent)),
		),
		pwdGen:   password.NewGenerator(nil),
		emailSvc: emailSvc,
	}
	if db != nil {
		cli.db = db.DB
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			std.Printf("\nerror: %s\n", err)
		}
		closeDB()
		os.Exit(1)
	}
}

// openStorage returns in-memory repositories and a nil DB when the database engine is "inmem".
func openStorage(conf *core.Config) (student.Repository, exam.Repository, *sqlx.DB, error) {
	if conf.Database.Engine == inmemEngine {
		mem := inmemdb.Open()
		return inmemdb.NewStudentRepository(mem), inmemdb.NewExamRepository(mem), nil, nil
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "opening database")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, nil, errors.Wrap(err, "connecting to database")
	}
	return sqlxrepos.NewStudentRepository(db), sqlxrepos.NewExamRepository(db), db, nil
}
