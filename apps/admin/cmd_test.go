package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neptune-academy/reportcards/core"
	"github.com/neptune-academy/reportcards/core/auth"
	"github.com/neptune-academy/reportcards/core/exam"
	"github.com/neptune-academy/reportcards/core/password"
	"github.com/neptune-academy/reportcards/core/student"
	appfs "github.com/neptune-academy/reportcards/fs"
	emailsvc "github.com/neptune-academy/reportcards/services/email"
	logsvc "github.com/neptune-academy/reportcards/services/logger"
	"github.com/neptune-academy/reportcards/storage/database/inmem"
	"github.com/neptune-academy/reportcards/tests"
)

var (
	stdRepo  student.Repository
	examRepo exam.Repository
	mailbox  interface{ Sent() []core.EmailMessage }
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	// set up DB & repos
	db := inmemdb.Open()
	stdRepo = inmemdb.NewStudentRepository(db)
	examRepo = inmemdb.NewExamRepository(db)

	conf := &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "Report Cards",
		SecretKey: "secret",
		School:    core.SchoolConfig{Name: "NEPTUNE ACADEMY"},
		Server:    core.ServerConfig{JWTExpirationDelta: time.Hour},
	}
	out := new(bytes.Buffer)
	logger := logsvc.NewRollbarLogger(log.New(out, "", 0), conf)
	logger.Enable(false)

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	isTerminalFunc = func() bool { return false }

	tmpls, err := core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf)
	require.NoError(t, err)
	emailSvc := emailsvc.NewConsoleService(conf, tmpls, io.Discard)
	mailbox = emailSvc

	// start CLI
	return &commandLine{
		conf:     conf,
		out:      out,
		logger:   logger,
		validate: validate,
		stdSvc:   student.NewService(stdRepo, validate, translator),
		examSvc:  exam.NewService(examRepo, exam.NewGrader()),
		pwdGen:   password.NewGenerator(rand.NewSource(7)),
		emailSvc: emailSvc,
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func (tt cliTest) check(t *testing.T, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		if errors.Cause(err) != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if err == nil || !strings.Contains(err.Error(), tt.wantErrStr) {
			t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
		}
	case err != nil:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}

func Test_commandLine_run(t *testing.T) {
	cli, out := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "help flag", args: []string{"genpassword", "-h"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"genpassword", "-lol"}, wantErrStr: "flag provided but not defined: -lol"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}
	assert.Contains(t, out.String(), "Usage:")
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	migrateFunc = func(db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "subject", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}
}

func Test_openStorage_inmem(t *testing.T) {
	subjects := testutil.WriteFile(t, "subjects.json", testutil.SubjectsJSON)
	opener := testutil.WriteFile(t, "opener.json", testutil.OpenerJSON)
	midterm := testutil.WriteFile(t, "midterm.json", testutil.MidtermJSON)
	endterm := testutil.WriteFile(t, "endterm.json", testutil.EndtermJSON)

	cli, out := setup(t)
	cli.conf.Database = core.DatabaseConfig{Engine: inmemEngine, Host: "unreachable.invalid"}
	stdRepo, examRepo, db, err := openStorage(cli.conf)
	require.NoError(t, err)
	require.Nil(t, db)

	translator := core.NewTranslator()
	cli.stdSvc = student.NewService(stdRepo, cli.validate, translator)
	cli.examSvc = exam.NewService(examRepo, exam.NewGrader())
	testutil.CreateStudent(t, stdRepo, "127", "FATUMA ABDI", student.GenderFemale, 2008)

	tests := []cliTest{
		{name: "reportcards from files", args: []string{"reportcards", "-subjects", subjects, "-opener", opener, "-midterm", midterm, "-endterm", endterm}},
		{name: "migrate", args: []string{"migrate", "up"}, wantErr: errNoDatabase},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}
	assert.Contains(t, out.String(), "NAME: FATUMA ABDI   ADM NO: 127")
}

func Test_commandLine_reportCards(t *testing.T) {
	subjects := testutil.WriteFile(t, "subjects.json", testutil.SubjectsJSON)
	opener := testutil.WriteFile(t, "opener.json", testutil.OpenerJSON)
	midterm := testutil.WriteFile(t, "midterm.json", testutil.MidtermJSON)
	endterm := testutil.WriteFile(t, "endterm.json", testutil.EndtermJSON)
	fromFiles := []string{"reportcards", "-subjects", subjects, "-opener", opener, "-midterm", midterm, "-endterm", endterm}
	term := []string{"-year", "2024", "-term", "2", "-form", "FORM 1"}

	t.Run("usage", func(t *testing.T) {
		cli, _ := setup(t)
		tests := []cliTest{
			{name: "no flags", args: []string{"reportcards"}, wantErr: errHelp},
			{name: "no rounds", args: []string{"reportcards", "-subjects", subjects}, wantErr: errHelp},
			{name: "save without term", args: append(fromFiles, "-save"), wantErr: errHelp},
			{name: "unknown format", args: append(fromFiles, "-format", "pdf"), wantErr: errHelp},
			{name: "email without out", args: append(fromFiles, "-email", "head@neptune.ac.ke"), wantErr: errHelp},
			{name: "invalid email", args: append(fromFiles, "-out", t.TempDir(), "-email", "lol"), wantErrStr: "parsing -email"},
			{name: "invalid term", args: []string{"reportcards", "-subjects", subjects, "-year", "2024"}, wantErrStr: "term"},
			{name: "missing round", args: []string{"reportcards", "-subjects", subjects, "-opener", opener, "-midterm", midterm}, wantErrStr: "expected 3 round files"},
			{name: "term never saved", args: append([]string{"reportcards", "-subjects", subjects}, term...), wantErr: exam.ErrRoundNotFound},
		}
		for _, tt := range tests {
			args := append([]string{"admin"}, tt.args...)
			t.Run(tt.name, func(t *testing.T) {
				tt.check(t, cli.run(args))
			})
		}
	})

	t.Run("text", func(t *testing.T) {
		cli, out := setup(t)
		testutil.CreateStudent(t, stdRepo, "127", "FATUMA ABDI", student.GenderFemale, 2008)

		require.NoError(t, cli.run(append([]string{"admin"}, fromFiles...)))
		assert.Contains(t, out.String(), "NEPTUNE ACADEMY")
		assert.Contains(t, out.String(), "NAME: FATUMA ABDI   ADM NO: 127")
		assert.Contains(t, out.String(), "NAME:    ADM NO: 130")
		assert.NotContains(t, out.String(), "\x1b[")
	})

	t.Run("save then reload", func(t *testing.T) {
		cli, out := setup(t)
		args := append(append([]string{"admin"}, fromFiles...), append(term, "-save", "-format", "json")...)
		require.NoError(t, cli.run(args))
		saved := out.String()
		assert.Contains(t, saved, `"mean_deviation": "+7"`)

		out.Reset()
		args = append(append([]string{"admin", "reportcards", "-subjects", subjects}, term...), "-format", "json")
		require.NoError(t, cli.run(args))
		assert.Equal(t, saved, out.String())
	})

	t.Run("mismatched rounds", func(t *testing.T) {
		cli, _ := setup(t)
		short := testutil.WriteFile(t, "endterm.json", `{"round": "endterm", "entries": [
			{"student_id": "127", "scores": [[61], [50]], "summary": {"mean": 55}}
		]}`)
		args := []string{"admin", "reportcards", "-subjects", subjects, "-opener", opener, "-midterm", midterm, "-endterm", short}
		err := cli.run(args)
		var mErr *exam.MismatchedRoundsError
		assert.True(t, errors.As(err, &mErr), err)
	})

	t.Run("to file", func(t *testing.T) {
		cli, out := setup(t)
		dir := t.TempDir()
		require.NoError(t, cli.run(append(append([]string{"admin"}, fromFiles...), "-out", dir)))
		matches, err := filepath.Glob(filepath.Join(dir, "reportcards_*.txt"))
		require.NoError(t, err)
		assert.Len(t, matches, 1)
		assert.Contains(t, out.String(), "2 report cards written to "+matches[0])
		assert.Empty(t, mailbox.Sent())
	})

	t.Run("emailed", func(t *testing.T) {
		cli, out := setup(t)
		testutil.CreateStudent(t, stdRepo, "127", "FATUMA ABDI", student.GenderFemale, 2008)
		dir := t.TempDir()
		args := append(append([]string{"admin"}, fromFiles...), append(term, "-out", dir, "-email", "Head Teacher <head@neptune.ac.ke>, dos@neptune.ac.ke")...)
		require.NoError(t, cli.run(args))
		assert.Contains(t, out.String(), "report cards emailed to 2 recipient(s)")

		sent := mailbox.Sent()
		require.Len(t, sent, 1)
		msg := sent[0]
		assert.Equal(t, "Report cards: FORM 1, term 2 2024", msg.Subject)
		require.Len(t, msg.To, 2)
		assert.Equal(t, "head@neptune.ac.ke", msg.To[0].Address)
		assert.Equal(t, "Head Teacher", msg.To[0].Name)
		require.Len(t, msg.Attachments, 1)
		assert.Regexp(t, `^reportcards_.+\.txt$`, msg.Attachments[0].Filename)
		assert.Contains(t, msg.TextContent, "NEPTUNE ACADEMY")
		assert.Contains(t, msg.TextContent, "2 student(s)")
		assert.Contains(t, msg.TextContent, "1. FATUMA ABDI (127) - mean 55")
		assert.Contains(t, msg.HTMLContent, "<li>FATUMA ABDI (127): mean 55")
	})
}

func Test_commandLine_student(t *testing.T) {
	cli, out := setup(t)
	ctx := context.Background()

	tests := []cliTest{
		{name: "no subcommand", args: []string{"student"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"student", "lol"}, wantErr: errHelp},
		{name: "add: invalid", args: []string{"student", "add", "-adm", "127", "-name", "Fatuma", "-gender", "X", "-yob", "20", "-dorm", "Elgon"}, wantErrStr: "gender"},
		{name: "add", args: []string{"student", "add", "-adm", "127", "-name", "Fatuma Abdi", "-gender", "f", "-yob", "2008", "-dorm", "Elgon"}},
		{name: "add: duplicate", args: []string{"student", "add", "-adm", "127", "-name", "Erick", "-gender", "M", "-yob", "2008", "-dorm", "Elgon"}, wantErrStr: student.ErrAdmExists.Error()},
		{name: "find: not found", args: []string{"student", "find", "-adm", "999"}, wantErr: student.ErrNotFound},
		{name: "find", args: []string{"student", "find", "-adm", "127"}},
		{name: "update", args: []string{"student", "update", "-adm", "127", "-dorm", "Kenya"}},
		{name: "list", args: []string{"student", "list", "-order", "name", "-desc"}},
		{name: "delete: not found", args: []string{"student", "delete", "-adm", "999"}, wantErr: student.ErrNotFound},
		{name: "delete", args: []string{"student", "delete", "-adm", "127"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}

	assert.Contains(t, out.String(), "Fatuma Abdi")
	assert.Contains(t, out.String(), "Kenya")
	_, err := stdRepo.GetStudent(ctx, "127")
	assert.Equal(t, student.ErrNotFound, errors.Cause(err))
}

func Test_commandLine_genPassword(t *testing.T) {
	cli, out := setup(t)

	tests := []cliTest{
		{name: "zero count", args: []string{"genpassword", "-name", "fatuma", "-n", "0"}, wantErr: errHelp},
		{name: "suggest", args: []string{"genpassword", "-name", "fatuma", "-n", "3"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			tt.check(t, cli.run(args))
		})
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 3)
	for _, pwd := range lines {
		assert.Contains(t, strings.ToLower(pwd), "fatuma")
	}
}

func Test_commandLine_token(t *testing.T) {
	cli, out := setup(t)

	tt := cliTest{name: "no name", args: []string{"token"}, wantErr: errHelp}
	tt.check(t, cli.run(append([]string{"admin"}, tt.args...)))

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "token", "-name", " Mrs.  Wanjiku ", "-admin"}))
	claims, err := auth.ParseToken(strings.TrimSpace(out.String()), []byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, "mrs..wanjiku", claims.Subject)
	assert.Equal(t, "Mrs.  Wanjiku", claims.Name)
	assert.True(t, claims.HasRole(auth.RoleAdmin))
	assert.True(t, claims.HasRole(auth.RoleTeacher))
}
