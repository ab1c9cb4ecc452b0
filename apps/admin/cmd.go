package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/neptune-academy/reportcards/core"
	"github.com/neptune-academy/reportcards/core/exam"
	"github.com/neptune-academy/reportcards/core/password"
	"github.com/neptune-academy/reportcards/core/student"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf     *core.Config
	db       *sql.DB
	out      io.Writer
	logger   core.Logger
	validate *validator.Validate
	stdSvc   *student.Service
	examSvc  *exam.Service
	pwdGen   *password.Generator
	emailSvc core.EmailService
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  reportcards -subjects FILE (-opener FILE -midterm FILE -endterm FILE | -year Y -term T -form F) [-save] [-format text|json] [-out DIR [-email ADDRS]]")
	fmt.Fprintln(cli.out, "      - grade the three exam rounds of a class and print its report cards")
	fmt.Fprintln(cli.out, "  student add|find|update|delete|list [FLAGS] - manage students")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a database migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  genpassword -name NAME [-n COUNT] - suggest passwords built around a name")
	fmt.Fprintln(cli.out, "  token -name NAME [-admin] - issue an API token")
}

// newFlagSet returns a flag set reporting its errors to the command line output.
func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "reportcards":
		return cli.reportCards(args[2:])
	case "student":
		return cli.student(args[2:])
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "genpassword":
		return cli.genPassword(args[2:])
	case "token":
		return cli.token(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}
