package main

import (
	"context"
	"fmt"
	"net/mail"
	"os"

	"github.com/pkg/errors"

	"github.com/neptune-academy/reportcards/core/exam"
	reportsvc "github.com/neptune-academy/reportcards/services/report"
	"github.com/neptune-academy/reportcards/storage/examfile"
)

var isTerminalFunc = func() bool { return reportsvc.IsTerminal(os.Stdout) } // mockable

// reportCards grades a class either from round files or from the rounds saved for a term.
func (cli *commandLine) reportCards(args []string) error {
	cmd := cli.newFlagSet("reportcards")
	subjectsPath := cmd.String("subjects", "", "The subject roster (JSON).")
	openerPath := cmd.String("opener", "", "The opener round table (JSON).")
	midtermPath := cmd.String("midterm", "", "The midterm round table (JSON).")
	endtermPath := cmd.String("endterm", "", "The endterm round table (JSON).")
	year := cmd.Int("year", 0, "The exams year.")
	termNum := cmd.Int("term", 0, "The school term (1-3).")
	form := cmd.String("form", "", "The class, eg. \"FORM 1\".")
	save := cmd.Bool("save", false, "Save the round files for the term.")
	format := cmd.String("format", "text", "Output format: text or json.")
	outDir := cmd.String("out", "", "Write the report cards to a file in this directory instead of stdout.")
	emailTo := cmd.String("email", "", "Email the report cards file to these comma separated addresses (requires -out).")
	if err := parseFlags(cmd, args); err != nil {
		return err
	}

	term := exam.Term{Year: *year, Number: *termNum, Form: *form}
	hasTerm := *year != 0 || *termNum != 0 || *form != ""
	fromFiles := *openerPath != "" || *midtermPath != "" || *endtermPath != ""
	if *subjectsPath == "" || (!fromFiles && !hasTerm) || (*save && !hasTerm) || (*format != "text" && *format != "json") || (*emailTo != "" && *outDir == "") {
		cmd.Usage()
		return errHelp
	}
	if hasTerm {
		if err := cli.validate.Struct(term); err != nil {
			return err
		}
	}

	var recipients []mail.Address
	if *emailTo != "" {
		addrs, err := mail.ParseAddressList(*emailTo)
		if err != nil {
			return errors.Wrap(err, "parsing -email")
		}
		for _, addr := range addrs {
			recipients = append(recipients, *addr)
		}
	}

	subjects, err := examfile.LoadSubjects(*subjectsPath, cli.validate)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var rounds [exam.NumRounds][]exam.Entry
	if fromFiles {
		paths := make([]string, 0, exam.NumRounds)
		for _, path := range []string{*openerPath, *midtermPath, *endtermPath} {
			if path != "" {
				paths = append(paths, path)
			}
		}
		if rounds, err = examfile.LoadRounds(exam.DefaultMarksScale, paths...); err != nil {
			return err
		}
		if *save {
			for _, r := range exam.Rounds {
				if err = cli.examSvc.ImportRound(ctx, term, r, rounds[r]); err != nil {
					return err
				}
			}
		}
	} else if rounds, err = cli.examSvc.LoadRounds(ctx, term); err != nil {
		return err
	}

	res, err := cli.examSvc.Grade(subjects, rounds)
	if err != nil {
		return err
	}
	return cli.render(ctx, term, res, *format, *outDir, recipients)
}

func (cli *commandLine) render(ctx context.Context, term exam.Term, res *exam.Results, format, outDir string, recipients []mail.Address) error {
	names, err := cli.stdSvc.Names(ctx)
	if err != nil {
		cli.logger.Warn("student names unavailable, leaving them blank", err)
	}

	var renderer reportsvc.Renderer
	if format == "json" {
		renderer = &reportsvc.JSONRenderer{Indent: true}
	} else {
		tr, err := reportsvc.NewTextRenderer(reportsvc.Options{
			School: cli.conf.School,
			Term:   term,
			Names:  names,
			Color:  outDir == "" && isTerminalFunc(),
		})
		if err != nil {
			return err
		}
		renderer = tr
	}

	if outDir == "" {
		return renderer.Render(cli.out, res)
	}
	batch := reportsvc.NewBatchID()
	path, err := reportsvc.WriteFile(outDir, batch, renderer, res)
	if err != nil {
		return errors.Wrap(err, "writing report cards")
	}
	fmt.Fprintf(cli.out, "%d report cards written to %s\n", res.Len(), path)

	if len(recipients) == 0 {
		return nil
	}
	msg := reportsvc.NewEmailMessage(recipients, term, batch, res, names, 3)
	if err = msg.AttachFile(path); err != nil {
		return err
	}
	if err = cli.emailSvc.SendMessages(msg); err != nil {
		return errors.Wrap(err, "emailing report cards")
	}
	fmt.Fprintf(cli.out, "report cards emailed to %d recipient(s)\n", len(recipients))
	return nil
}
