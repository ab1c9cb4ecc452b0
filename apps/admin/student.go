package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/neptune-academy/reportcards/core"
	"github.com/neptune-academy/reportcards/core/student"
)

func (cli *commandLine) printStudentUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  student add -adm ADM -name NAME -gender M|F -yob YEAR -dorm DORM")
	fmt.Fprintln(cli.out, "  student find -adm ADM")
	fmt.Fprintln(cli.out, "  student update -adm ADM [-name NAME] [-gender M|F] [-yob YEAR] [-dorm DORM]")
	fmt.Fprintln(cli.out, "  student delete -adm ADM")
	fmt.Fprintln(cli.out, "  student list [-order FIELD] [-desc]")
}

func (cli *commandLine) student(args []string) error {
	if len(args) < 1 {
		cli.printStudentUsage()
		return errHelp
	}

	cmd := cli.newFlagSet("student " + args[0])
	adm := cmd.String("adm", "", "The student's admission number.")
	ctx := context.Background()

	switch args[0] {
	case "add":
		name := cmd.String("name", "", "The student's full name.")
		gender := cmd.String("gender", "", "M or F.")
		yob := cmd.Int("yob", 0, "The student's year of birth.")
		dorm := cmd.String("dorm", "", "The student's dormitory.")
		if err := parseFlags(cmd, args[1:]); err != nil {
			return err
		}
		std, err := cli.stdSvc.Add(ctx, student.NewStudent{Adm: *adm, Name: *name, Gender: *gender, YOB: *yob, Dorm: *dorm})
		if err != nil {
			return err
		}
		cli.printStudents(std)
		return nil
	case "find":
		if err := parseFlags(cmd, args[1:]); err != nil {
			return err
		}
		std, err := cli.stdSvc.Find(ctx, *adm)
		if err != nil {
			return err
		}
		cli.printStudents(std)
		return nil
	case "update":
		name := cmd.String("name", "", "The student's full name.")
		gender := cmd.String("gender", "", "M or F.")
		yob := cmd.Int("yob", 0, "The student's year of birth.")
		dorm := cmd.String("dorm", "", "The student's dormitory.")
		if err := parseFlags(cmd, args[1:]); err != nil {
			return err
		}
		std, err := cli.stdSvc.Update(ctx, *adm, student.UpdateStudent{Name: *name, Gender: *gender, YOB: *yob, Dorm: *dorm})
		if err != nil {
			return err
		}
		cli.printStudents(std)
		return nil
	case "delete":
		if err := parseFlags(cmd, args[1:]); err != nil {
			return err
		}
		return cli.stdSvc.Delete(ctx, *adm)
	case "list":
		order := cmd.String("order", "adm", "The field to order students by.")
		desc := cmd.Bool("desc", false, "Order descending.")
		if err := parseFlags(cmd, args[1:]); err != nil {
			return err
		}
		students, err := cli.stdSvc.All(ctx, core.DBOrdering{Field: *order, Ascending: !*desc})
		if err != nil {
			return err
		}
		cli.printStudents(students...)
		return nil
	default:
		cli.printStudentUsage()
		return errHelp
	}
}

func (cli *commandLine) printStudents(students ...student.Student) {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join([]string{"ADM", "NAME", "GENDER", "YOB", "DORM"}, "\t"))
	for _, std := range students {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", std.Adm, std.Name, std.Gender, std.YOB, std.Dorm)
	}
	_ = w.Flush()
}
