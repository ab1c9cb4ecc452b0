package main

import "fmt"

func (cli *commandLine) genPassword(args []string) error {
	cmd := cli.newFlagSet("genpassword")
	name := cmd.String("name", "", "The name the passwords are built around.")
	n := cmd.Int("n", 10, "The number of passwords to suggest.")
	if err := parseFlags(cmd, args); err != nil {
		return err
	}
	if *n < 1 {
		cmd.Usage()
		return errHelp
	}

	for _, pwd := range cli.pwdGen.Suggest(*name, *n) {
		fmt.Fprintln(cli.out, pwd)
	}
	return nil
}
