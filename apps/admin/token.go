package main

import (
	"fmt"
	"strings"

	"github.com/neptune-academy/reportcards/core"
	"github.com/neptune-academy/reportcards/core/auth"
)

// token issues an API token for a teacher, or an admin with -admin.
func (cli *commandLine) token(args []string) error {
	cmd := cli.newFlagSet("token")
	name := cmd.String("name", "", "The name of the token holder.")
	isAdmin := cmd.Bool("admin", false, "Grant admin rights (students management).")
	if err := parseFlags(cmd, args); err != nil {
		return err
	}
	holder := core.CleanString(*name)
	if holder == "" {
		cmd.Usage()
		return errHelp
	}

	roles := []string{auth.RoleTeacher}
	if *isAdmin {
		roles = append(roles, auth.RoleAdmin)
	}
	subject := strings.ToLower(strings.Join(strings.Fields(holder), "."))
	claims := auth.NewClaims(cli.conf.AppName, subject, holder, roles, cli.conf.Server.JWTExpirationDelta)

	token, err := auth.GenerateToken(claims, []byte(cli.conf.SecretKey))
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
