package main

import (
	"github.com/pkg/errors"

	"github.com/neptune-academy/reportcards/storage/database"
)

const inmemEngine = "inmem"

var errNoDatabase = errors.New("migrate needs a database: database.engine is inmem")

var migrateFunc = database.Migrate // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.conf.Database.Engine == inmemEngine {
		return errNoDatabase
	}
	return migrateFunc(cli.db, args[0], args[1:]...)
}
