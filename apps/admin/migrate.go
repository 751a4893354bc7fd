package main

import (
	"github.com/ntic/scicon/storage/database"
)

var (
	runMigrationsFunc = database.RunMigrations // mockable
	migrateUpFunc     = database.Migrate       // mockable
)

func (cli *commandLine) migrate(args []string) error {
	if len(args) == 0 {
		return errHelp
	}
	return runMigrationsFunc(cli.db, cli.engine, args[0], args[1:]...)
}

// ensureSchema applies pending migrations so commands work against a fresh database.
func (cli *commandLine) ensureSchema() error {
	return migrateUpFunc(cli.db, cli.engine)
}
