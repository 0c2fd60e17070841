package main

import (
	"github.com/TNSHR/teacher-rating-backend/storage/database"
)

var migrateFunc = database.MigrateCommand // mockable

func (cli *commandLine) migrate(args []string) error {
	command := args[0]
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	return migrateFunc(cli.db, command, rest...)
}
