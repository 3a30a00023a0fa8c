package main

import (
	"github.com/pressly/goose/v3"

	"github.com/Evgeniy2001Poluhin/learning-platform/fs"
)

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	goose.SetBaseFS(appfs.FS)

	command := "up"
	arguments := make([]string, 0)
	if len(args) > 0 {
		command = args[0]
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(command, cli.db.DB, "migrations", arguments...)
}
