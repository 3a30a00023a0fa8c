package main

import (
	"context"

	"github.com/Evgeniy2001Poluhin/learning-platform/core"
	"github.com/Evgeniy2001Poluhin/learning-platform/core/user"
)

// addUser creates an active user.User, optionally with all roles.
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	nu := user.NewUser{
		Name:     core.CleanString(uname),
		Username: core.CleanString(uname, true /* lower */),
		Email:    core.CleanString(email, true /* lower */),
		Password: pwd,
	}
	if isAdmin {
		nu.Roles = user.AllRoles
	}
	if _, err := cli.usrSvc.Create(ctx, nu); err != nil {
		return err
	}
	return nil
}
