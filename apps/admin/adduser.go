package main

import (
	"fmt"

	"github.com/mkele/darasa/core"
	"github.com/mkele/darasa/core/user"
)

// addUser creates a new user.User with the given role
func (cli *commandLine) addUser(name, email, role, pwd string) error {
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	switch role {
	case user.RoleStudent, user.RoleTeacher: // pass
	default:
		return fmt.Errorf("unknown role %q", role)
	}

	if err := cli.usrSvc.CheckEmailUniqueness(email); err != nil {
		return err
	}
	_, err := cli.usrSvc.Create(user.NewUser{
		Name:            name,
		Email:           email,
		Role:            role,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	return err
}
