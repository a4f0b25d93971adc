package main

import (
	"time"

	"github.com/pkg/errors"

	"github.com/uniquest/uniquest/core"
	"github.com/uniquest/uniquest/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Username:  uname,
			IsActive:  true,
			CreatedAt: now,
		}
		if email != "" {
			usr.Email.SetValid(email)
		}
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		usr.UpdatedAt = now
		_, err = cli.usrRepo.CreateUser(usr)
		return err
	}

	usr.IsActive = true
	if email != "" {
		usr.Email.SetValid(email)
	}
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = now
	_, err = cli.usrRepo.UpdateUser(usr)
	return err
}
