package main

import (
	"time"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(uname)
	if err != nil {
		return err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err = cli.usrRepo.UpdateUser(usr); err != nil {
		return err
	}
	return nil
}
