package user

import (
	"fmt"
	"net/mail"
	texttmpl "text/template"
	"time"

	"github.com/pkg/errors"

	"github.com/uniquest/uniquest/core"
)

var (
	// errors
	ErrNotFound       = errors.New("user not found")
	ErrEmailExists    = errors.New("a user with this email already exists")
	ErrUsernameExists = errors.New("a user with this username already exists")

	resetPasswordTmpl = texttmpl.Must(texttmpl.New("resetPassword").Parse(
		"Hi {{.Data.Username}},\n\n" +
			"You requested a password reset for your account.\n" +
			"Follow this link to choose a new password:\n\n" +
			"{{.FrontendBaseURL}}/password-reset/{{.Data.UID}}/{{.Data.Token}}\n\n" +
			"If you did not request this, you can safely ignore this email.\n",
	))
)

type (
	Repository interface {
		CheckUsernameUniqueness(username, email string, excludedUsers ...User) error
		CreateUser(usr User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id int) (User, error)
		GetUserByUsernameOrEmail(username string) (User, error)
		GetUserByEmail(email string) (User, error)
		UpdateUser(usr User) (User, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService) *Service {
	secretKey = []byte(conf.SecretKey)
	passwordResetTimeoutDelta = conf.PasswordResetTimeoutDelta
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *Service) CheckUniqueness(uname, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(uname, email, exclUsers...); err != nil {
		var field string
		switch err {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Register(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Username:  nu.Username,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if nu.Email != "" {
		usr.Email.SetValid(nu.Email)
	}
	if nu.StudentID != "" {
		usr.StudentID.SetValid(nu.StudentID)
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(usr)
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) GetByID(id int) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByUsernameOrEmail(uname string) (User, error) {
	return svc.repo.GetUserByUsernameOrEmail(core.CleanString(uname, true /* lower */))
}

func (svc *Service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(usr)
}

// RequestPasswordReset emails a one-time reset link to the account owner.
func (svc *Service) RequestPasswordReset(email string) error {
	usr, err := svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	token, err := MakeToken(usr)
	if err != nil {
		return errors.Wrap(err, "making reset token")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:       []mail.Address{{Name: usr.Username, Address: usr.Email.String}},
		Subject:  "Password reset",
		Template: resetPasswordTmpl,
		TemplateData: map[string]string{
			"Username": usr.Username,
			"UID":      EncodeUID(usr),
			"Token":    token,
		},
	})
	return nil
}

// ResetPassword sets a new password after verifying the emailed token.
func (svc *Service) ResetPassword(rp ResetUserPassword) error {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewValidationError(errInvalidToken)
		}
		return err
	}
	if err = verifyToken(usr, rp.Token); err != nil {
		return core.NewValidationError(err)
	}
	if err = usr.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err = svc.repo.UpdateUser(usr); err != nil {
		return errors.Wrap(err, fmt.Sprintf("updating user %d", usr.ID))
	}
	return nil
}
