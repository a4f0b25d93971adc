package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/uniquest/uniquest/core"
)

type User struct {
	ID           int         `json:"id"`
	Username     string      `json:"username"`
	Email        null.String `json:"email"`
	StudentID    null.String `json:"student_id"`
	IsActive     bool        `json:"is_active"`
	PasswordHash []byte      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"` // UTC
	UpdatedAt    time.Time   `json:"updated_at"` // UTC
	LastLogin    time.Time   `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Username        string `json:"username" validate:"required,min=3,alphanum_"`
	Email           string `json:"email" validate:"omitempty,email"`
	StudentID       string `json:"student_id" validate:"omitempty,alphanum_"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc *Service) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.StudentID = core.CleanString(nu.StudentID)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Username, nu.Email)
}

// ResetUserPassword confirms a password reset with the emailed token.
type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}
