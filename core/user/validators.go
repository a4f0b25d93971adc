package user

import (
	"fmt"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/uniquest/uniquest/core"
)

var (
	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"
)

// RegisterValidators installs the user-specific validations on the app validator.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(newUserStructValidation, NewUser{})
	validate.RegisterStructValidation(resetPasswordStructValidation, ResetUserPassword{})

	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
}

func newUserStructValidation(sl validator.StructLevel) {
	nu := sl.Current().Interface().(NewUser)
	validatePassword(sl, nu.Password, "Password", nu.Username, nu.Email, nu.StudentID)
}

func resetPasswordStructValidation(sl validator.StructLevel) {
	rp := sl.Current().Interface().(ResetUserPassword)
	validatePassword(sl, rp.Password, "Password")
}

func validatePassword(sl validator.StructLevel, pwd, fieldName string, userAttrs ...string) {
	if pwd == "" {
		return // `required` covers this
	}
	if len(pwd) < pwdMinLen {
		sl.ReportError(pwd, fieldName, fieldName, pwdMinLenTag, "")
	}
	if strings.ContainsFunc(pwd, unicode.IsSpace) {
		sl.ReportError(pwd, fieldName, fieldName, pwdNoSpaceTag, "")
	}
	if isAllNumeric(pwd) {
		sl.ReportError(pwd, fieldName, fieldName, pwdNotAllNumTag, "")
	}
	for _, attr := range userAttrs {
		if attr == "" {
			continue
		}
		m := difflib.NewMatcher(strings.Split(strings.ToLower(pwd), ""), strings.Split(strings.ToLower(attr), ""))
		if m.Ratio() > pwdMaxSim {
			sl.ReportError(pwd, fieldName, fieldName, pwdAttrSimTag, "")
			break
		}
	}
}

func isAllNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
