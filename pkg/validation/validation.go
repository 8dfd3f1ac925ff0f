package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// Register installs the custom rules on gin's binding validator and makes
// field errors report JSON names. Safe to call more than once.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("validation: gin binding engine is not validator/v10")
			return
		}
		err = RegisterValidators(v)
	})
	return err
}

// RegisterValidators adds strongpassword and phone to v.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation(constants.TagStrongPassword, strongPassword); err != nil {
		return err
	}
	return v.RegisterValidation(constants.TagPhone, phone)
}

func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func strongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

func phone(fl validator.FieldLevel) bool {
	return IsPhoneNumber(fl.Field().String())
}

// IsStrongPassword requires the minimum length plus one upper, lower, digit
// and non-alphanumeric character.
func IsStrongPassword(s string) bool {
	if len([]rune(s)) < constants.MinPasswordLength {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// IsPhoneNumber counts digits only, so "+1 (555) 010-0100" is accepted.
// Anything other than digits, spaces, + - ( ) and . is rejected.
func IsPhoneNumber(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == '-' || r == '(' || r == ')' || r == '.' || r == ' ':
		default:
			return false
		}
	}
	return digits >= constants.MinPhoneDigits && digits <= constants.MaxPhoneDigits
}

// FormatErrors turns validator errors into {field: [messages]}. It returns
// nil when err carries no field errors.
func FormatErrors(err error) map[string][]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string][]string, len(verrs))
	for _, e := range verrs {
		field := e.Field()
		out[field] = append(out[field], message(field, e.Tag(), e.Param()))
	}
	return out
}

func message(field, tag, param string) string {
	if fieldMessages := CustomMessage(field); fieldMessages != nil {
		if msg, exists := fieldMessages[tag]; exists {
			return msg
		}
	}
	return DefaultMessage(field, tag, param)
}
