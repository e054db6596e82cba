// Package forms validates decoded request payloads and reports failures per
// field, keyed by the JSON name of the field.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field name to a human readable message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e[k]
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

const (
	UsernameRequirements = "Username does not meet requirements."
	PasswordRequirements = "Password does not meet requirements."
)

var (
	usernameRE = regexp.MustCompile(`^[A-Za-z][A-Za-z_\d]{4,25}$`)
	passwordRE = regexp.MustCompile(`^[A-Za-z\d$@!%*?&_.]{8,}$`)
)

func validUsername(fl validator.FieldLevel) bool {
	return usernameRE.MatchString(fl.Field().String())
}

// validPassword needs at least 8 characters drawn from letters, digits and
// $@!%*?&_. with one of each class present.
func validPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !passwordRE.MatchString(s) {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	return lower && upper && digit && special
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", validUsername)
	_ = v.RegisterValidation("password", validPassword)
	return v
}

// Validate checks v's `validate` tags. It returns Errors on failure.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := Errors{}
	for _, fe := range verrs {
		out[fieldPath(fe)] = message(fe)
	}
	return out
}

// fieldPath drops the top-level struct name: "RegisterForm.username" is
// reported as "username", "choices[1]" stays as is.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Longer than maximum length %s", fe.Param())
		}
		return fmt.Sprintf("At most %s", fe.Param())
	case "min":
		return fmt.Sprintf("At least %s", fe.Param())
	case "eqfield":
		return "Fields did not match"
	case "username":
		return UsernameRequirements
	case "password":
		return PasswordRequirements
	case "oneof":
		return "Must be one of: " + fe.Param()
	}
	return fmt.Sprintf("Failed %s check", fe.Tag())
}

// Merge folds other into e, keeping e's message on conflict.
func (e Errors) Merge(other map[string]string) Errors {
	for k, v := range other {
		if _, ok := e[k]; !ok {
			e[k] = v
		}
	}
	return e
}
