// internal/app/system/inputval/inputval.go

// Package inputval validates request payloads using struct tags:
//
//	type createMeetingInput struct {
//	    Title string `validate:"required,max=200" label:"Title"`
//	}
//
// Validate returns human-readable messages built from the label tag, suitable
// for the JSON error envelope.
package inputval

import (
	"fmt"
	"net/mail"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Result carries the validation errors for one input struct.
type Result struct {
	errs []string
}

// HasErrors reports whether any field failed validation.
func (r Result) HasErrors() bool { return len(r.errs) > 0 }

// First returns the first error message, or "" when validation passed.
func (r Result) First() string {
	if len(r.errs) == 0 {
		return ""
	}
	return r.errs[0]
}

// All returns every error message.
func (r Result) All() []string { return r.errs }

// Validate checks the struct's `validate` tags and renders messages using the
// `label` tag (falling back to the field name).
func Validate(input any) Result {
	err := validate.Struct(input)
	if err == nil {
		return Result{}
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{errs: []string{"Invalid input."}}
	}

	t := reflect.TypeOf(input)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var msgs []string
	for _, fe := range verrs {
		label := fe.StructField()
		if f, found := t.FieldByName(fe.StructField()); found {
			if l := f.Tag.Get("label"); l != "" {
				label = l
			}
		}
		msgs = append(msgs, message(label, fe))
	}
	return Result{errs: msgs}
}

func message(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", label)
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s items.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be %s or greater.", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less.", label, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}

// IsValidEmail reports whether the address parses as a bare RFC 5322 address
// (no display name) without the lax corner cases net/mail tolerates.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return false
	}
	// net/mail accepts some local parts Mongo-stored addresses should not.
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(email, "..") {
		return false
	}
	return true
}
