// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This package runs before any call to the book backend. Admin input that
// fails here is reported inline, per field, and never leaves the gateway.
// Struct-level rules for larger payloads are declared with validator tags and
// checked through [Struct].
package validate

import (
	"errors"
	"fmt"
	"net/mail"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/bookdesk/internal/platform/apperr"
)

var (
	// digitsRegex matches a non-empty run of ASCII digits.
	digitsRegex = regexp.MustCompile(`^\d+$`)
	// isbnRegex matches a 10 or 13 digit ISBN once separators are removed.
	// The X check digit is refused: lookups by ISBN accept digits only.
	isbnRegex = regexp.MustCompile(`^(\d{10}|\d{13})$`)
	// uuidRegex matches a UUIDv4 or UUIDv7 string.
	uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

	// structValidator is shared; validator.Validate caches struct metadata and is safe for concurrent use.
	structValidator = newStructValidator()
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// Range fails if the value is outside the [min, max] range (inclusive).
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return v
}

// Email fails if the value is not a valid RFC 5322 email address.
func (v *Validator) Email(field, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// Digits fails if the value contains anything but ASCII digits.
//
// This is the only check applied to ISBN search terms.
func (v *Validator) Digits(field, value string) *Validator {
	if !digitsRegex.MatchString(value) {
		v.add(field, "Must be a number")
	}
	return v
}

// ISBN fails if the value is not a 10 or 13 character ISBN.
// Hyphens and spaces are ignored.
func (v *Validator) ISBN(field, value string) *Validator {
	if !IsISBN(value) {
		v.add(field, "Must be a valid ISBN (10 or 13 digits)")
	}
	return v
}

// UUID fails if the value is not a valid UUID string (case-insensitive).
func (v *Validator) UUID(field, value string) *Validator {
	lower := strings.ToLower(value)
	if !uuidRegex.MatchString(lower) {
		v.add(field, "Must be a valid UUID")
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("confirm_password", a != b, "Passwords do not match")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Merge appends the field errors carried by err, if it is a validation error.
// Any other non-nil error is recorded against field.
func (v *Validator) Merge(field string, err error) *Validator {
	if err == nil {
		return v
	}
	if ae := apperr.As(err); ae != nil && len(ae.Details) > 0 {
		v.errs = append(v.errs, ae.Details...)
		return v
	}
	v.add(field, err.Error())
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method. Call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}

// IsISBN reports whether value is an ISBN-10 or ISBN-13 once hyphens and spaces are removed.
func IsISBN(value string) bool {
	cleaned := strings.NewReplacer("-", "", " ", "").Replace(value)
	return isbnRegex.MatchString(cleaned)
}

// # Struct Validation

// Struct validates a tagged struct and converts the failures into a VALIDATION_ERROR.
//
// Field names are taken from the json tag so they match what the client sent.
func Struct(target any) error {
	err := structValidator.Struct(target)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperr.Internal(err)
	}

	v := &Validator{}
	for _, fe := range fieldErrors {
		v.add(fe.Field(), describe(fe))
	}
	return v.Err()
}

// newStructValidator configures the shared validator with json field names and custom tags.
func newStructValidator() *validator.Validate {
	instance := validator.New(validator.WithRequiredStructEnabled())

	instance.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = instance.RegisterValidation("isbn", func(fl validator.FieldLevel) bool {
		return IsISBN(fl.Field().String())
	})

	return instance
}

// describe turns a tag failure into the message shown next to the field.
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "isbn":
		return "Must be a valid ISBN (10 or 13 digits)"
	case "url", "http_url":
		return "Must be a valid URL"
	case "min", "gte":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "email":
		return "Must be a valid email address"
	case "eqfield":
		return fmt.Sprintf("Must match %s", fe.Param())
	default:
		return "Is invalid"
	}
}
