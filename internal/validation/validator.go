// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/hablafeed/internal/adaptive"
)

// ErrorCode is the API error code used for every validation failure.
const ErrorCode = "VALIDATION_ERROR"

var (
	validate     *validator.Validate
	validateOnce sync.Once

	// Learner and content ids: letters, digits and a few separators.
	identifierPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.:-]{0,127}$`)
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string      `json:"field"`
	Tag     string      `json:"tag"`
	Param   string      `json:"param,omitempty"`
	Value   interface{} `json:"value,omitempty"`
	Message string      `json:"message"`
}

// Error is returned by ValidateStruct when at least one rule fails.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Details returns the error in the shape of models.APIError.Details.
func (e *Error) Details() map[string]interface{} {
	if len(e.Fields) == 1 {
		f := e.Fields[0]
		return map[string]interface{}{"field": f.Field, "tag": f.Tag}
	}
	return map[string]interface{}{"fields": e.Fields}
}

// GetValidator returns the process-wide validator with the custom rules
// registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(queryName)
		mustRegister(v, "feedback", func(fl validator.FieldLevel) bool {
			return adaptive.Feedback(fl.Field().String()).Valid()
		})
		mustRegister(v, "identifier", func(fl validator.FieldLevel) bool {
			return identifierPattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// queryName reports fields by their query parameter name so messages match
// what the client sent.
func queryName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("query"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// ValidateStruct runs the struct's validate tags. It returns nil or *Error.
//
//	if err := validation.ValidateStruct(&q); err != nil {
//	    respondValidationError(w, r, err)
//	    return
//	}
func ValidateStruct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Error{Fields: []FieldError{{Field: "request", Tag: "invalid", Message: err.Error()}}}
	}

	out := &Error{Fields: make([]FieldError, len(fieldErrs))}
	for i, fe := range fieldErrs {
		out.Fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: translate(fe),
		}
	}
	return out
}

var plainMessages = map[string]string{
	"required":   "%s is required",
	"feedback":   "%s must be one of: too_easy, too_hard, perfect",
	"identifier": "%s must be 1-128 letters, digits or _.:- characters",
}

var paramMessages = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

func translate(fe validator.FieldError) string {
	field := fe.Field()
	if tmpl, ok := plainMessages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := paramMessages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field, fe.Param())
	}

	unit := ""
	if fe.Kind().String() == "string" {
		unit = " characters"
	} else if fe.Kind().String() == "slice" {
		unit = " items"
	}
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), unit)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
