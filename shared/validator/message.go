package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var templates = map[string]string{
	"required":    "{field} is required",
	"email":       "{field} must be a valid email address",
	"url":         "{field} must be a valid URL",
	"uuid":        "{field} must be a valid UUID",
	"oneof":       "{field} must be one of {param}",
	"min":         "{field} must be greater than or equal to {param}",
	"gte":         "{field} must be greater than or equal to {param}",
	"gt":          "{field} must be greater than {param}",
	"max":         "{field} must be less than or equal to {param}",
	"lte":         "{field} must be less than or equal to {param}",
	"lt":          "{field} must be less than {param}",
	"gtfield":     "{field} must be after {param}",
	"dive":        "{field} contains an invalid entry",
	"datekey":     "{field} must be a date in YYYY-MM-DD format",
	"mimetypes":   "{field} must be one of {param}",
	"maxfilesize": "{field} must not exceed {param} MB",
}

// message renders the first field error that has a template, or the raw validator text.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	for _, fe := range fieldErrors {
		tmpl, ok := templates[fe.Tag()]
		if !ok {
			continue
		}

		return strings.NewReplacer("{field}", fe.Field(), "{param}", fe.Param()).Replace(tmpl)
	}

	return fieldErrors.Error()
}
