package services

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpupo63/portfolio-cms-backend/errs"
)

// validationErr converts ozzo errors into a 400 naming the first failing field
// in alphabetical order. Nested field names are joined with dots.
func validationErr(err error) error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}

	field, message := firstFieldError("", err)
	return errs.NewValidationError(field, message)
}

func firstFieldError(prefix string, err error) (string, string) {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return prefix, err.Error()
	}

	keys := make([]string, 0, len(fieldErrs))
	for k := range fieldErrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	name := keys[0]
	if prefix != "" {
		name = prefix + "." + name
	}
	return firstFieldError(name, fieldErrs[keys[0]])
}

func anyOf[T any](values []T) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
