package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"restaurant-admin-api/models"
	"restaurant-admin-api/repository"

	"github.com/shopspring/decimal"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = repository.ErrNotFound
	ErrConflict        = repository.ErrConflict
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("authentication required")
)

// FieldErrors maps request fields to what is wrong with them.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + f[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (f FieldErrors) Unwrap() error { return ErrValidation }

func (f FieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f FieldErrors) require(field string, present bool) {
	if !present {
		f.add(field, "this field is required")
	}
}

func (f FieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

// money checks that d fits a decimal(10,2) column and is not negative.
func (f FieldErrors) money(field string, d *decimal.Decimal) {
	if d == nil {
		return
	}
	switch {
	case d.IsNegative():
		f.add(field, "must not be negative")
	case !d.Equal(d.Truncate(2)):
		f.add(field, "must have at most 2 decimal places")
	case d.GreaterThan(models.MaxAmount):
		f.add(field, "exceeds the maximum amount")
	}
}

// item records a line item validation failure under prefix.
func (f FieldErrors) item(prefix string, err error) {
	var ie *models.ItemError
	if errors.As(err, &ie) {
		f.add(prefix+ie.Field, ie.Message)
		return
	}
	f.add(prefix+"item", err.Error())
}

// saveError turns a line or total rejected while saving into a field error.
func saveError(err error) error {
	var ie *models.ItemError
	if errors.As(err, &ie) {
		return FieldErrors{ie.Field: ie.Message}
	}
	return err
}

func invalid(field, msg string) error {
	return FieldErrors{field: msg}
}

func forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}
