// Package forms validates user input locally before anything reaches the
// API and turns valid input into request payloads.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/UnknownOlympus/zynor/internal/i18n"
	"github.com/UnknownOlympus/zynor/internal/models"
	gpvalidator "github.com/go-playground/validator/v10"
)

const minPhoneDigits = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	v    *gpvalidator.Validate
	once sync.Once
)

// validator returns the shared validator with the custom tags registered.
func validator() *gpvalidator.Validate {
	once.Do(func() {
		v = gpvalidator.New()
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			if name := field.Tag.Get("form"); name != "" {
				return name
			}
			return field.Name
		})
		mustRegister(v, "simple_email", func(fl gpvalidator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		mustRegister(v, "phone_digits", func(fl gpvalidator.FieldLevel) bool {
			n := countDigits(fl.Field().String())
			return n == 0 || n >= minPhoneDigits
		})
		mustRegister(v, "positive_id", func(fl gpvalidator.FieldLevel) bool {
			id, err := strconv.ParseInt(fl.Field().String(), 10, 64)
			return err == nil && id > 0
		})
		mustRegister(v, "timestamp", func(fl gpvalidator.FieldLevel) bool {
			_, err := models.ParseTimestamp(fl.Field().String())
			return err == nil
		})
	})
	return v
}

func mustRegister(v *gpvalidator.Validate, tag string, fn gpvalidator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("failed to register %s validation: %v", tag, err))
	}
}

// ValidationError lists the fields that failed local validation together
// with a localized message for each of them.
type ValidationError struct {
	Summary string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return e.Summary + " " + strings.Join(parts, "; ")
}

// Field returns the message for name, or an empty string when the field is valid.
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

// messages maps "field.tag" to the message key shown for that failure.
type messages map[string]string

// check validates form and translates failures through msgs. The first
// failing rule of a field wins.
func check(lang i18n.Lang, form any, msgs messages) error {
	err := validator().Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs gpvalidator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	out := &ValidationError{
		Summary: lang.T("form.summary"),
		Fields:  make(map[string]string, len(fieldErrs)),
	}
	for _, fe := range fieldErrs {
		if _, seen := out.Fields[fe.Field()]; seen {
			continue
		}
		key, ok := msgs[fe.Field()+"."+fe.Tag()]
		if !ok {
			key = "form.invalid"
		}
		out.Fields[fe.Field()] = lang.T(key)
	}
	return out
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// optional returns nil for blank input and the trimmed value otherwise.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// trimAll trims every string field of the struct behind ptr.
func trimAll(ptr any) {
	val := reflect.ValueOf(ptr).Elem()
	for i := range val.NumField() {
		field := val.Field(i)
		if field.Kind() == reflect.String && field.CanSet() {
			field.SetString(strings.TrimSpace(field.String()))
		}
	}
}
