package booking

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidatedBooking is a Ready whose fields passed presence and strict format
// checks. Time is always HH:MM:SS.
type ValidatedBooking struct {
	Name  string `json:"name" validate:"min=2"`
	Email string `json:"email" validate:"email"`
	Date  string `json:"date" validate:"datetime=2006-01-02"`
	Time  string `json:"time" validate:"len=8,datetime=15:04:05"`
}

var hourMinute = regexp.MustCompile(`^\d{2}:\d{2}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ExtractAndValidate trims and checks the four fields. Only the time field
// gets a second chance: an HH:MM value is extended with ":00" and re-checked.
func ExtractAndValidate(ready Ready) (ValidatedBooking, error) {
	candidate := ValidatedBooking{
		Name:  strings.TrimSpace(ready.Name),
		Email: strings.TrimSpace(ready.Email),
		Date:  strings.TrimSpace(ready.Date),
		Time:  strings.TrimSpace(ready.Time),
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", candidate.Name},
		{"email", candidate.Email},
		{"date", candidate.Date},
		{"time", candidate.Time},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return ValidatedBooking{}, &MissingFieldsError{Fields: missing}
	}

	failed := strictFailures(candidate)
	if len(failed) == 0 {
		return candidate, nil
	}

	if hourMinute.MatchString(candidate.Time) {
		candidate.Time += ":00"
		failed = strictFailures(candidate)
		if len(failed) == 0 {
			return candidate, nil
		}
	}

	if len(failed) == 1 && failed[0] == "time" {
		return ValidatedBooking{}, &UnparseableTimeError{Value: strings.TrimSpace(ready.Time)}
	}
	return ValidatedBooking{}, &InvalidFieldsError{Fields: failed}
}

// strictFailures returns the names of fields that fail validation, in
// declaration order.
func strictFailures(candidate ValidatedBooking) []string {
	err := validate.Struct(candidate)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"name", "email", "date", "time"}
	}
	seen := make(map[string]bool, len(verrs))
	var fields []string
	for _, fe := range verrs {
		if !seen[fe.Field()] {
			seen[fe.Field()] = true
			fields = append(fields, fe.Field())
		}
	}
	return fields
}
