package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the labels used in CLI messages
var FieldLabels = map[string]string{
	"UserID":          "user id",
	"Name":            "name",
	"Type":            "template type",
	"Subject":         "subject",
	"Body":            "body",
	"Skills":          "skills",
	"Keywords":        "keywords",
	"Summary":         "summary",
	"ExperienceYears": "years of experience",
	"LinkedInURL":     "LinkedIn URL",
	"Status":          "status",
}

// Humanize turns validator errors into one readable sentence per field
func Humanize(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := FieldLabels[fe.StructField()]
	if !ok {
		label = strings.ToLower(fe.Field())
	}

	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", label)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, param(fe))
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "placeholders":
		return fmt.Sprintf("%s uses unknown placeholders: %s", label,
			strings.Join(UnknownPlaceholders(fmt.Sprint(fe.Value())), ", "))
	case "jobstatus":
		return fmt.Sprintf("%s %q is not a job status", label, fe.Value())
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, fe.Tag())
	}
}

var durationType = reflect.TypeOf(time.Duration(0))

// param formats durations the way they are written in config files
func param(fe validator.FieldError) string {
	if fe.Type() == durationType {
		var n int64
		if _, err := fmt.Sscan(fe.Param(), &n); err == nil {
			return time.Duration(n).String()
		}
	}
	return fe.Param()
}
