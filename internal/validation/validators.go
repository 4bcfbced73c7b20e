package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/khrees2412/jobhunter/pkg/models"
)

var placeholderRegex = regexp.MustCompile(`\{\{\s*([^{}\s][^{}]*?)\s*\}\}`)

var knownPlaceholders = map[string]bool{
	"company_name":   true,
	"job_title":      true,
	"hiring_manager": true,
	"my_name":        true,
	"my_skills":      true,
}

// New returns a validator with the custom tags registered
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("placeholders", KnownPlaceholders)
	_ = v.RegisterValidation("jobstatus", ValidJobStatus)
}

// KnownPlaceholders rejects {{...}} variables the backend cannot substitute
func KnownPlaceholders(fl validator.FieldLevel) bool {
	return len(UnknownPlaceholders(fl.Field().String())) == 0
}

// UnknownPlaceholders returns the placeholder names in s that are not supported
func UnknownPlaceholders(s string) []string {
	var unknown []string
	for _, m := range placeholderRegex.FindAllStringSubmatch(s, -1) {
		if !knownPlaceholders[m[1]] {
			unknown = append(unknown, m[1])
		}
	}
	return unknown
}

// ValidJobStatus validates a job pipeline status
func ValidJobStatus(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // use required if needed
	}
	return models.JobStatus(val).Valid()
}
