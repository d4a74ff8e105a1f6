package form

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError is a local, pre-network rejection. It never reaches the
// remote store; the field map renders as inline messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid fields: %s", strings.Join(keys, ", "))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateDateRange, Draft{})
	return v
}

// validateDateRange enforces that the end date falls strictly after the
// start. Format errors are reported by the field tags, not here.
func validateDateRange(sl validator.StructLevel) {
	d := sl.Current().Interface().(Draft)
	start, okStart := d.parsedStart()
	end, okEnd := d.parsedEnd()
	if !okStart || !okEnd {
		return
	}
	if !end.After(start) {
		sl.ReportError(d.EndDate, "EndDate", "EndDate", "afterstart", "")
	}
}

// Validate checks the draft and returns a message per invalid field, keyed
// by field name. An empty map means the draft is submittable.
func Validate(d *Draft) map[string]string {
	err := validate.Struct(*d)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"form": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(fe.Field())
		if _, seen := fields[key]; seen {
			continue
		}
		fields[key] = messageFor(fe)
	}
	return fields
}

func fieldKey(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD form"
	case "afterstart":
		return "must be after the start date"
	default:
		return "invalid value"
	}
}
