package cleaner

import (
	"fmt"
	"strings"
)

// Fields that can fail to derive.
const (
	FieldSalaryEstimate = "salary_estimate"
	FieldFounded        = "founded"
)

// MalformedSalaryError is returned when a salary estimate lacks the $…K delimiters
// or carries figures that are not whole thousands.
type MalformedSalaryError struct {
	Raw    string
	Reason string
}

func (e *MalformedSalaryError) Error() string {
	return fmt.Sprintf("malformed salary estimate %q: %s", e.Raw, e.Reason)
}

// UnparseableYearError is returned when a founded value is neither the -1 sentinel
// nor a plausible year.
type UnparseableYearError struct {
	Raw    string
	Reason string
}

func (e *UnparseableYearError) Error() string {
	return fmt.Sprintf("unparseable founded year %q: %s", e.Raw, e.Reason)
}

// FieldError ties a derivation failure to the field and raw value that caused it.
type FieldError struct {
	Field string
	Raw   string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// RecordError collects every field failure of a single record.
type RecordError struct {
	RecordID string
	Failures []*FieldError
}

func (e *RecordError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("record %s: %s", e.RecordID, strings.Join(parts, "; "))
}

func (e *RecordError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// Failed reports whether the given field is among the record's failures.
func (e *RecordError) Failed(field string) bool {
	for _, f := range e.Failures {
		if f.Field == field {
			return true
		}
	}
	return false
}
