package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for session and rule validation.
// Use errors.Is to check which rule failed: errors.Is(err, schedule.ErrMissingTopic)
var (
	ErrInvalidDate    = errors.New("schedule: study date is not a valid calendar date")
	ErrMissingTopic   = errors.New("schedule: topic is required")
	ErrInvalidTotal   = errors.New("schedule: questions done must be greater than zero")
	ErrInvalidCorrect = errors.New("schedule: correct answers must be between zero and questions done")
	ErrRuleOutOfRange = errors.New("schedule: rule values out of range")
)

// ValidationError ties a validation failure to the field it concerns so a
// caller can render a message next to the offending input.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// RuleErrors collects the per-field failures from a rule-set save attempt.
// It unwraps to its members, so errors.Is(err, ErrRuleOutOfRange) works on
// the collection as a whole.
type RuleErrors []*ValidationError

func (e RuleErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e RuleErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, ve := range e {
		errs[i] = ve
	}
	return errs
}
