package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/afreitas/revisio/internal/domain"
)

var ruleValidate = validator.New()

// DefaultRules returns the bands used when an owner has never saved a rule
// set of their own.
func DefaultRules() []domain.Rule {
	return []domain.Rule{
		{Min: 0, Max: 49, Days: 1},
		{Min: 50, Max: 69, Days: 3},
		{Min: 70, Max: 79, Days: 7},
		{Min: 80, Max: 90, Days: 14},
		{Min: 91, Max: 100, Days: 30},
	}
}

// Normalize coerces raw rule values into range for ephemeral preview
// computation: Min and Max are clamped into [0,100], Days floored at zero,
// and bands sorted ascending by Min. Persisted saves go through
// ValidateForSave instead, which rejects out-of-range values rather than
// silently correcting them.
func Normalize(raw []domain.Rule) []domain.Rule {
	out := make([]domain.Rule, len(raw))
	for i, r := range raw {
		r.Min = clamp(r.Min, 0, 100)
		r.Max = clamp(r.Max, 0, 100)
		if r.Days < 0 {
			r.Days = 0
		}
		out[i] = r
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Min < out[j].Min })
	return out
}

// ValidateForSave checks user-edited rules before they are persisted.
// It rejects Min or Max outside [0,100], Min greater than Max, and negative
// Days. On success it returns a copy of the rules in their submitted order;
// stored order is the band-matching priority.
func ValidateForSave(raw []domain.Rule) ([]domain.Rule, error) {
	var errs RuleErrors
	for i, r := range raw {
		err := ruleValidate.Struct(r)
		if err == nil {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("schedule: validate rule %d: %w", i, err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, &ValidationError{
				Field: fmt.Sprintf("rules[%d].%s", i, strings.ToLower(fe.Field())),
				Err:   ErrRuleOutOfRange,
			})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	out := make([]domain.Rule, len(raw))
	copy(out, raw)
	return out, nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
