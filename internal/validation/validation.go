// Package validation checks decoded JSON objects against declarative,
// field-keyed rule sets.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Kind is the JSON type a field must carry.
type Kind int

const (
	String Kind = iota
	Integer
)

func (k Kind) String() string {
	switch k {
	case String:
		return "a string"
	case Integer:
		return "an integer"
	default:
		return "valid"
	}
}

// Rule describes one field. Tag is a validator/v10 tag applied to the
// typed value once the type check passes.
type Rule struct {
	Required bool
	Type     Kind
	Tag      string
}

// Schema is a named rule set. Keys outside Rules are rejected unless
// AllowAdditional is set.
type Schema struct {
	Name            string
	Rules           map[string]Rule
	AllowAdditional bool
}

// Result is the outcome of Validate. Errors is sorted by field name.
// Values holds every schema field present in the payload converted to its
// Go type: string or int64. Keys outside the schema are not copied.
type Result struct {
	Valid  bool
	Errors []string
	Values map[string]any
}

// Err returns a *ValidationError for an invalid result and nil otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Messages: r.Errors}
}

// ValidationError carries the human-readable messages of a failed
// validation.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Validate checks payload against schema. It never modifies payload.
func Validate(payload map[string]any, schema Schema) Result {
	var msgs []string
	values := make(map[string]any, len(schema.Rules))

	for _, field := range slices.Sorted(maps.Keys(schema.Rules)) {
		rule := schema.Rules[field]
		raw, present := payload[field]
		if !present {
			if rule.Required {
				msgs = append(msgs, fmt.Sprintf("%s is required", field))
			}
			continue
		}

		value, ok := coerce(raw, rule.Type)
		if !ok {
			msgs = append(msgs, fmt.Sprintf("%s must be %s", field, rule.Type))
			continue
		}
		values[field] = value
		if rule.Tag == "" {
			continue
		}
		if err := validate.Var(value, rule.Tag); err != nil {
			msgs = append(msgs, describe(field, err))
		}
	}

	if !schema.AllowAdditional {
		for _, key := range slices.Sorted(maps.Keys(payload)) {
			if _, known := schema.Rules[key]; !known {
				msgs = append(msgs, fmt.Sprintf("%s is not allowed", key))
			}
		}
	}

	return Result{Valid: len(msgs) == 0, Errors: msgs, Values: values}
}

// coerce returns raw as the Go type matching kind. JSON numbers count as
// integers when they have no fractional part, so 100.0 and 1e2 are 100.
func coerce(raw any, kind Kind) (any, bool) {
	switch kind {
	case String:
		s, ok := raw.(string)
		return s, ok
	case Integer:
		switch n := raw.(type) {
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return i, true
			}
			f, err := n.Float64()
			if err != nil {
				return nil, false
			}
			return wholeInt64(f)
		case float64:
			return wholeInt64(n)
		case int:
			return int64(n), true
		case int64:
			return n, true
		}
	}
	return nil, false
}

// wholeInt64 converts f when it is integral and inside the int64 range.
func wholeInt64(f float64) (any, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, false
	}
	return int64(f), true
}

func describe(field string, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Sprintf("%s is invalid", field)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url", "uri", "http_url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
