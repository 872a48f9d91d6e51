package vectordb

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ── FilterSet Constructors ───────────────────────────────────────────────────

// NewFilterSet creates a FilterSet with the given clauses.
//
// Example:
//
//	vectordb.NewFilterSet(
//	    vectordb.Must(vectordb.NewMatch("status", "published")),
//	    vectordb.Should(vectordb.NewMatch("tag", "ml"), vectordb.NewMatch("tag", "ai")),
//	)
func NewFilterSet(clauses ...func(*FilterSet)) *FilterSet {
	fs := &FilterSet{}
	for _, clause := range clauses {
		clause(fs)
	}
	return fs
}

// Must creates a Must clause (AND logic) with the given conditions.
func Must(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Must = &ConditionSet{Conditions: conditions}
	}
}

// Should creates a Should clause (OR logic) with the given conditions.
func Should(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Should = &ConditionSet{Conditions: conditions}
	}
}

// MustNot creates a MustNot clause. Entries matching any condition are excluded.
func MustNot(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.MustNot = &ConditionSet{Conditions: conditions}
	}
}

// ── Condition Constructors ───────────────────────────────────────────────────

// NewMatch creates an exact-match condition.
func NewMatch(field string, value any) *MatchCondition {
	return &MatchCondition{Field: field, Value: value}
}

// NewMatchAny creates an IN condition.
func NewMatchAny(field string, values ...any) *MatchAnyCondition {
	return &MatchAnyCondition{Field: field, Values: values}
}

// NewMatchExcept creates a NOT IN condition.
func NewMatchExcept(field string, values ...any) *MatchExceptCondition {
	return &MatchExceptCondition{Field: field, Values: values}
}

// NewNumericRange creates a numeric range condition.
func NewNumericRange(field string, r NumericRange) *NumericRangeCondition {
	return &NumericRangeCondition{Field: field, Range: r}
}

// NewTimeRange creates a time range condition.
func NewTimeRange(field string, t TimeRange) *TimeRangeCondition {
	return &TimeRangeCondition{Field: field, Range: t}
}

// ── Validation ───────────────────────────────────────────────────────────────

// Validate checks every condition for a field name, a bound or value of a
// supported type, and homogeneous value lists. A nil FilterSet is valid.
func (fs *FilterSet) Validate() error {
	if fs == nil {
		return nil
	}
	var errs []error
	for _, clause := range []struct {
		name string
		set  *ConditionSet
	}{{"must", fs.Must}, {"should", fs.Should}, {"mustNot", fs.MustNot}} {
		if clause.set == nil {
			continue
		}
		for i, c := range clause.set.Conditions {
			if err := validateCondition(c); err != nil {
				errs = append(errs, fmt.Errorf("vectordb: %s[%d]: %w", clause.name, i, err))
			}
		}
	}
	return errors.Join(errs...)
}

func validateCondition(c FilterCondition) error {
	switch cond := c.(type) {
	case *MatchCondition:
		if cond.Field == "" {
			return errors.New("field is required")
		}
		if getType(cond.Value) == "" {
			return fmt.Errorf("unsupported value type %T", cond.Value)
		}
	case *MatchAnyCondition:
		return validateValues(cond.Field, cond.Values)
	case *MatchExceptCondition:
		return validateValues(cond.Field, cond.Values)
	case *NumericRangeCondition:
		if cond.Field == "" {
			return errors.New("field is required")
		}
		r := cond.Range
		if r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil {
			return fmt.Errorf("range on %q has no bounds", cond.Field)
		}
	case *TimeRangeCondition:
		if cond.Field == "" {
			return errors.New("field is required")
		}
		r := cond.Range
		if r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil {
			return fmt.Errorf("time range on %q has no bounds", cond.Field)
		}
	case nil:
		return errors.New("condition is nil")
	default:
		return fmt.Errorf("unsupported condition %T", c)
	}
	return nil
}

// validateValues ensures a value list is non-empty and all values are of
// the same type category.
func validateValues(field string, values []any) error {
	if field == "" {
		return errors.New("field is required")
	}
	if len(values) == 0 {
		return fmt.Errorf("%q needs at least one value", field)
	}

	expectedType := getType(values[0])
	if expectedType == "" {
		return fmt.Errorf("unsupported value type: %T", values[0])
	}
	for i, v := range values[1:] {
		actualType := getType(v)
		if actualType == "" {
			return fmt.Errorf("unsupported value type at index %d: %T", i+1, v)
		}
		if actualType != expectedType {
			return fmt.Errorf("mixed types not allowed: expected %s but got %s at index %d", expectedType, actualType, i+1)
		}
	}
	return nil
}

func getType(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case int, int32, int64, float32, float64:
		return "numeric"
	case bool:
		return "boolean"
	}
	return ""
}

// ── JSON Serialization ───────────────────────────────────────────────────────

// MarshalJSON encodes the conditions as a plain array.
func (cs *ConditionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(cs.Conditions)
}

// UnmarshalJSON detects each condition's type from its keys.
func (cs *ConditionSet) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	cs.Conditions = make([]FilterCondition, 0, len(raw))
	for _, r := range raw {
		cond, err := parseCondition(r)
		if err != nil {
			return err
		}
		cs.Conditions = append(cs.Conditions, cond)
	}
	return nil
}

// parseCondition picks the concrete type by key:
//   - "equalTo" → MatchCondition
//   - "anyOf" → MatchAnyCondition
//   - "noneOf" → MatchExceptCondition
//   - "greaterThan", "lessThan", ... → NumericRangeCondition
//   - "after", "before", ... → TimeRangeCondition
func parseCondition(data []byte) (FilterCondition, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	var c FilterCondition
	switch {
	case hasKey(fields, "equalTo"):
		c = &MatchCondition{}
	case hasKey(fields, "anyOf"):
		c = &MatchAnyCondition{}
	case hasKey(fields, "noneOf"):
		c = &MatchExceptCondition{}
	case hasKey(fields, "greaterThan"), hasKey(fields, "greaterThanOrEqualTo"),
		hasKey(fields, "lessThan"), hasKey(fields, "lessThanOrEqualTo"):
		c = &NumericRangeCondition{}
	case hasKey(fields, "after"), hasKey(fields, "atOrAfter"),
		hasKey(fields, "before"), hasKey(fields, "atOrBefore"):
		c = &TimeRangeCondition{}
	default:
		return nil, fmt.Errorf("unknown filter condition type: %s", string(data))
	}

	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

func hasKey(m map[string]json.RawMessage, key string) bool {
	_, ok := m[key]
	return ok
}
