package vectordb

import (
	"encoding/json"
	"time"
)

// FilterCondition is implemented by every filter leaf. Each backend
// adapter converts conditions to its native filter format.
type FilterCondition interface {
	// IsFilterCondition is a marker method to ensure type safety
	IsFilterCondition()
}

// FilterSet supports Must (AND), Should (OR), and MustNot (NOT) clauses.
// The clauses present are combined with AND.
//
// Example:
//
//	filters := &FilterSet{
//	    Must: &ConditionSet{
//	        Conditions: []FilterCondition{
//	            &MatchCondition{Field: "city", Value: "London"},
//	        },
//	    },
//	}
type FilterSet struct {
	// Must: All conditions must match (AND)
	Must *ConditionSet `json:"must,omitempty"`
	// Should: At least one condition must match (OR)
	Should *ConditionSet `json:"should,omitempty"`
	// MustNot: None of the conditions should match (NOT)
	MustNot *ConditionSet `json:"mustNot,omitempty"`
}

// ConditionSet holds a group of conditions for a single clause.
type ConditionSet struct {
	Conditions []FilterCondition `json:"conditions,omitempty"`
}

// ── Match Conditions ─────────────────────────────────────────────────────────

// MatchCondition is an exact match (field = value).
// Supports string, bool and numeric values.
type MatchCondition struct {
	Field string `json:"field"`
	Value any    `json:"equalTo"`
}

func (c *MatchCondition) IsFilterCondition() {}

// MatchAnyCondition matches if the field is one of Values (IN).
type MatchAnyCondition struct {
	Field  string `json:"field"`
	Values []any  `json:"anyOf"`
}

func (c *MatchAnyCondition) IsFilterCondition() {}

// MatchExceptCondition matches if the field is none of Values (NOT IN).
type MatchExceptCondition struct {
	Field  string `json:"field"`
	Values []any  `json:"noneOf"`
}

func (c *MatchExceptCondition) IsFilterCondition() {}

// ── Range Conditions ─────────────────────────────────────────────────────────

// NumericRange defines bounds for numeric filtering.
type NumericRange struct {
	Gt  *float64 `json:"greaterThan,omitempty"`          // exclusive
	Gte *float64 `json:"greaterThanOrEqualTo,omitempty"` // inclusive
	Lt  *float64 `json:"lessThan,omitempty"`             // exclusive
	Lte *float64 `json:"lessThanOrEqualTo,omitempty"`    // inclusive
}

// TimeRange defines bounds for time filtering. Backends without a native
// time type compare Unix seconds.
type TimeRange struct {
	Gt  *time.Time `json:"after,omitempty"`
	Gte *time.Time `json:"atOrAfter,omitempty"`
	Lt  *time.Time `json:"before,omitempty"`
	Lte *time.Time `json:"atOrBefore,omitempty"`
}

// NumericRangeCondition filters by numeric range.
type NumericRangeCondition struct {
	Field string
	Range NumericRange
}

func (c *NumericRangeCondition) IsFilterCondition() {}

type numericRangeJSON struct {
	Field string `json:"field"`
	NumericRange
}

func (c *NumericRangeCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(numericRangeJSON{Field: c.Field, NumericRange: c.Range})
}

func (c *NumericRangeCondition) UnmarshalJSON(data []byte) error {
	var v numericRangeJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	c.Field, c.Range = v.Field, v.NumericRange
	return nil
}

// TimeRangeCondition filters by datetime range.
type TimeRangeCondition struct {
	Field string
	Range TimeRange
}

func (c *TimeRangeCondition) IsFilterCondition() {}

type timeRangeJSON struct {
	Field string `json:"field"`
	TimeRange
}

func (c *TimeRangeCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(timeRangeJSON{Field: c.Field, TimeRange: c.Range})
}

func (c *TimeRangeCondition) UnmarshalJSON(data []byte) error {
	var v timeRangeJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	c.Field, c.Range = v.Field, v.TimeRange
	return nil
}
