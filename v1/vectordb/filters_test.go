package vectordb

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestFilterSetValidate(t *testing.T) {
	tests := []struct {
		name    string
		filters *FilterSet
		wantErr string
	}{
		{name: "nil set", filters: nil},
		{name: "empty set", filters: NewFilterSet()},
		{
			name: "valid mix",
			filters: NewFilterSet(
				Must(NewMatch("lang", "en"), NewNumericRange("year", NumericRange{Gte: ptr(2020.0)})),
				Should(NewMatchAny("tag", "ml", "ai")),
				MustNot(NewMatchExcept("status", 1, 2.5), NewTimeRange("created", TimeRange{Lt: ptr(time.Unix(0, 0))})),
			),
		},
		{
			name:    "missing field",
			filters: NewFilterSet(Must(NewMatch("", "x"))),
			wantErr: "must[0]: field is required",
		},
		{
			name:    "unsupported value",
			filters: NewFilterSet(Must(NewMatch("tags", []string{"a"}))),
			wantErr: "unsupported value type []string",
		},
		{
			name:    "mixed types",
			filters: NewFilterSet(Should(NewMatchAny("tag", "ml", 3))),
			wantErr: "mixed types not allowed",
		},
		{
			name:    "empty value list",
			filters: NewFilterSet(MustNot(NewMatchExcept("tag"))),
			wantErr: "needs at least one value",
		},
		{
			name:    "range without bounds",
			filters: NewFilterSet(Must(NewNumericRange("year", NumericRange{}))),
			wantErr: "has no bounds",
		},
		{
			name:    "time range without bounds",
			filters: NewFilterSet(Must(NewTimeRange("created", TimeRange{}))),
			wantErr: "has no bounds",
		},
		{
			name:    "nil condition",
			filters: NewFilterSet(Must(nil)),
			wantErr: "condition is nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filters.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFilterSetValidateJoinsErrors(t *testing.T) {
	fs := NewFilterSet(
		Must(NewMatch("", "x")),
		Should(NewNumericRange("year", NumericRange{})),
	)
	err := fs.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must[0]")
	assert.Contains(t, err.Error(), "should[0]")
}

func TestFilterSetJSON(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	fs := NewFilterSet(
		Must(
			NewMatch("lang", "en"),
			NewNumericRange("year", NumericRange{Gte: ptr(2020.0), Lt: ptr(2025.0)}),
		),
		Should(NewMatchAny("tag", "ml", "ai")),
		MustNot(
			NewMatchExcept("status", "draft"),
			NewTimeRange("created", TimeRange{Gt: &created}),
		),
	)

	data, err := json.Marshal(fs)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"must": [
			{"field": "lang", "equalTo": "en"},
			{"field": "year", "greaterThanOrEqualTo": 2020, "lessThan": 2025}
		],
		"should": [{"field": "tag", "anyOf": ["ml", "ai"]}],
		"mustNot": [
			{"field": "status", "noneOf": ["draft"]},
			{"field": "created", "after": "2024-01-02T03:04:05Z"}
		]
	}`, string(data))

	var decoded FilterSet
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Len(t, decoded.Must.Conditions, 2)
	assert.Equal(t, NewMatch("lang", "en"), decoded.Must.Conditions[0])
	rng, ok := decoded.Must.Conditions[1].(*NumericRangeCondition)
	require.True(t, ok)
	assert.Equal(t, "year", rng.Field)
	assert.Equal(t, 2020.0, *rng.Range.Gte)
	assert.Equal(t, 2025.0, *rng.Range.Lt)

	assert.Equal(t, NewMatchAny("tag", "ml", "ai"), decoded.Should.Conditions[0])
	assert.Equal(t, NewMatchExcept("status", "draft"), decoded.MustNot.Conditions[0])

	tr, ok := decoded.MustNot.Conditions[1].(*TimeRangeCondition)
	require.True(t, ok)
	assert.True(t, created.Equal(*tr.Range.Gt))
	assert.NoError(t, decoded.Validate())
}

func TestParseConditionUnknown(t *testing.T) {
	var fs FilterSet
	err := json.Unmarshal([]byte(`{"must":[{"field":"x","between":[1,2]}]}`), &fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown filter condition type")
}
