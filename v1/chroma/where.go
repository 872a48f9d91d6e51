package chroma

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Where is a filter predicate over metadata or document content.
//
// A Where is either a leaf comparison, a logical combinator of other
// predicates, or a raw value for server grammar this package has no
// constructor for. It is forwarded to the server verbatim; the client only
// checks that it is structurally well formed.
//
// Metadata filter:
//
//	w := chroma.And(
//	    chroma.Eq("lang", "en"),
//	    chroma.Gte("year", 2020),
//	)
//
// Document filter:
//
//	wd := chroma.Or(chroma.Contains("cat"), chroma.Contains("dog"))
type Where struct {
	op       string
	field    string
	value    any
	document bool
	children []*Where
	raw      map[string]any
}

const (
	opAnd         = "$and"
	opOr          = "$or"
	opEq          = "$eq"
	opNe          = "$ne"
	opGt          = "$gt"
	opGte         = "$gte"
	opLt          = "$lt"
	opLte         = "$lte"
	opIn          = "$in"
	opNin         = "$nin"
	opContains    = "$contains"
	opNotContains = "$not_contains"
	opRegex       = "$regex"
	opNotRegex    = "$not_regex"
)

func leaf(op, field string, value any) *Where {
	return &Where{op: op, field: field, value: value}
}

func docLeaf(op, text string) *Where {
	return &Where{op: op, value: text, document: true}
}

// Eq matches entries whose metadata field equals value.
func Eq(field string, value any) *Where { return leaf(opEq, field, value) }

// Ne matches entries whose metadata field differs from value.
func Ne(field string, value any) *Where { return leaf(opNe, field, value) }

// Gt matches entries whose numeric metadata field is greater than value.
func Gt(field string, value any) *Where { return leaf(opGt, field, value) }

// Gte matches entries whose numeric metadata field is at least value.
func Gte(field string, value any) *Where { return leaf(opGte, field, value) }

// Lt matches entries whose numeric metadata field is less than value.
func Lt(field string, value any) *Where { return leaf(opLt, field, value) }

// Lte matches entries whose numeric metadata field is at most value.
func Lte(field string, value any) *Where { return leaf(opLte, field, value) }

// In matches entries whose metadata field is one of values.
func In(field string, values ...any) *Where { return leaf(opIn, field, values) }

// Nin matches entries whose metadata field is none of values.
func Nin(field string, values ...any) *Where { return leaf(opNin, field, values) }

// Contains matches documents containing text. Use with WhereDocument.
func Contains(text string) *Where { return docLeaf(opContains, text) }

// NotContains matches documents not containing text. Use with WhereDocument.
func NotContains(text string) *Where { return docLeaf(opNotContains, text) }

// Regex matches documents against a server-side regular expression.
func Regex(pattern string) *Where { return docLeaf(opRegex, pattern) }

// NotRegex excludes documents matching a server-side regular expression.
func NotRegex(pattern string) *Where { return docLeaf(opNotRegex, pattern) }

// And matches when every child matches.
func And(children ...*Where) *Where { return &Where{op: opAnd, children: children} }

// Or matches when at least one child matches.
func Or(children ...*Where) *Where { return &Where{op: opOr, children: children} }

// RawWhere wraps an already-shaped filter object, for operators the server
// supports but this package does not model.
func RawWhere(m map[string]any) *Where { return &Where{raw: m} }

// Validate checks structural well-formedness. Operator semantics are left
// to the server.
func (w *Where) Validate() error {
	if w == nil {
		return nil
	}
	if w.raw != nil {
		if len(w.raw) == 0 {
			return errors.New("raw filter is empty")
		}
		return nil
	}

	switch w.op {
	case opAnd, opOr:
		if len(w.children) == 0 {
			return fmt.Errorf("%s requires at least one condition", w.op)
		}
		for i, c := range w.children {
			if c == nil {
				return fmt.Errorf("%s condition %d is nil", w.op, i)
			}
			if err := c.Validate(); err != nil {
				return fmt.Errorf("%s condition %d: %w", w.op, i, err)
			}
		}
		return nil
	case opIn, opNin:
		if w.field == "" {
			return fmt.Errorf("%s requires a field", w.op)
		}
		if values, _ := w.value.([]any); len(values) == 0 {
			return fmt.Errorf("%s on %q requires at least one value", w.op, w.field)
		}
		return nil
	case opContains, opNotContains, opRegex, opNotRegex:
		if s, _ := w.value.(string); s == "" {
			return fmt.Errorf("%s requires a non-empty operand", w.op)
		}
		return nil
	case opEq, opNe, opGt, opGte, opLt, opLte:
		if w.field == "" {
			return fmt.Errorf("%s requires a field", w.op)
		}
		if w.value == nil {
			return fmt.Errorf("%s on %q requires a value", w.op, w.field)
		}
		return nil
	default:
		return fmt.Errorf("empty filter")
	}
}

// MarshalJSON renders the predicate in the server's filter grammar.
// A combinator with a single child collapses to that child.
func (w *Where) MarshalJSON() ([]byte, error) {
	if w.raw != nil {
		return json.Marshal(w.raw)
	}

	switch {
	case w.op == opAnd || w.op == opOr:
		if len(w.children) == 1 {
			return json.Marshal(w.children[0])
		}
		return json.Marshal(map[string][]*Where{w.op: w.children})
	case w.document:
		return json.Marshal(map[string]any{w.op: w.value})
	default:
		return json.Marshal(map[string]map[string]any{w.field: {w.op: w.value}})
	}
}

// UnmarshalJSON keeps the decoded object as a raw predicate.
func (w *Where) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*w = Where{raw: m}
	return nil
}
