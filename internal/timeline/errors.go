package timeline

import "fmt"

// Kind buckets rule violations by the check that produced them.
type Kind string

const (
	KindFormat      Kind = "FORMAT"
	KindOverlap     Kind = "OVERLAP"
	KindSequencing  Kind = "SEQUENCING"
	KindIncomplete  Kind = "INCOMPLETE"
	KindEligibility Kind = "ELIGIBILITY"
	KindBounds      Kind = "BOUNDS"
)

// FieldError pins one rule violation to the field the UI should annotate.
// Block is the index into the caller's history slice (-1 for errors about
// the operation input rather than an existing block). Field is a path like
// "from_date" or "leaves[1].end_date". Related lists the other block
// indices participating in an overlap.
type FieldError struct {
	Block   int    `json:"block"`
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Related []int  `json:"related,omitempty"`
}

// FieldKey identifies a (block, field) slot for map views.
type FieldKey struct {
	Block int
	Field string
}

// Result collects every violation found by a validation pass. Validators
// return all errors, not just the first, so the form can show each message
// next to its source field.
type Result struct {
	Errors []FieldError `json:"errors"`
}

// OK reports whether the pass found no violations.
func (r *Result) OK() bool {
	return r == nil || len(r.Errors) == 0
}

// Map returns a (block, field) keyed view of the messages. When several
// errors land on the same field the first one wins.
func (r *Result) Map() map[FieldKey]string {
	out := make(map[FieldKey]string, len(r.Errors))
	for _, e := range r.Errors {
		key := FieldKey{Block: e.Block, Field: e.Field}
		if _, ok := out[key]; !ok {
			out[key] = e.Message
		}
	}
	return out
}

// Merge appends all errors from other.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
}

func (r *Result) add(block int, field string, kind Kind, format string, args ...interface{}) {
	r.Errors = append(r.Errors, FieldError{
		Block:   block,
		Field:   field,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

func (r *Result) addRelated(block int, field string, kind Kind, related []int, format string, args ...interface{}) {
	r.Errors = append(r.Errors, FieldError{
		Block:   block,
		Field:   field,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Related: related,
	})
}
