// Package jsonpath extracts a status value from a decoded JSON document.
//
// The document is the value produced by decoding JSON into an interface{}:
// map[string]any, []any, string, float64, bool or nil.
package jsonpath

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

const (
	// UnknownStatus is the status of a key that does not exist in the document.
	UnknownStatus = "Unknown"

	// NoDataStatus is the status of an index beyond the end of a sequence, or a query without output.
	NoDataStatus = "No Data"
)

// Kind is the kind of evaluation result.
type Kind int8

const (
	// Found means every segment of the path matched.
	Found Kind = iota

	// KeyMissing means a mapping did not have the requested key.
	KeyMissing

	// IndexOutOfRange means a sequence was shorter than the requested index.
	IndexOutOfRange

	// ScalarEncountered means the walk reached a value it can not step into before the path ended.
	ScalarEncountered

	// NoResult means a query produced nothing.
	NoResult
)

func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case KeyMissing:
		return "key-missing"
	case IndexOutOfRange:
		return "index-out-of-range"
	case ScalarEncountered:
		return "scalar-encountered"
	case NoResult:
		return "no-result"
	default:
		return "unknown"
	}
}

// Result is the outcome of walking a document.
type Result struct {
	Kind Kind

	// Value is the value the walk stopped at.
	// It is nil for KeyMissing, IndexOutOfRange and NoResult.
	Value any

	// Depth is the number of segments consumed before the walk stopped.
	Depth int
}

// Status converts Result into a status string.
func (r Result) Status() string {
	switch r.Kind {
	case KeyMissing:
		return UnknownStatus
	case IndexOutOfRange, NoResult:
		return NoDataStatus
	default:
		return Stringify(r.Value)
	}
}

// Extractor takes a status value out of a decoded document.
type Extractor interface {
	Extract(ctx context.Context, doc any) (Result, error)
}

// Evaluate walks doc along p.
// It never fails; every way of stopping is reported as a Kind.
func Evaluate(doc any, p Path) Result {
	cur := doc

	for i, seg := range p {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[seg.Key()]
			if !ok {
				return Result{Kind: KeyMissing, Depth: i}
			}
			cur = next
		case []any:
			if !seg.IsIndex() {
				return Result{Kind: ScalarEncountered, Value: v, Depth: i}
			}
			if seg.Index() < 0 || seg.Index() >= len(v) {
				return Result{Kind: IndexOutOfRange, Depth: i}
			}
			cur = v[seg.Index()]
		default:
			return Result{Kind: ScalarEncountered, Value: v, Depth: i}
		}
	}

	return Result{Kind: Found, Value: cur, Depth: len(p)}
}

// Extract implements Extractor.
func (p Path) Extract(_ context.Context, doc any) (Result, error) {
	return Evaluate(doc, p), nil
}

// Stringify makes a status string from a JSON value.
// Objects and arrays are rendered as compact JSON with sorted keys.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		// same form as JSON, so 1e21 stays 1e+21
		if b, err := json.Marshal(x); err == nil {
			return string(b)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	case fmt.Stringer:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
