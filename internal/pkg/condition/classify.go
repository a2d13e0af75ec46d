package condition

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/procat-search/internal/pkg/schema"
)

// Attribute is a column value read from a record.
type Attribute struct {
	Column string
	Value  any
}

// ClassifyOptions controls how attribute values are classified.
type ClassifyOptions struct {
	// Trim treats blank strings as empty.
	Trim bool
	// Unzipped keeps multi-valued columns as independent IN lists instead of
	// zipping them into composite-key tuples.
	Unzipped bool
}

// IsEmpty reports whether v carries no search value: nil, a nil pointer, an
// invalid spanner.Null* wrapper, an empty slice or map, or an empty string.
// With trim, strings that are blank after trimming are empty too.
// Zero numbers and false are never empty.
func IsEmpty(v any, trim bool) bool {
	v = schema.Unwrap(v)
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		if trim {
			s = strings.TrimSpace(s)
		}
		return s == ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return IsEmpty(rv.Elem().Interface(), trim)
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}

// Classify turns record attributes into a value set. Empty attributes are
// skipped, scalars are stringified, and list-valued attributes are zipped
// into composite-key tuples appended after the scalars.
func Classify(attrs []Attribute, opts ClassifyOptions) *ValueSet {
	set := NewValueSet()

	var multiColumns []string
	multi := make(map[string][]any)

	for _, attr := range attrs {
		if IsEmpty(attr.Value, opts.Trim) {
			continue
		}

		switch v := ValueOf(schema.Unwrap(attr.Value)).(type) {
		case List:
			if _, seen := multi[attr.Column]; !seen {
				multiColumns = append(multiColumns, attr.Column)
			}
			multi[attr.Column] = v
		case Scalar:
			set.Set(attr.Column, Scalar{V: stringify(v.V)})
		default:
			set.Set(attr.Column, v)
		}
	}

	// A single list needs no zipping: one-column tuples are plain IN lists.
	if opts.Unzipped || len(multiColumns) == 1 {
		for _, col := range multiColumns {
			set.Set(col, List(multi[col]))
		}
		return set
	}

	return set.AddTuples(Zip(multiColumns, multi)...)
}

// Zip pairs parallel lists positionally: tuple i holds lists[c][i] for every
// column c, in the order of columns. The number of tuples is the length of the
// shortest list; longer lists are truncated.
func Zip(columns []string, lists map[string][]any) []Tuple {
	if len(columns) == 0 {
		return nil
	}

	n := -1
	for _, col := range columns {
		if l := len(lists[col]); n < 0 || l < n {
			n = l
		}
	}
	if n <= 0 {
		return nil
	}

	tuples := make([]Tuple, n)
	for i := 0; i < n; i++ {
		tuple := make(Tuple, 0, len(columns))
		for _, col := range columns {
			tuple = append(tuple, Field{Column: col, Value: lists[col][i]})
		}
		tuples[i] = tuple
	}
	return tuples
}

// stringify renders a scalar the way search forms submit it.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case *big.Rat:
		return spanner.NumericString(val)
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprint(v)
}
