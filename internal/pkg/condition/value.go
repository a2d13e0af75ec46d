package condition

import (
	"fmt"
	"reflect"
)

// Value is the shape of a value-set entry. It is one of Null, Scalar, List
// or Composite.
type Value interface {
	isValue()
}

// Null matches rows where the column IS NULL.
type Null struct{}

// Scalar is a single value, optionally prefixed with a comparison operator
// when it is a string (e.g. ">5").
type Scalar struct {
	V any
}

// List matches any of its elements (IN). A one-element list behaves as a Scalar.
type List []any

// Composite holds composite-key tuples matched as a unit.
type Composite []Tuple

func (Null) isValue()      {}
func (Scalar) isValue()    {}
func (List) isValue()      {}
func (Composite) isValue() {}

// Field is one column of a composite-key tuple.
type Field struct {
	Column string
	Value  any
}

// Tuple is an ordered set of column values forming one composite key.
type Tuple []Field

// Columns returns the column names of the tuple in order.
func (t Tuple) Columns() []string {
	cols := make([]string, len(t))
	for i, f := range t {
		cols[i] = f.Column
	}
	return cols
}

// Get returns the value of a column in the tuple.
func (t Tuple) Get(column string) (any, bool) {
	for _, f := range t {
		if f.Column == column {
			return f.Value, true
		}
	}
	return nil, false
}

// ValueOf resolves a raw Go value into its Value variant.
// nil and nil pointers become Null, slices and arrays (except []byte) become
// List, Tuple and []Tuple become Composite, anything else is a Scalar.
// Stringers are kept as they are so pointer-receiver String methods survive.
func ValueOf(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null{}
	case Value:
		return val
	case Tuple:
		return Composite{val}
	case []Tuple:
		return Composite(val)
	case []byte:
		return Scalar{V: val}
	}

	rv := reflect.ValueOf(v)
	if _, ok := v.(fmt.Stringer); ok && !(rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return Scalar{V: v}
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null{}
		}
		return ValueOf(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return List{}
		}
		return List(toList(rv))
	}
	return Scalar{V: v}
}

func toList(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

type mode int

const (
	matchValues mode = iota
	matchAll
	matchNone
)

type entry struct {
	column string
	value  Value
}

// ValueSet is an ordered mapping from column names to values, or one of the
// MatchAll / MatchNone sentinels. A nil *ValueSet leaves criteria unchanged.
type ValueSet struct {
	mode    mode
	entries []entry
}

// NewValueSet creates an empty value set.
func NewValueSet() *ValueSet {
	return &ValueSet{}
}

// MatchAll returns the "always true" sentinel, rendered as 1=1.
func MatchAll() *ValueSet {
	return &ValueSet{mode: matchAll}
}

// MatchNone returns the "always false" sentinel, rendered as 0=1.
func MatchNone() *ValueSet {
	return &ValueSet{mode: matchNone}
}

// Set assigns a value to a column, replacing an earlier value for the same
// column. Composite values are appended as their own entry.
func (s *ValueSet) Set(column string, v Value) *ValueSet {
	if v == nil {
		v = Null{}
	}
	if _, ok := v.(Composite); !ok {
		for i := range s.entries {
			if s.entries[i].column == column {
				if _, isComposite := s.entries[i].value.(Composite); !isComposite {
					s.entries[i].value = v
					return s
				}
			}
		}
	}
	s.entries = append(s.entries, entry{column: column, value: v})
	return s
}

// SetAny resolves v with ValueOf and assigns it to column.
func (s *ValueSet) SetAny(column string, v any) *ValueSet {
	return s.Set(column, ValueOf(v))
}

// AddTuples appends composite-key tuples.
func (s *ValueSet) AddTuples(tuples ...Tuple) *ValueSet {
	if len(tuples) == 0 {
		return s
	}
	return s.Set("", Composite(tuples))
}

// Len returns the number of entries.
func (s *ValueSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Get returns the value of a simple column entry.
func (s *ValueSet) Get(column string) (Value, bool) {
	if s == nil {
		return nil, false
	}
	for _, e := range s.entries {
		if _, ok := e.value.(Composite); ok {
			continue
		}
		if e.column == column {
			return e.value, true
		}
	}
	return nil, false
}

// Tuples returns all composite-key tuples in entry order.
func (s *ValueSet) Tuples() []Tuple {
	if s == nil {
		return nil
	}
	var out []Tuple
	for _, e := range s.entries {
		if c, ok := e.value.(Composite); ok {
			out = append(out, c...)
		}
	}
	return out
}
