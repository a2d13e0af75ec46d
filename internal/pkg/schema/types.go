package schema

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"cloud.google.com/go/spanner"
)

// Type is a GoogleSQL column type.
type Type int

const (
	Unknown Type = iota
	String
	Int64
	Float64
	Bool
	Timestamp
	Date
	Numeric
	Bytes
	JSON
	Array
)

var typeNames = map[Type]string{
	Unknown:   "UNKNOWN",
	String:    "STRING",
	Int64:     "INT64",
	Float64:   "FLOAT64",
	Bool:      "BOOL",
	Timestamp: "TIMESTAMP",
	Date:      "DATE",
	Numeric:   "NUMERIC",
	Bytes:     "BYTES",
	JSON:      "JSON",
	Array:     "ARRAY",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType maps a SPANNER_TYPE value from INFORMATION_SCHEMA.COLUMNS,
// e.g. "STRING(MAX)" or "ARRAY<INT64>", to a Type.
func ParseType(spannerType string) Type {
	s := strings.ToUpper(strings.TrimSpace(spannerType))
	if strings.HasPrefix(s, "ARRAY<") {
		return Array
	}
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	switch s {
	case "STRING":
		return String
	case "INT64":
		return Int64
	case "FLOAT64", "FLOAT32":
		return Float64
	case "BOOL":
		return Bool
	case "TIMESTAMP":
		return Timestamp
	case "DATE":
		return Date
	case "NUMERIC":
		return Numeric
	case "BYTES":
		return Bytes
	case "JSON":
		return JSON
	default:
		return Unknown
	}
}

func typecast(t Type, allowNull bool, v any) any {
	v = unwrapNull(v)
	if v == nil {
		return nil
	}

	s, isString := v.(string)
	if isString && s == "" && allowNull && t != String && t != Bytes {
		return nil
	}

	switch t {
	case String:
		if isString {
			return s
		}
		return fmt.Sprint(v)
	case Int64:
		if isString {
			if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return n
			}
			return v
		}
		if n, ok := toInt64(v); ok {
			return n
		}
	case Float64:
		if isString {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return f
			}
			return v
		}
		if f, ok := toFloat64(v); ok {
			return f
		}
	case Bool:
		if isString {
			if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
				return b
			}
		}
	case Timestamp:
		if isString {
			if ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s)); err == nil {
				return ts
			}
		}
	case Date:
		switch d := v.(type) {
		case string:
			if parsed, err := civil.ParseDate(strings.TrimSpace(d)); err == nil {
				return parsed
			}
		case time.Time:
			return civil.DateOf(d)
		}
	case Numeric:
		if isString {
			if r, ok := new(big.Rat).SetString(strings.TrimSpace(s)); ok {
				return r
			}
			return v
		}
		if n, ok := toInt64(v); ok {
			return new(big.Rat).SetInt64(n)
		}
		if f, ok := toFloat64(v); ok {
			if r := new(big.Rat).SetFloat64(f); r != nil {
				return r
			}
		}
	case Bytes:
		if isString {
			return []byte(s)
		}
	}
	return v
}

// unwrapNull turns spanner.Null* wrappers into nil or their underlying value.
func unwrapNull(v any) any {
	switch n := v.(type) {
	case spanner.NullString:
		if !n.Valid {
			return nil
		}
		return n.StringVal
	case spanner.NullInt64:
		if !n.Valid {
			return nil
		}
		return n.Int64
	case spanner.NullFloat64:
		if !n.Valid {
			return nil
		}
		return n.Float64
	case spanner.NullBool:
		if !n.Valid {
			return nil
		}
		return n.Bool
	case spanner.NullTime:
		if !n.Valid {
			return nil
		}
		return n.Time
	case spanner.NullDate:
		if !n.Valid {
			return nil
		}
		return n.Date
	case spanner.NullNumeric:
		if !n.Valid {
			return nil
		}
		return &n.Numeric
	}
	return v
}

func toInt64(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > 1<<63-1 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	if n, ok := toInt64(v); ok {
		return float64(n), true
	}
	return 0, false
}

// Unwrap returns the underlying value of a spanner.Null* wrapper, or nil
// when the wrapper is not valid. Other values are returned unchanged.
func Unwrap(v any) any {
	return unwrapNull(v)
}
