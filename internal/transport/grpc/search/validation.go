package search

import (
	"math"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// fields wraps the fields of a request Struct with typed accessors.
// Missing and null fields read as zero values; fields of the wrong
// kind are an InvalidArgument error.
type fields map[string]*structpb.Value

func requestFields(req *structpb.Struct) fields {
	if req == nil {
		return fields{}
	}
	return req.GetFields()
}

func (f fields) get(key string) (*structpb.Value, bool) {
	v, ok := f[key]
	if !ok || v == nil {
		return nil, false
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, false
	}
	return v, true
}

// stringValue reads a string field. Numbers and booleans are formatted so that
// {"discount_percent": 10} and {"discount_percent": "10"} are the same filter.
func (f fields) stringValue(key string) (string, error) {
	v, ok := f.get(key)
	if !ok {
		return "", nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64), nil
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue), nil
	}
	return "", invalidField(key, "a string")
}

// stringList reads a list of strings. A single string is a one-element list.
func (f fields) stringList(key string) ([]string, error) {
	v, ok := f.get(key)
	if !ok {
		return nil, nil
	}
	list, isList := v.GetKind().(*structpb.Value_ListValue)
	if !isList {
		s, err := f.stringValue(key)
		if err != nil {
			return nil, invalidField(key, "a string or a list of strings")
		}
		return []string{s}, nil
	}

	out := make([]string, 0, len(list.ListValue.GetValues()))
	for _, item := range list.ListValue.GetValues() {
		s, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, invalidField(key, "a list of strings")
		}
		out = append(out, s.StringValue)
	}
	return out, nil
}

func (f fields) boolValue(key string) (bool, error) {
	v, ok := f.get(key)
	if !ok {
		return false, nil
	}
	b, isBool := v.GetKind().(*structpb.Value_BoolValue)
	if !isBool {
		return false, invalidField(key, "a boolean")
	}
	return b.BoolValue, nil
}

func (f fields) intValue(key string) (int, error) {
	v, ok := f.get(key)
	if !ok {
		return 0, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue != math.Trunc(n.NumberValue) || n.NumberValue < 0 || n.NumberValue > math.MaxInt32 {
		return 0, invalidField(key, "a non-negative integer")
	}
	return int(n.NumberValue), nil
}

func invalidField(key, want string) error {
	return status.Errorf(codes.InvalidArgument, "%s must be %s", key, want)
}
