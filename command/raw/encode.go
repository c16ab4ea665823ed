package raw

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// RawEncoder lets a value own its wire text, used by enums and
// bounded numerics that carry non-default serialization (e.g. "on"/
// "off" for booleans-as-enums, or a named constant table). Returning
// ok=false omits the value entirely, the same as a nil pointer.
type RawEncoder interface {
	EncodeHeosValue() (value string, ok bool)
}

// tagSpec is the parsed form of a `heos:"..."` struct tag.
type tagSpec struct {
	name      string
	omitempty bool
	flatten   bool
	skip      bool
}

func parseTag(field reflect.StructField) tagSpec {
	raw, ok := field.Tag.Lookup("heos")
	if !ok {
		return tagSpec{name: field.Name}
	}
	if raw == "-" {
		return tagSpec{skip: true}
	}
	parts := strings.Split(raw, ",")
	spec := tagSpec{name: parts[0]}
	if spec.name == "" {
		spec.name = field.Name
	}
	for _, opt := range parts[1:] {
		switch opt {
		case "omitempty":
			spec.omitempty = true
		case "flatten":
			spec.flatten = true
		}
	}
	return spec
}

// Encode builds a Command's parameter map from v, which must be a
// struct or map at the top level (per §4.B). group and name are
// assigned verbatim onto the resulting Command.
func Encode(group, name string, v any) (Command, error) {
	cmd := New(group, name)
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Struct:
		if err := encodeStructInto(cmd.Params, rv); err != nil {
			return Command{}, err
		}
	case reflect.Map:
		if err := encodeMapInto(cmd.Params, rv); err != nil {
			return Command{}, err
		}
	default:
		return Command{}, &InvalidTopLevelError{Kind: rv.Kind().String()}
	}
	return cmd, nil
}

func encodeStructInto(dst map[string]string, rv reflect.Value) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		spec := parseTag(field)
		if spec.skip {
			continue
		}
		fv := rv.Field(i)

		if spec.flatten {
			inner := reflect.Indirect(fv)
			if !inner.IsValid() {
				continue
			}
			switch inner.Kind() {
			case reflect.Struct:
				if err := encodeStructInto(dst, inner); err != nil {
					return err
				}
			case reflect.Map:
				if err := encodeMapInto(dst, inner); err != nil {
					return err
				}
			default:
				return &SerializationError{Field: field.Name, Reason: "flatten requires struct or map"}
			}
			continue
		}

		text, present, err := encodeValue(fv)
		if err != nil {
			return &SerializationError{Field: field.Name, Reason: err.Error()}
		}
		if !present {
			if spec.omitempty || isZero(fv) {
				continue
			}
		}
		dst[spec.name] = text
	}
	return nil
}

func encodeMapInto(dst map[string]string, rv reflect.Value) error {
	iter := rv.MapRange()
	for iter.Next() {
		key := fmt.Sprintf("%v", iter.Key().Interface())
		text, present, err := encodeValue(iter.Value())
		if err != nil {
			return &SerializationError{Field: key, Reason: err.Error()}
		}
		if !present {
			continue
		}
		dst[key] = text
	}
	return nil
}

func isZero(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	return v.IsZero()
}

// encodeValue renders one field/value to its wire text. present=false
// means "omit this parameter entirely" (nil pointer, nil interface,
// or a RawEncoder that declines).
func encodeValue(v reflect.Value) (string, bool, error) {
	if !v.IsValid() {
		return "", false, nil
	}

	// Pointers and interfaces: nil means absent.
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return "", false, nil
		}
		return encodeValue(v.Elem())
	}

	if v.CanInterface() {
		if enc, ok := v.Interface().(RawEncoder); ok {
			text, ok := enc.EncodeHeosValue()
			if !ok {
				return "", false, nil
			}
			return text, true, nil
		}
	}

	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return "on", true, nil
		}
		return "off", true, nil
	case reflect.String:
		return v.String(), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true, nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), true, nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return "", false, nil
		}
		if v.Len() == 0 {
			return "", false, nil
		}
		parts := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			text, present, err := encodeValue(v.Index(i))
			if err != nil {
				return "", false, err
			}
			if present {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, ","), true, nil
	case reflect.Struct, reflect.Map:
		return "", false, fmt.Errorf("nested %s not allowed except via flatten", v.Kind())
	default:
		return "", false, fmt.Errorf("unsupported kind %s", v.Kind())
	}
}

// Range encodes a numeric-range value (start..=end) as "start,end".
type Range struct {
	Start, End uint64
}

func (r Range) EncodeHeosValue() (string, bool) {
	return fmt.Sprintf("%d,%d", r.Start, r.End), true
}
