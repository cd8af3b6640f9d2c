// File: fusedconf/type.go
package fusedconf

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Lookup resolves a dot-separated path to the effective value of an
// item, walking subsections for every segment but the last. Hidden
// names are reachable, like with Get.
func (s *Section) Lookup(path string) (any, error) {
	cur := s
	segs := strings.Split(path, ".")
	for _, seg := range segs[:len(segs)-1] {
		sub, ok := cur.sections[seg]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoEntry, path)
		}
		cur = sub
	}
	v, err := cur.Get(segs[len(segs)-1])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNoEntry, path)
	}
	return v, nil
}

// String retrieves a string value by path, converting from common
// types when the stored value isn't already a string. A nil value
// reads as "".
func (s *Section) String(path string) (string, error) {
	val, err := s.Lookup(path)
	if err != nil {
		return "", err
	}
	return toString(val, path)
}

// Int64 retrieves an int64 value by path, converting from numeric
// types, parsable strings, and booleans.
func (s *Section) Int64(path string) (int64, error) {
	val, err := s.Lookup(path)
	if err != nil {
		return 0, err
	}
	return toInt64(val, path)
}

// Bool retrieves a boolean value by path. Numbers read as non-zero,
// strings parse with strconv.ParseBool.
func (s *Section) Bool(path string) (bool, error) {
	val, err := s.Lookup(path)
	if err != nil {
		return false, err
	}
	return toBool(val, path)
}

// Float64 retrieves a float64 value by path, converting from numeric
// types, parsable strings, and booleans.
func (s *Section) Float64(path string) (float64, error) {
	val, err := s.Lookup(path)
	if err != nil {
		return 0, err
	}
	return toFloat64(val, path)
}

func toString(val any, path string) (string, error) {
	switch v := val.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case []byte:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case error:
		return v.Error(), nil
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	}
	return "", fmt.Errorf("cannot convert type %T to string for path %s", val, path)
}

// toInt64 switches on reflect.Kind rather than concrete types so named
// integer types like time.Duration convert too.
func toInt64(val any, path string) (int64, error) {
	if val == nil {
		return 0, fmt.Errorf("value for path %s is nil, cannot convert to int64", path)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("unsigned value %d does not fit int64 for path %s: overflow", u, path)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return int64(rv.Float()), nil // Truncates
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.String:
		str := rv.String()
		// Base 0 picks up hex and octal prefixes.
		i, err := strconv.ParseInt(str, 0, 64)
		if err == nil {
			return i, nil
		}
		if f, ferr := strconv.ParseFloat(str, 64); ferr == nil {
			return int64(f), nil
		}
		return 0, fmt.Errorf("cannot convert string %q to int64 for path %s: %w", str, path, err)
	}
	return 0, fmt.Errorf("cannot convert type %T to int64 for path %s", val, path)
}

func toBool(val any, path string) (bool, error) {
	if val == nil {
		return false, fmt.Errorf("value for path %s is nil, cannot convert to bool", path)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0, nil
	case reflect.String:
		str := rv.String()
		b, err := strconv.ParseBool(str)
		if err != nil {
			return false, fmt.Errorf("cannot convert string %q to bool for path %s: %w", str, path, err)
		}
		return b, nil
	}
	return false, fmt.Errorf("cannot convert type %T to bool for path %s", val, path)
}

func toFloat64(val any, path string) (float64, error) {
	if val == nil {
		return 0, fmt.Errorf("value for path %s is nil, cannot convert to float64", path)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.String:
		str := rv.String()
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to float64 for path %s: %w", str, path, err)
		}
		return f, nil
	}
	return 0, fmt.Errorf("cannot convert type %T to float64 for path %s", val, path)
}
