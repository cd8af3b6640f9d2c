// FILE: fusedconf/convert.go
package fusedconf

import (
	"fmt"
	"strconv"
	"time"
)

// ConvertFunc coerces a raw textual value, from an environment variable or a
// command-line argument, into a typed one. A nil ConvertFunc on a binding
// means the raw string is used as-is.
type ConvertFunc func(raw string) (any, error)

// Int coerces to int.
func Int(raw string) (any, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %q to int: %w", raw, err)
	}
	return v, nil
}

// Float coerces to float64.
func Float(raw string) (any, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %q to float64: %w", raw, err)
	}
	return v, nil
}

// Bool coerces to bool, accepting the strconv.ParseBool forms.
func Bool(raw string) (any, error) {
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %q to bool: %w", raw, err)
	}
	return v, nil
}

// Duration coerces to time.Duration ("250ms", "2h45m", ...).
func Duration(raw string) (any, error) {
	v, err := time.ParseDuration(raw)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %q to duration: %w", raw, err)
	}
	return v, nil
}

// Auto guesses the type of a raw value: bool, then int, then float, with
// surrounding double quotes stripped from anything else. It never fails;
// unparseable input stays a string.
func Auto(raw string) (any, error) {
	// Try boolean
	if v, err := strconv.ParseBool(raw); err == nil {
		return v, nil
	}

	// Try int
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}

	// Try float64
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v, nil
	}

	// Remove quotes if present
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1], nil
	}

	// Return as string
	return raw, nil
}
