// File: fusedconf/struct.go
package fusedconf

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"time"
)

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// AddStruct registers items and subsections mirroring the exported
// fields of a defaults struct. Field values become the item defaults.
// Nested structs become subsections; time.Time and types unmarshaling
// themselves from text stay leaf items.
//
// Tags steer the declaration: `json` names the entry (like Scan),
// `env` binds an environment variable, `arg` binds comma-separated
// option strings, `help` sets the option help text, and `hidden:"true"`
// hides the entry from serialization. Bool fields bound to an option
// parse as presence flags.
func (s *Section) AddStruct(defaults any) error {
	v := reflect.ValueOf(defaults)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return fmt.Errorf("AddStruct requires a non-nil struct pointer or value")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("AddStruct requires a struct or struct pointer, got %T", defaults)
	}

	var failures []string
	s.addFields(v, &failures)
	if len(failures) > 0 {
		return fmt.Errorf("failed to register %d field(s): %s", len(failures), strings.Join(failures, "; "))
	}
	return nil
}

func (s *Section) addFields(v reflect.Value, failures *[]string) {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		key := field.Name
		if tag != "" {
			if name := strings.Split(tag, ",")[0]; name != "" {
				key = name
			}
		}

		ft := fieldValue.Type()
		isStruct := fieldValue.Kind() == reflect.Struct && !isLeafStruct(ft)
		isPtrToStruct := fieldValue.Kind() == reflect.Pointer &&
			ft.Elem().Kind() == reflect.Struct && !isLeafStruct(ft.Elem())

		if isStruct || isPtrToStruct {
			nested := fieldValue
			if isPtrToStruct {
				if fieldValue.IsNil() {
					// Nil pointers carry no usable defaults.
					continue
				}
				nested = fieldValue.Elem()
			}
			sub, err := s.AddSection(key, SectionOptions{Description: field.Tag.Get("help")})
			if err != nil {
				*failures = append(*failures, fmt.Sprintf("field %s: %v", field.Name, err))
				continue
			}
			sub.addFields(nested, failures)
			continue
		}

		opts := ItemOptions{
			EnvVar: field.Tag.Get("env"),
			Help:   field.Tag.Get("help"),
			Hidden: field.Tag.Get("hidden") == "true",
			Type:   converterForType(ft),
		}
		if arg := field.Tag.Get("arg"); arg != "" {
			parts := strings.Split(arg, ",")
			for j := range parts {
				parts[j] = strings.TrimSpace(parts[j])
			}
			opts.ArgVar = parts
			if ft.Kind() == reflect.Bool {
				opts.Action = ActionStoreTrue
			}
		}

		if _, err := s.AddItem(key, fieldValue.Interface(), opts); err != nil {
			*failures = append(*failures, fmt.Sprintf("field %s (item %s): %v", field.Name, key, err))
		}
	}
}

// isLeafStruct reports struct types that register as single items
// instead of subsections.
func isLeafStruct(t reflect.Type) bool {
	if t == reflect.TypeOf(time.Time{}) {
		return true
	}
	return reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// converterForType picks the coercion matching a struct field type,
// nil for strings and anything else mapstructure handles on its own.
func converterForType(t reflect.Type) ConvertFunc {
	if t == reflect.TypeOf(time.Duration(0)) {
		return Duration
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int
	case reflect.Float32, reflect.Float64:
		return Float
	case reflect.Bool:
		return Bool
	default:
		return nil
	}
}
