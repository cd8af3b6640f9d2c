// FILE: fusedconf/scan.go
package fusedconf

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes the tree into target, which must be a non-nil pointer
// to a struct. Field names follow the `json` tag, mirroring AddStruct.
// Explicitly hidden items are included; prefix-hidden names are not.
func (s *Section) Scan(target any) error {
	return s.ScanSection("", target)
}

// ScanSection decodes the subsection at a dot-separated path into
// target. An empty path decodes the receiver itself.
func (s *Section) ScanSection(path string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}

	node := navigateToPath(s.ToDictWith(DumpOptions{IncludeHidden: true}), path)
	sectionMap, ok := node.(map[string]any)
	switch {
	case ok:
	case node == nil:
		sectionMap = map[string]any{} // Unknown path decodes nothing.
	default:
		return fmt.Errorf("path %q refers to non-map value (type %T)", path, node)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
		ZeroFields:       true,
		DecodeHook:       scanDecodeHook(),
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("failed to decode path %q: %w", path, err)
	}
	return nil
}

// scanDecodeHook chains the conversions applied while decoding tree
// values into struct fields. The network hook runs before the slice
// hook so net.IP, itself a byte slice, is not split on commas.
func scanDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		netTypeHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// Bounds on strings fed to the network parsers.
const (
	maxIPText   = 45 // longest textual IPv6 address
	maxCIDRText = 49 // IPv6 address plus prefix
	maxURLText  = 2048
)

var (
	ipType    = reflect.TypeOf(net.IP{})
	ipNetType = reflect.TypeOf(net.IPNet{})
	urlType   = reflect.TypeOf(url.URL{})
)

// netTypeHook converts strings into net.IP, net.IPNet and url.URL
// fields. IPNet and URL accept value and pointer targets.
func netTypeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	ptr := to.Kind() == reflect.Pointer
	base := to
	if ptr {
		base = to.Elem()
	}

	str := data.(string)
	switch base {
	case ipType:
		if len(str) > maxIPText {
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}
		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}
		return ip, nil

	case ipNetType:
		if len(str) > maxCIDRText {
			return nil, fmt.Errorf("invalid CIDR length: %d", len(str))
		}
		_, ipnet, err := net.ParseCIDR(str)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		if ptr {
			return ipnet, nil
		}
		return *ipnet, nil

	case urlType:
		if len(str) > maxURLText {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if ptr {
			return u, nil
		}
		return *u, nil
	}
	return data, nil
}

// navigateToPath walks nested maps down a dot-separated path.
func navigateToPath(nested map[string]any, path string) any {
	if path == "" {
		return nested
	}

	path = strings.TrimSuffix(path, ".")
	if path == "" {
		return nested
	}

	segments := strings.Split(path, ".")
	current := any(nested)

	for _, segment := range segments {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil
		}

		value, exists := currentMap[segment]
		if !exists {
			return nil
		}
		current = value
	}

	return current
}
