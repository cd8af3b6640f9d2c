// FILE: fusedconf/codec.go
package fusedconf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Codec serializes the nested-map form of a configuration tree.
type Codec interface {
	Name() string
	Marshal(d map[string]any) ([]byte, error)
	Unmarshal(data []byte, d *map[string]any) error
}

// codecByName maps a format name to its codec, "" meaning JSON.
func codecByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return jsonCodec{}, nil
	case "toml":
		return tomlCodec{}, nil
	case "yaml", "yml":
		return yamlCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadFormat, name)
	}
}

// codecForFile picks a codec from the file extension, nil when the
// extension decides nothing.
func codecForFile(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return tomlCodec{}
	case ".json":
		return jsonCodec{}
	case ".yaml", ".yml":
		return yamlCodec{}
	default:
		return nil
	}
}

// codecForContent detects the format by parsing. JSON is checked
// first as the strictest, then YAML, then TOML. Returns nil when
// nothing parses.
func codecForContent(data []byte) Codec {
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return jsonCodec{}
	}
	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return yamlCodec{}
	}
	var tomlTest any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return tomlCodec{}
	}
	return nil
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(d map[string]any) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

func (jsonCodec) Unmarshal(data []byte, d *map[string]any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Preserve number precision
	if err := decoder.Decode(d); err != nil {
		return err
	}
	for k, v := range *d {
		(*d)[k] = normalizeNumbers(v)
	}
	return nil
}

// normalizeNumbers rewrites json.Number into int64 or float64 so that
// decoded trees carry the same numeric types regardless of codec.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	default:
		return v
	}
}

type tomlCodec struct{}

func (tomlCodec) Name() string { return "toml" }

func (tomlCodec) Marshal(d map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.Indent = "  "
	if err := encoder.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (tomlCodec) Unmarshal(data []byte, d *map[string]any) error {
	return toml.Unmarshal(data, d)
}

type yamlCodec struct{}

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Marshal(d map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(d); err != nil {
		encoder.Close()
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Unmarshal(data []byte, d *map[string]any) error {
	return yaml.Unmarshal(data, d)
}
