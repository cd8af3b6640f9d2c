// File: fusedconf/io.go
package fusedconf

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Load reads one document from r in the tree's configured format and
// applies it through FromDict.
func (s *Section) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	codec := s.root().codec
	if err := s.loadData(data, codec); err != nil {
		return fmt.Errorf("failed to parse %s config: %w", strings.ToUpper(codec.Name()), err)
	}
	return nil
}

// LoadFile reads the file and applies it through FromDict. The format
// follows the file extension when recognized, then content detection,
// then the tree's configured format. A missing file reports
// ErrConfigNotFound.
func (s *Section) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: '%s'", ErrConfigNotFound, path)
		}
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	codec := codecForFile(path)
	if codec == nil {
		codec = codecForContent(data)
	}
	if codec == nil {
		codec = s.root().codec
	}
	if err := s.loadData(data, codec); err != nil {
		return fmt.Errorf("failed to parse %s config file '%s': %w", strings.ToUpper(codec.Name()), path, err)
	}
	return nil
}

func (s *Section) loadData(data []byte, codec Codec) error {
	d := make(map[string]any)
	if err := codec.Unmarshal(data, &d); err != nil {
		return err
	}
	s.FromDict(d)
	return nil
}

// Save writes the public, non-hidden tree to w in the configured
// format.
func (s *Section) Save(w io.Writer) error {
	return s.SaveWith(w, DumpOptions{})
}

// SaveWith is Save with rendering options.
func (s *Section) SaveWith(w io.Writer, opts DumpOptions) error {
	codec := s.root().codec
	data, err := codec.Marshal(s.ToDictWith(opts))
	if err != nil {
		return fmt.Errorf("failed to encode %s config: %w", strings.ToUpper(codec.Name()), err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// SaveFile writes the tree to the named file atomically: the data
// lands in a temporary file that is synced and renamed over the
// target. The format follows the file extension when recognized, else
// the configured one.
func (s *Section) SaveFile(path string) error {
	return s.SaveFileWith(path, DumpOptions{})
}

// SaveFileWith is SaveFile with rendering options.
func (s *Section) SaveFileWith(path string, opts DumpOptions) error {
	codec := codecForFile(path)
	if codec == nil {
		codec = s.root().codec
	}
	data, err := codec.Marshal(s.ToDictWith(opts))
	if err != nil {
		return fmt.Errorf("failed to encode %s config: %w", strings.ToUpper(codec.Name()), err)
	}
	return atomicWriteFile(path, data)
}

// atomicWriteFile writes data to a temporary file in the target
// directory, then renames it over the destination. The temp file is
// removed on any failure before the rename.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write temporary file '%s': %w", tmpPath, err)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on '%s': %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace '%s': %w", path, err)
	}
	return nil
}
