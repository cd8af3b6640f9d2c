// File: fusedconf/convenience.go
package fusedconf

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Quick builds a fully resolved tree with a single call: defaults come
// from the struct, then base files, environment variables, and
// command-line options apply in precedence order. This is the
// recommended way to initialize configuration for most applications.
func Quick(defaults any, baseFiles ...string) (*Section, error) {
	s := New()

	if defaults != nil {
		if err := s.AddStruct(defaults); err != nil {
			return nil, fmt.Errorf("failed to register defaults: %w", err)
		}
	}

	err := s.Parse(ParseOptions{BaseFiles: baseFiles})
	return s, err
}

// MustQuick is like Quick but panics on error. A help request exits
// the process after the usage text has been printed.
func MustQuick(defaults any, baseFiles ...string) *Section {
	s, err := Quick(defaults, baseFiles...)
	if err != nil {
		if errors.Is(err, ErrHelp) {
			os.Exit(0)
		}
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return s
}

// Validate checks that every named dot-separated path holds a value.
// A nil value means no source ever set the item.
func (s *Section) Validate(required ...string) error {
	var missing []string

	for _, path := range required {
		v, err := s.Lookup(path)
		if err != nil {
			missing = append(missing, path+" (not registered)")
			continue
		}
		if v == nil {
			missing = append(missing, path)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

// Debug returns a formatted dump of the tree: every item with its
// value and bindings, every handler with its target, and every
// subsection indented below its parent.
func (s *Section) Debug() string {
	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	b.WriteString(fmt.Sprintf("Format: %s\n", s.root().codec.Name()))
	s.debugTree(&b, 0)
	return b.String()
}

func (s *Section) debugTree(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth+1)

	for _, name := range s.itemOrder {
		e := s.items[name]
		b.WriteString(indent)
		switch {
		case e.delegate != nil:
			fmt.Fprintf(b, "%s -> %s (handler)", name, e.delegate.name)
		case e.GetRaw() == nil:
			fmt.Fprintf(b, "%s = <unset>", name)
		default:
			fmt.Fprintf(b, "%s = %#v", name, e.GetRaw())
		}
		if e.hidden {
			b.WriteString(" (hidden)")
		}
		if e.env != nil {
			fmt.Fprintf(b, " [env %s]", e.env.Var)
		}
		if e.arg != nil {
			fmt.Fprintf(b, " [arg %s]", strings.Join(e.arg.Options, "/"))
		}
		b.WriteString("\n")
	}

	for _, name := range s.secOrder {
		sub := s.sections[name]
		b.WriteString(indent)
		b.WriteString(name)
		b.WriteString(":")
		if sub.hidden {
			b.WriteString(" (hidden)")
		}
		b.WriteString("\n")
		sub.debugTree(b, depth+1)
	}
}

// Dump writes the current configuration to stdout in the configured
// format.
func (s *Section) Dump() error {
	return s.Save(os.Stdout)
}
