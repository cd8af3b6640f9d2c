// FILE: fusedconf/section.go
package fusedconf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Options configures a root section.
type Options struct {
	// Description is printed at the top of the generated usage text.
	Description string
	// Format selects the file codec: "json" (default), "toml" or "yaml".
	Format string
	// WarnWriter receives registration and assignment warnings,
	// os.Stderr when nil.
	WarnWriter io.Writer
}

// SectionOptions carries the optional declaration properties accepted
// by AddSection.
type SectionOptions struct {
	// Description labels the section's option group in usage text.
	Description string
	// Hidden excludes the section from serialization even when its
	// name is public. Names starting with HiddenPrefix are hidden
	// regardless.
	Hidden bool
}

// Section is one node of the configuration tree: named value items,
// named subsections, and the anonymous handlers registered beside
// them. Roots come from New or NewWithOptions, children from
// AddSection. The zero value is not usable.
//
// Sections are not safe for concurrent use.
type Section struct {
	name        string
	description string
	hidden      bool
	parent      *Section

	items     map[string]*Entry
	itemOrder []string
	sections  map[string]*Section
	secOrder  []string

	// root-only state
	codec    Codec
	warnw    io.Writer
	warnings []string
}

// New returns an empty root section with default options.
func New() *Section {
	s, _ := NewWithOptions(Options{})
	return s
}

// NewWithOptions returns an empty root section, or ErrBadFormat when
// the format names no known codec.
func NewWithOptions(opts Options) (*Section, error) {
	codec, err := codecByName(opts.Format)
	if err != nil {
		return nil, err
	}
	warnw := opts.WarnWriter
	if warnw == nil {
		warnw = os.Stderr
	}
	return &Section{
		description: opts.Description,
		items:       make(map[string]*Entry),
		sections:    make(map[string]*Section),
		codec:       codec,
		warnw:       warnw,
	}, nil
}

func newSection(parent *Section, name string, opts SectionOptions) *Section {
	return &Section{
		name:        name,
		description: opts.Description,
		hidden:      opts.Hidden || strings.HasPrefix(name, HiddenPrefix),
		parent:      parent,
		items:       make(map[string]*Entry),
		sections:    make(map[string]*Section),
	}
}

// Name returns the section name, "" for roots.
func (s *Section) Name() string { return s.name }

// Description returns the section description.
func (s *Section) Description() string { return s.description }

// Hidden reports whether the section is excluded from serialization.
func (s *Section) Hidden() bool { return s.hidden }

// root walks up to the tree root, which carries the codec and the
// warning state.
func (s *Section) root() *Section {
	r := s
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// warnf records a non-fatal complaint on the root and echoes it to the
// warning writer.
func (s *Section) warnf(format string, args ...any) {
	r := s.root()
	msg := fmt.Sprintf(format, args...)
	r.warnings = append(r.warnings, msg)
	if r.warnw != nil {
		fmt.Fprintf(r.warnw, "warning: %s\n", msg)
	}
}

// Warnings returns the warnings collected on this tree, oldest first.
func (s *Section) Warnings() []string {
	r := s.root()
	out := make([]string, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// Contains reports whether the name is taken by an item or a
// subsection, hidden ones included.
func (s *Section) Contains(name string) bool {
	if _, ok := s.items[name]; ok {
		return true
	}
	_, ok := s.sections[name]
	return ok
}

// Len returns the number of items plus subsections, hidden ones
// included.
func (s *Section) Len() int { return len(s.items) + len(s.sections) }

// AddItem registers a named value item and returns it, so declarations
// can chain into AddHandler or further AddItem calls. An empty name
// registers the item under a synthetic hidden slot.
func (s *Section) AddItem(name string, value any, opts ...ItemOptions) (*Entry, error) {
	var o ItemOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	e, err := newEntry(name, value, o)
	if err != nil {
		return nil, err
	}
	if err := s.insertEntry(e); err != nil {
		return nil, err
	}
	return e, nil
}

// AddSection registers a named subsection and returns it. An empty
// name returns the receiver, so optional grouping can be spelled
// unconditionally.
func (s *Section) AddSection(name string, opts ...SectionOptions) (*Section, error) {
	if name == "" {
		return s, nil
	}
	if s.Contains(name) {
		return nil, fmt.Errorf("%w: %q", ErrKeyInUse, name)
	}
	var o SectionOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	sub := newSection(s, name, o)
	s.insertSection(name, sub)
	return sub, nil
}

// AddHandler registers an anonymous handler forwarding to dst and
// returns dst, so handler declarations chain off the item they extend.
func (s *Section) AddHandler(dst *Entry, opts ItemOptions) (*Entry, error) {
	h, err := newHandler(dst, opts)
	if err != nil {
		return nil, err
	}
	if err := s.insertEntry(h); err != nil {
		return nil, err
	}
	return dst, nil
}

// insertEntry stores an entry under its own name, or under a synthetic
// hidden slot for anonymous entries and handlers.
func (s *Section) insertEntry(e *Entry) error {
	name := e.name
	if name == "" {
		name = fmt.Sprintf("%s%d", HiddenPrefix, len(s.items))
		e.name = name
		e.hidden = true
	}
	if s.Contains(name) {
		return fmt.Errorf("%w: %q", ErrKeyInUse, name)
	}
	e.owner = s
	s.items[name] = e
	s.itemOrder = append(s.itemOrder, name)
	return nil
}

func (s *Section) insertSection(name string, sub *Section) {
	sub.parent = s
	s.sections[name] = sub
	s.secOrder = append(s.secOrder, name)
}

// Get returns the named item's value through its getter transform.
// Hidden items are reachable; subsection names are not.
func (s *Section) Get(name string) (any, error) {
	e, ok := s.items[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoEntry, name)
	}
	return e.Get(), nil
}

// GetRaw returns the named item's stored value, bypassing transforms.
func (s *Section) GetRaw(name string) (any, error) {
	e, ok := s.items[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoEntry, name)
	}
	return e.GetRaw(), nil
}

// Set writes values into matching items through their setter
// transforms. Keys naming no item, subsection names included, are
// reported to the warning writer and skipped.
func (s *Section) Set(values map[string]any) { s.setAll(values, false) }

// SetRaw is Set bypassing setter transforms.
func (s *Section) SetRaw(values map[string]any) { s.setAll(values, true) }

func (s *Section) setAll(values map[string]any, raw bool) {
	for k, v := range values {
		e, ok := s.items[k]
		if !ok {
			s.warnf("%q does not exist, ignored", k)
			continue
		}
		e.set(v, raw)
	}
}

// Value returns the stored value of a public item, the counterpart of
// reading a field. Hidden names are not reachable here; use Get.
func (s *Section) Value(name string) (any, error) {
	if !strings.HasPrefix(name, HiddenPrefix) {
		if e, ok := s.items[name]; ok {
			return e.GetRaw(), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoEntry, name)
}

// Sub returns a public subsection by name.
func (s *Section) Sub(name string) (*Section, error) {
	if !strings.HasPrefix(name, HiddenPrefix) {
		if sub, ok := s.sections[name]; ok {
			return sub, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoEntry, name)
}

// SetValue assigns to a public name, the counterpart of writing a
// field. A plain value lands in the named item raw, bypassing its
// setter transform; an *Entry or *Section of the same name replaces
// the occupied slot.
func (s *Section) SetValue(name string, value any) error {
	if !strings.HasPrefix(name, HiddenPrefix) {
		if _, ok := s.items[name]; ok {
			return s.replaceItem(name, value)
		}
		if _, ok := s.sections[name]; ok {
			return s.replaceSection(name, value)
		}
	}
	return fmt.Errorf("%w: %q", ErrNoEntry, name)
}

// replaceItem swaps the named slot for a same-named entry, or writes
// any other value into the existing entry raw.
func (s *Section) replaceItem(name string, value any) error {
	if e, ok := value.(*Entry); ok {
		if e.name != name {
			return fmt.Errorf("%w: %q cannot take entry %q", ErrNameMismatch, name, e.name)
		}
		e.owner = s
		s.items[name] = e
		return nil
	}
	s.items[name].SetRaw(value)
	return nil
}

func (s *Section) replaceSection(name string, value any) error {
	sub, ok := value.(*Section)
	if !ok {
		return fmt.Errorf("%w: %q can only take a section", ErrNotSection, name)
	}
	if sub.name != name {
		return fmt.Errorf("%w: %q cannot take section %q", ErrNameMismatch, name, sub.name)
	}
	sub.parent = s
	s.sections[name] = sub
	return nil
}

// Put is the union write. Existing names are replaced in their slot;
// a new *Entry or *Section is inserted, keeping its own name over the
// given one with a warning when they differ; any other value becomes a
// fresh item under the given name.
func (s *Section) Put(name string, value any) error {
	if _, ok := s.items[name]; ok {
		return s.replaceItem(name, value)
	}
	if _, ok := s.sections[name]; ok {
		return s.replaceSection(name, value)
	}

	switch v := value.(type) {
	case *Entry:
		if v.name != "" && v.name != name {
			s.warnf("%q will be replaced by %q", name, v.name)
		}
		return s.insertEntry(v)
	case *Section:
		if v.name == "" {
			v.name = name
			v.hidden = v.hidden || strings.HasPrefix(name, HiddenPrefix)
		} else if v.name != name {
			s.warnf("%q will be replaced by %q", name, v.name)
		}
		if s.Contains(v.name) {
			return fmt.Errorf("%w: %q", ErrKeyInUse, v.name)
		}
		s.insertSection(v.name, v)
		return nil
	default:
		_, err := s.AddItem(name, value)
		return err
	}
}

// Entry returns the named item object, hidden ones included.
func (s *Section) Entry(name string) (*Entry, bool) {
	e, ok := s.items[name]
	return e, ok
}

// Subsection returns the named subsection object, hidden ones
// included.
func (s *Section) Subsection(name string) (*Section, bool) {
	sub, ok := s.sections[name]
	return sub, ok
}

// PublicItems returns the items whose names carry no HiddenPrefix,
// keyed by name. Explicitly hidden items are included; the name prefix
// alone gates this surface.
func (s *Section) PublicItems() map[string]*Entry {
	out := make(map[string]*Entry)
	for name, e := range s.items {
		if !strings.HasPrefix(name, HiddenPrefix) {
			out[name] = e
		}
	}
	return out
}

// PublicSections returns the subsections whose names carry no
// HiddenPrefix, keyed by name.
func (s *Section) PublicSections() map[string]*Section {
	out := make(map[string]*Section)
	for name, sub := range s.sections {
		if !strings.HasPrefix(name, HiddenPrefix) {
			out[name] = sub
		}
	}
	return out
}

// ToOptArgs registers every command-line binding in the tree with the
// registrar and returns the registrar actually used. A nil registrar
// creates a fresh OptionSet named after the running program. A named
// section registering into an OptionSet becomes a usage group; deeper
// named sections fold into the nearest group. All items register,
// hidden ones included; prefix-hidden subsections do not.
func (s *Section) ToOptArgs(reg Registrar) (Registrar, error) {
	if reg == nil {
		reg = NewOptionSet(defaultProg(), s.description)
	} else if s.name != "" {
		reg = reg.Group(s.name, s.description)
	}

	for _, name := range s.itemOrder {
		if err := s.items[name].ToOptArgs(reg); err != nil {
			return nil, err
		}
	}
	for _, name := range s.secOrder {
		if strings.HasPrefix(name, HiddenPrefix) {
			continue
		}
		if _, err := s.sections[name].ToOptArgs(reg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// FromOptArgs applies parsed command-line values to every bound entry
// in the tree, hidden subsections included. A parsed nil, meaning the
// option never appeared, does not clobber an already-set value.
func (s *Section) FromOptArgs(parsed ParsedArgs) *Section {
	for _, name := range s.itemOrder {
		s.items[name].FromOptArgs(parsed, false)
	}
	for _, name := range s.secOrder {
		s.sections[name].FromOptArgs(parsed)
	}
	return s
}

// FromEnv applies bound environment variables to every entry in the
// tree, hidden subsections included. A nil environment reads the
// process environment. Coercion failures are collected and joined;
// variables that applied cleanly stick regardless.
func (s *Section) FromEnv(env Environ) error {
	if env == nil {
		env = SystemEnv()
	}
	return s.fromEnv(env)
}

func (s *Section) fromEnv(env Environ) error {
	var errs []error
	for _, name := range s.itemOrder {
		if _, _, err := s.items[name].FromEnv(env); err != nil {
			errs = append(errs, err)
		}
	}
	for _, name := range s.secOrder {
		if err := s.sections[name].fromEnv(env); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
