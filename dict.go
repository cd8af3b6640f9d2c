// File: fusedconf/dict.go
package fusedconf

import "strings"

// DumpOptions adjusts how ToDictWith renders the tree.
type DumpOptions struct {
	// Raw bypasses getter transforms.
	Raw bool
	// IncludeHidden keeps explicitly hidden items and sections whose
	// names are public. Prefix-hidden names never serialize.
	IncludeHidden bool
}

// ToDict renders the public, non-hidden part of the tree into nested
// maps, reading items through their getter transforms.
func (s *Section) ToDict() map[string]any {
	return s.ToDictWith(DumpOptions{})
}

// ToDictWith is ToDict with rendering options.
func (s *Section) ToDictWith(opts DumpOptions) map[string]any {
	d := make(map[string]any)
	for _, name := range s.itemOrder {
		if strings.HasPrefix(name, HiddenPrefix) {
			continue
		}
		e := s.items[name]
		if e.hidden && !opts.IncludeHidden {
			continue
		}
		d[name] = e.get(opts.Raw)
	}
	for _, name := range s.secOrder {
		if strings.HasPrefix(name, HiddenPrefix) {
			continue
		}
		sub := s.sections[name]
		if sub.hidden && !opts.IncludeHidden {
			continue
		}
		d[name] = sub.ToDictWith(opts)
	}
	return d
}

// FromDict writes matching keys into the tree through setter
// transforms: a key naming an item sets it, a key naming a subsection
// recurses when its value is a nested map. Everything else is ignored.
func (s *Section) FromDict(d map[string]any) *Section {
	return s.fromDict(d, false)
}

// FromDictRaw is FromDict bypassing setter transforms.
func (s *Section) FromDictRaw(d map[string]any) *Section {
	return s.fromDict(d, true)
}

func (s *Section) fromDict(d map[string]any, raw bool) *Section {
	for k, v := range d {
		if e, ok := s.items[k]; ok {
			e.set(v, raw)
			continue
		}
		if sub, ok := s.sections[k]; ok {
			if m, ok := v.(map[string]any); ok {
				sub.fromDict(m, raw)
			}
		}
	}
	return s
}
