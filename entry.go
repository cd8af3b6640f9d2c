// File: fusedconf/entry.go
package fusedconf

import (
	"fmt"
	"strings"
)

// HiddenPrefix marks names excluded from the filtered access surface and
// from serialization. Handlers and anonymous items receive synthetic names
// carrying it.
const HiddenPrefix = "_"

// SetFunc transforms a value on its way into an entry. It receives the entry
// whose storage is written (the delegate when invoked through a handler) and
// is responsible for storing the result, typically via target.SetRaw.
type SetFunc func(target *Entry, value any)

// GetFunc produces the externally visible value of an entry. It receives the
// entry whose storage is read (the delegate when invoked through a handler).
type GetFunc func(target *Entry) any

// EnvBinding ties an entry to an environment variable.
type EnvBinding struct {
	// Var is the environment variable name.
	Var string
	// Convert coerces the raw value; nil keeps the raw string.
	Convert ConvertFunc
}

// ArgBinding ties an entry to a command-line option. The metadata fields are
// handed to the option registrar as-is; see OptionSpec for their parsing
// semantics.
type ArgBinding struct {
	Options  []string
	Dest     string
	NArgs    int
	Const    any
	Default  any
	Type     ConvertFunc
	Choices  []any
	Help     string
	Required bool
	Metavar  string
	Action   Action
}

// ItemOptions carries the optional declaration properties accepted by
// AddItem and AddHandler. The zero value declares a plain stored value with
// no bindings.
type ItemOptions struct {
	// EnvVar binds the entry to an environment variable.
	EnvVar string
	// ArgVar binds the entry to command-line option strings, each of the
	// form "-x" or "--name".
	ArgVar []string
	// Set and Get transform values on write and read.
	Set SetFunc
	Get GetFunc
	// Hidden excludes the entry from serialization even when its name is
	// public. Names starting with HiddenPrefix are hidden regardless.
	Hidden bool

	// Option parser metadata, passed through to the registrar. Type doubles
	// as the coercion for EnvVar values.
	Dest     string
	NArgs    int
	Const    any
	Default  any
	Type     ConvertFunc
	Choices  []any
	Help     string
	Required bool
	Metavar  string
	Action   Action
}

// argBinding assembles the command-line binding declared by opts.
func (o ItemOptions) argBinding() *ArgBinding {
	return &ArgBinding{
		Options:  o.ArgVar,
		Dest:     o.Dest,
		NArgs:    o.NArgs,
		Const:    o.Const,
		Default:  o.Default,
		Type:     o.Type,
		Choices:  o.Choices,
		Help:     o.Help,
		Required: o.Required,
		Metavar:  o.Metavar,
		Action:   o.Action,
	}
}

// hasBinding reports whether opts declares anything a handler could forward.
func (o ItemOptions) hasBinding() bool {
	return o.EnvVar != "" || len(o.ArgVar) > 0 || o.Set != nil || o.Get != nil
}

// Entry is a leaf of the configuration tree: one value with optional
// environment and command-line bindings and optional transforms. An entry
// whose delegate is non-nil is a handler: it owns no value of its own and
// forwards reads and writes to the delegate.
//
// A stored nil means "unset". Resolution relies on that, so nil is not a
// usable configuration value.
type Entry struct {
	name     string
	value    any
	env      *EnvBinding
	arg      *ArgBinding
	setter   SetFunc
	getter   GetFunc
	hidden   bool
	dest     string
	delegate *Entry
	owner    *Section
}

// newEntry builds a leaf from declaration properties. The value, when nil,
// is initialized from the option Default (or Const) for named entries.
func newEntry(name string, value any, opts ItemOptions) (*Entry, error) {
	e := &Entry{
		name:   name,
		value:  value,
		setter: opts.Set,
		getter: opts.Get,
		hidden: opts.Hidden || strings.HasPrefix(name, HiddenPrefix),
	}

	if opts.EnvVar != "" {
		e.env = &EnvBinding{Var: opts.EnvVar, Convert: opts.Type}
	}

	if len(opts.ArgVar) > 0 {
		dest, err := buildDestName(opts.ArgVar, opts.Dest)
		if err != nil {
			return nil, err
		}
		e.arg = opts.argBinding()
		e.dest = dest
	}

	// Anonymous entries keep their explicit value untouched.
	if name != "" && value == nil {
		if opts.Default != nil {
			e.set(opts.Default, false)
		} else if opts.Const != nil {
			e.set(opts.Const, false)
		}
	}

	return e, nil
}

// newHandler builds a forwarding entry targeting dst. At least one binding
// or transform must be declared, otherwise the handler could never carry a
// value to its target.
func newHandler(dst *Entry, opts ItemOptions) (*Entry, error) {
	if !opts.hasBinding() {
		return nil, ErrEmptyHandler
	}
	h, err := newEntry("", nil, opts)
	if err != nil {
		return nil, err
	}
	h.delegate = dst
	return h, nil
}

// target resolves where reads and writes land: the delegate for handlers,
// the entry itself otherwise.
func (e *Entry) target() *Entry {
	if e.delegate != nil {
		return e.delegate
	}
	return e
}

// Name returns the entry name ("" before anonymous registration).
func (e *Entry) Name() string { return e.name }

// Hidden reports whether the entry is excluded from serialization.
func (e *Entry) Hidden() bool { return e.hidden }

// Dest returns the cached option parser destination name, "" when the entry
// has no command-line binding.
func (e *Entry) Dest() string { return e.dest }

// Delegate returns the forwarding target for handlers, nil for plain
// entries.
func (e *Entry) Delegate() *Entry { return e.delegate }

// Set stores a value through the setter transform when one is bound.
// Handlers without a setter forward to the delegate, whose own transform
// still applies. The target's resulting stored value is returned.
func (e *Entry) Set(value any) any { return e.set(value, false) }

// SetRaw stores a value directly, bypassing setter transforms.
func (e *Entry) SetRaw(value any) any { return e.set(value, true) }

func (e *Entry) set(value any, raw bool) any {
	switch {
	case e.setter != nil && !raw:
		e.setter(e.target(), value)
	case e.delegate != nil:
		e.delegate.set(value, raw)
	default:
		e.value = value
	}
	return e.target().value
}

// Get returns the value through the getter transform when one is bound.
// Handlers without a getter forward to the delegate.
func (e *Entry) Get() any { return e.get(false) }

// GetRaw returns the stored value, bypassing getter transforms.
func (e *Entry) GetRaw() any { return e.get(true) }

func (e *Entry) get(raw bool) any {
	if e.getter != nil && !raw {
		return e.getter(e.target())
	}
	if e.delegate != nil {
		return e.delegate.get(raw)
	}
	return e.value
}

// FromEnv applies the bound environment variable, coercing when a conversion
// is declared. It reports the applied value and whether the variable was
// present; a coercion failure leaves the entry untouched.
func (e *Entry) FromEnv(env Environ) (any, bool, error) {
	if e.env == nil {
		return nil, false, nil
	}
	raw, ok := env.Lookup(e.env.Var)
	if !ok {
		return nil, false, nil
	}

	var value any = raw
	if e.env.Convert != nil {
		v, err := e.env.Convert(raw)
		if err != nil {
			return nil, false, fmt.Errorf("env %s: %w", e.env.Var, err)
		}
		value = v
	}

	return e.set(value, false), true, nil
}

// ToOptArgs registers the entry's command-line binding with the registrar
// and records the destination name it assigns. Entries without a binding
// register nothing.
func (e *Entry) ToOptArgs(reg Registrar) error {
	if e.arg == nil {
		return nil
	}

	dest, err := reg.AddOption(OptionSpec{
		Options:  e.arg.Options,
		Dest:     e.arg.Dest,
		NArgs:    e.arg.NArgs,
		Const:    e.arg.Const,
		Default:  e.arg.Default,
		Type:     e.arg.Type,
		Choices:  e.arg.Choices,
		Help:     e.arg.Help,
		Required: e.arg.Required,
		Metavar:  e.arg.Metavar,
		Action:   e.arg.Action,
	})
	if err != nil {
		return fmt.Errorf("option %s: %w", e.describe(), err)
	}

	e.dest = dest
	return nil
}

// FromOptArgs applies the parsed command-line value for this entry's
// destination, if any. The parsed namespace holds every registered
// destination, defaulted to nil when the option was not supplied and
// declares no default; such a nil is applied only when allowNone is set or
// the entry is still unset. It reports the stored value and whether a write
// happened.
func (e *Entry) FromOptArgs(parsed ParsedArgs, allowNone bool) (any, bool) {
	if e.dest == "" || parsed == nil {
		return nil, false
	}
	v, ok := parsed.Lookup(e.dest)
	if !ok {
		return nil, false
	}

	if allowNone || e.get(false) == nil || v != nil {
		return e.set(v, false), true
	}
	return nil, false
}

// AddHandler extends this entry's bindings in place, or, when a binding of
// the same kind is already present, asks the owning section for a second
// registration: an anonymous handler forwarding to this entry. Rebinding
// the command-line side re-derives the destination name.
func (e *Entry) AddHandler(opts ItemOptions) (*Entry, error) {
	if !opts.hasBinding() {
		return nil, ErrEmptyHandler
	}

	conflict := (opts.EnvVar != "" && e.env != nil) ||
		(len(opts.ArgVar) > 0 && e.arg != nil) ||
		(opts.Set != nil && e.setter != nil) ||
		(opts.Get != nil && e.getter != nil)
	if conflict {
		if e.owner == nil {
			return nil, fmt.Errorf("%w: entry %s is not registered", ErrNoEntry, e.describe())
		}
		return e.owner.AddHandler(e, opts)
	}

	if opts.EnvVar != "" {
		e.env = &EnvBinding{Var: opts.EnvVar, Convert: opts.Type}
	}
	if len(opts.ArgVar) > 0 {
		dest, err := buildDestName(opts.ArgVar, opts.Dest)
		if err != nil {
			return nil, err
		}
		e.arg = opts.argBinding()
		e.dest = dest
	}
	if opts.Set != nil {
		e.setter = opts.Set
	}
	if opts.Get != nil {
		e.getter = opts.Get
	}

	return e, nil
}

// AddItem registers a sibling on the owning section, so declarations can be
// chained off a previous one.
func (e *Entry) AddItem(name string, value any, opts ...ItemOptions) (*Entry, error) {
	if e.owner == nil {
		return nil, fmt.Errorf("%w: entry %s is not registered", ErrNoEntry, e.describe())
	}
	return e.owner.AddItem(name, value, opts...)
}

// describe names the entry for error messages, falling back to the
// destination or the bound variable for anonymous ones.
func (e *Entry) describe() string {
	switch {
	case e.name != "":
		return fmt.Sprintf("%q", e.name)
	case e.dest != "":
		return fmt.Sprintf("(dest %q)", e.dest)
	case e.env != nil:
		return fmt.Sprintf("(env %s)", e.env.Var)
	default:
		return "(anonymous)"
	}
}

// buildDestName derives the parser destination from the option strings: an
// explicit dest wins, else the first long option, else the first short one.
// Leading dashes are stripped and remaining dashes map to underscores.
func buildDestName(options []string, explicit string) (string, error) {
	var long, first string
	for _, opt := range options {
		if err := checkOptionString(opt); err != nil {
			return "", err
		}
		if first == "" {
			first = opt
		}
		if long == "" && strings.HasPrefix(opt, "--") {
			long = opt
		}
	}

	if explicit != "" {
		return explicit, nil
	}

	pick := long
	if pick == "" {
		pick = first
	}
	if pick == "" {
		return "", fmt.Errorf("%w: no option strings given", ErrBadOption)
	}

	dest := strings.TrimLeft(pick, "-")
	return strings.ReplaceAll(dest, "-", "_"), nil
}

// checkOptionString enforces the accepted forms: "-x" or "--name".
func checkOptionString(opt string) error {
	if len(opt) == 2 && opt[0] == '-' && opt[1] != '-' {
		return nil
	}
	if len(opt) > 2 && strings.HasPrefix(opt, "--") && opt[2] != '-' {
		return nil
	}
	return fmt.Errorf("%w: option string %q must look like -x or --name", ErrBadOption, opt)
}
