// FILE: fusedconf/optargs.go
package fusedconf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// defaultProg names the running binary for usage text.
func defaultProg() string {
	if len(os.Args) == 0 {
		return "prog"
	}
	return filepath.Base(os.Args[0])
}

// Action selects how an option stores its command-line occurrences,
// mirroring the classic optparse action names.
type Action string

const (
	// ActionStore keeps the converted value of the last occurrence.
	ActionStore Action = "store"
	// ActionStoreTrue stores true when the option appears.
	ActionStoreTrue Action = "store_true"
	// ActionStoreFalse stores false when the option appears.
	ActionStoreFalse Action = "store_false"
	// ActionStoreConst stores the declared Const when the option appears.
	ActionStoreConst Action = "store_const"
	// ActionAppend collects every converted occurrence into a slice.
	ActionAppend Action = "append"
	// ActionCount stores the number of occurrences.
	ActionCount Action = "count"
)

// normalize maps the zero value to ActionStore.
func (a Action) normalize() Action {
	if a == "" {
		return ActionStore
	}
	return a
}

// OptionSpec declares a single command-line option.
type OptionSpec struct {
	Options  []string // option strings, e.g. ["-n", "--num"]
	Dest     string   // destination name, derived from Options when empty
	NArgs    int      // operands per occurrence, 0 and 1 both mean one
	Const    any      // value stored by ActionStoreConst
	Default  any      // value reported when the option never appears
	Type     ConvertFunc
	Choices  []any
	Help     string
	Required bool
	Metavar  string
	Action   Action
}

// Registrar accepts option declarations. OptionSet implements it
// directly; Group returns a Registrar that tags declarations with a
// named section for the usage text. Groups do not nest: requesting a
// group from a group returns the same group.
type Registrar interface {
	AddOption(spec OptionSpec) (string, error)
	Group(name, description string) Registrar
}

// ParsedArgs exposes parsed option values by destination name. Every
// registered destination is present, holding its default when the
// option never appeared on the command line.
type ParsedArgs interface {
	Lookup(dest string) (any, bool)
}

// optValue records every raw occurrence of an option. One instance is
// shared between an option's primary flag and its hidden aliases so
// repeated and aliased occurrences accumulate in order.
type optValue struct {
	raws    []string
	hint    string
	defText string
}

func (v *optValue) String() string { return v.defText }
func (v *optValue) Type() string { return v.hint }

func (v *optValue) Set(raw string) error {
	v.raws = append(v.raws, raw)
	return nil
}

// option is a registered declaration plus its accumulated state.
type option struct {
	spec    OptionSpec
	action  Action
	dest    string
	value   *optValue
	flag    *pflag.Flag
	grouped bool
}

// displayName renders the option strings the way parse errors name
// them, e.g. "-n/--num".
func (o *option) displayName() string {
	return strings.Join(o.spec.Options, "/")
}

// optionGroup collects options under a heading in the usage text.
// Registration is forwarded to the owning set.
type optionGroup struct {
	set         *OptionSet
	name        string
	description string
	opts        []*option
}

func (g *optionGroup) AddOption(spec OptionSpec) (string, error) {
	o, err := g.set.addOption(spec)
	if err != nil {
		return "", err
	}
	o.grouped = true
	g.opts = append(g.opts, o)
	return o.dest, nil
}

// Group on a group returns the group itself.
func (g *optionGroup) Group(name, description string) Registrar { return g }

// OptionSet is a pflag-backed option parser with grouped usage text
// and a help option registered out of the box.
type OptionSet struct {
	prog        string
	description string
	fs          *pflag.FlagSet
	out         io.Writer
	opts        []*option
	byDest      map[string]*option
	groups      []*optionGroup
	help        *option
}

// NewOptionSet returns an empty option set for the named program. The
// description appears at the top of the usage text.
func NewOptionSet(prog, description string) *OptionSet {
	fs := pflag.NewFlagSet(prog, pflag.ContinueOnError)
	fs.SortFlags = false
	s := &OptionSet{
		prog:        prog,
		description: description,
		fs:          fs,
		out:         os.Stderr,
		byDest:      make(map[string]*option),
	}
	fs.SetOutput(s.out)
	fs.Usage = s.usage
	s.registerHelp()
	return s
}

// SetOutput redirects usage and parse diagnostics, os.Stderr by default.
func (s *OptionSet) SetOutput(w io.Writer) {
	s.out = w
	s.fs.SetOutput(w)
}

// Prog returns the program name the set was created with.
func (s *OptionSet) Prog() string { return s.prog }

func (s *OptionSet) registerHelp() {
	o, err := s.addOption(OptionSpec{
		Options: []string{"-h", "--help"},
		Action:  ActionStoreTrue,
		Help:    "show this help message and exit",
	})
	if err != nil {
		return
	}
	s.help = o
}

// AddOption registers an option and returns its destination name.
func (s *OptionSet) AddOption(spec OptionSpec) (string, error) {
	o, err := s.addOption(spec)
	if err != nil {
		return "", err
	}
	return o.dest, nil
}

// Group adds a named section to the usage text and returns a Registrar
// whose options are listed under it.
func (s *OptionSet) Group(name, description string) Registrar {
	g := &optionGroup{set: s, name: name, description: description}
	s.groups = append(s.groups, g)
	return g
}

func (s *OptionSet) addOption(spec OptionSpec) (*option, error) {
	if len(spec.Options) == 0 {
		return nil, fmt.Errorf("%w: no option strings given", ErrBadOption)
	}
	if spec.NArgs > 1 {
		return nil, fmt.Errorf("%w: %s: multi-operand options are not supported", ErrBadOption, strings.Join(spec.Options, "/"))
	}
	action := spec.Action.normalize()
	switch action {
	case ActionStore, ActionStoreTrue, ActionStoreFalse, ActionStoreConst, ActionAppend, ActionCount:
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrBadOption, string(spec.Action))
	}
	if action == ActionStoreConst && spec.Const == nil {
		return nil, fmt.Errorf("%w: %s: store_const requires a const value", ErrBadOption, strings.Join(spec.Options, "/"))
	}

	dest, err := buildDestName(spec.Options, spec.Dest)
	if err != nil {
		return nil, err
	}
	if _, taken := s.byDest[dest]; taken {
		return nil, fmt.Errorf("%w: destination %q already in use", ErrBadOption, dest)
	}

	var longs []string
	var short string
	for _, raw := range spec.Options {
		if strings.HasPrefix(raw, "--") {
			longs = append(longs, strings.TrimPrefix(raw, "--"))
			continue
		}
		if short != "" {
			return nil, fmt.Errorf("%w: %s: at most one short option per destination", ErrBadOption, strings.Join(spec.Options, "/"))
		}
		short = strings.TrimPrefix(raw, "-")
	}

	// pflag needs a long name on every flag, so a short-only option
	// registers its destination as the long alias.
	if len(longs) == 0 {
		longs = append(longs, strings.ReplaceAll(dest, "_", "-"))
	}
	for _, name := range longs {
		if s.fs.Lookup(name) != nil {
			return nil, fmt.Errorf("%w: option --%s already defined", ErrBadOption, name)
		}
	}
	if short != "" && s.fs.ShorthandLookup(short) != nil {
		return nil, fmt.Errorf("%w: option -%s already defined", ErrBadOption, short)
	}

	value := &optValue{hint: optionHint(spec, action, dest)}
	if spec.Default != nil {
		value.defText = fmt.Sprint(spec.Default)
	}

	primary := s.fs.VarPF(value, longs[0], short, spec.Help)
	switch action {
	case ActionStoreTrue, ActionStoreConst:
		primary.NoOptDefVal = "true"
	case ActionStoreFalse:
		primary.NoOptDefVal = "false"
	case ActionCount:
		primary.NoOptDefVal = "+1"
	}
	for _, name := range longs[1:] {
		alias := s.fs.VarPF(value, name, "", spec.Help)
		alias.NoOptDefVal = primary.NoOptDefVal
		alias.Hidden = true
	}

	o := &option{spec: spec, action: action, dest: dest, value: value, flag: primary}
	s.opts = append(s.opts, o)
	s.byDest[dest] = o
	return o, nil
}

// optionHint picks the placeholder shown next to the option in the
// usage text. "bool" and "count" are suppressed by pflag.
func optionHint(spec OptionSpec, action Action, dest string) string {
	if spec.Metavar != "" {
		return spec.Metavar
	}
	switch action {
	case ActionStoreTrue, ActionStoreFalse, ActionStoreConst:
		return "bool"
	case ActionCount:
		return "count"
	default:
		return strings.ToUpper(dest)
	}
}

// Parse applies args and resolves every registered destination. It
// returns ErrHelp after printing the usage text when help was
// requested, and ErrCLIParse-wrapped errors for anything malformed.
func (s *OptionSet) Parse(args []string) (*ParsedValues, error) {
	if err := s.fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("%w: %w", ErrCLIParse, err)
	}
	if s.help != nil && len(s.help.value.raws) > 0 {
		s.usage()
		return nil, ErrHelp
	}

	values := make(map[string]any, len(s.opts))
	for _, o := range s.opts {
		if o == s.help {
			continue
		}
		v, err := o.finalValue()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCLIParse, err)
		}
		values[o.dest] = v
	}
	return &ParsedValues{values: values, rest: s.fs.Args()}, nil
}

// finalValue resolves one destination from the recorded occurrences.
func (o *option) finalValue() (any, error) {
	raws := o.value.raws
	if len(raws) == 0 {
		if o.spec.Required {
			return nil, fmt.Errorf("option %s is required", o.displayName())
		}
		if o.spec.Default != nil {
			return o.spec.Default, nil
		}
		switch o.action {
		case ActionStoreTrue:
			return false, nil
		case ActionStoreFalse:
			return true, nil
		}
		return nil, nil
	}

	switch o.action {
	case ActionStoreTrue, ActionStoreFalse:
		b, err := strconv.ParseBool(raws[len(raws)-1])
		if err != nil {
			return nil, fmt.Errorf("option %s: invalid boolean %q", o.displayName(), raws[len(raws)-1])
		}
		return b, nil
	case ActionStoreConst:
		return o.spec.Const, nil
	case ActionCount:
		base := 0
		if d, ok := o.spec.Default.(int); ok {
			base = d
		}
		return base + len(raws), nil
	case ActionAppend:
		var out []any
		if prior, ok := o.spec.Default.([]any); ok {
			out = append(out, prior...)
		}
		for _, raw := range raws {
			v, err := o.convert(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		return o.convert(raws[len(raws)-1])
	}
}

// convert applies the declared type to one raw operand and enforces
// the choices, when given.
func (o *option) convert(raw string) (any, error) {
	var v any = raw
	if o.spec.Type != nil {
		cv, err := o.spec.Type(raw)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", o.displayName(), err)
		}
		v = cv
	}
	if len(o.spec.Choices) > 0 {
		ok := false
		for _, c := range o.spec.Choices {
			if reflect.DeepEqual(v, c) {
				ok = true
				break
			}
		}
		if !ok {
			return nil, fmt.Errorf("option %s: value %v is not one of %v", o.displayName(), v, o.spec.Choices)
		}
	}
	return v, nil
}

// usage writes the grouped help text.
func (s *OptionSet) usage() {
	fmt.Fprintf(s.out, "Usage: %s [options]\n", s.prog)
	if s.description != "" {
		fmt.Fprintf(s.out, "\n%s\n", s.description)
	}
	var loose []*option
	for _, o := range s.opts {
		if !o.grouped {
			loose = append(loose, o)
		}
	}
	if len(loose) > 0 {
		fmt.Fprintf(s.out, "\nOptions:\n%s", flagUsageBlock(loose))
	}
	for _, g := range s.groups {
		if len(g.opts) == 0 {
			continue
		}
		fmt.Fprintf(s.out, "\n%s:\n", g.name)
		if g.description != "" {
			fmt.Fprintf(s.out, "  %s\n\n", g.description)
		}
		fmt.Fprint(s.out, flagUsageBlock(g.opts))
	}
}

// flagUsageBlock renders the given options in registration order by
// staging their primary flags on a scratch flag set.
func flagUsageBlock(opts []*option) string {
	fs := pflag.NewFlagSet("", pflag.ContinueOnError)
	fs.SortFlags = false
	for _, o := range opts {
		fs.AddFlag(o.flag)
	}
	return fs.FlagUsages()
}

// ParsedValues is the result of OptionSet.Parse.
type ParsedValues struct {
	values map[string]any
	rest   []string
}

// Lookup reports the resolved value for a destination name.
func (p *ParsedValues) Lookup(dest string) (any, bool) {
	v, ok := p.values[dest]
	return v, ok
}

// Rest returns the positional arguments left after option parsing.
func (p *ParsedValues) Rest() []string { return p.rest }
