// File: fusedconf/builder.go
package fusedconf

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ValidatorFunc defines the signature for a function that can validate
// a resolved tree. It receives the fully loaded *Section and should
// return an error if validation fails.
type ValidatorFunc func(s *Section) error

// Builder provides a fluent interface for declaring and resolving a
// configuration tree.
type Builder struct {
	opts       Options
	parse      ParseOptions
	defaults   any
	setups     []func(*Section) error
	validators []ValidatorFunc
	err        error
}

// NewBuilder creates a new configuration builder
func NewBuilder() *Builder {
	return &Builder{
		validators: make([]ValidatorFunc, 0),
	}
}

// WithDescription sets the description shown at the top of usage text.
func (b *Builder) WithDescription(description string) *Builder {
	b.opts.Description = description
	return b
}

// WithFormat selects the file codec: "json", "toml" or "yaml".
func (b *Builder) WithFormat(format string) *Builder {
	b.opts.Format = format
	return b
}

// WithWarnWriter redirects registration and assignment warnings.
func (b *Builder) WithWarnWriter(w io.Writer) *Builder {
	b.opts.WarnWriter = w
	return b
}

// WithDefaults sets the struct whose fields declare the tree.
func (b *Builder) WithDefaults(defaults any) *Builder {
	b.defaults = defaults
	return b
}

// WithSetup adds a declaration hook that runs against the tree before
// any source applies, for items the defaults struct cannot express,
// handlers in particular. Hooks run in the order added.
func (b *Builder) WithSetup(fn func(*Section) error) *Builder {
	if fn != nil {
		b.setups = append(b.setups, fn)
	}
	return b
}

// WithBaseFiles sets the base file candidates, first clean load wins.
func (b *Builder) WithBaseFiles(paths ...string) *Builder {
	b.parse.BaseFiles = paths
	return b
}

// WithFileDiscovery appends discovered candidates to the base files.
func (b *Builder) WithFileDiscovery(opts DiscoveryOptions) *Builder {
	b.parse.BaseFiles = append(b.parse.BaseFiles, DiscoverFiles(opts)...)
	return b
}

// WithArgs sets the command-line arguments, os.Args[1:] by default.
func (b *Builder) WithArgs(args []string) *Builder {
	b.parse.Args = args
	return b
}

// WithEnviron sets the environment source, the process environment by
// default.
func (b *Builder) WithEnviron(env Environ) *Builder {
	b.parse.Environ = env
	return b
}

// WithFileFlag overrides the option strings naming an explicit
// configuration file, --config-file by default.
func (b *Builder) WithFileFlag(options ...string) *Builder {
	b.parse.FileFlag = options
	return b
}

// WithoutFileFlag drops the config file option.
func (b *Builder) WithoutFileFlag() *Builder {
	b.parse.DisableFileFlag = true
	return b
}

// WithoutEnv skips the environment variable pass.
func (b *Builder) WithoutEnv() *Builder {
	b.parse.SkipEnv = true
	return b
}

// WithoutOptArgs skips command-line parsing entirely.
func (b *Builder) WithoutOptArgs() *Builder {
	b.parse.SkipOptArgs = true
	return b
}

// WithProg names the program in usage text.
func (b *Builder) WithProg(prog string) *Builder {
	b.parse.Prog = prog
	return b
}

// WithValidator adds a validation function that runs at the end of the
// build process. Multiple validators can be added and are executed in
// the order they are added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build declares the tree, resolves it from all configured sources,
// and runs the validators.
func (b *Builder) Build() (*Section, error) {
	if b.err != nil {
		return nil, b.err
	}

	s, err := NewWithOptions(b.opts)
	if err != nil {
		return nil, err
	}

	if b.defaults != nil {
		if err := s.AddStruct(b.defaults); err != nil {
			return nil, fmt.Errorf("failed to register defaults: %w", err)
		}
	}

	for _, setup := range b.setups {
		if err := setup(s); err != nil {
			return nil, fmt.Errorf("configuration setup failed: %w", err)
		}
	}

	if err := s.Parse(b.parse); err != nil {
		return nil, err
	}

	for _, validator := range b.validators {
		if err := validator(s); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return s, nil
}

// MustBuild is like Build but panics on error. A help request exits
// the process after the usage text has been printed.
func (b *Builder) MustBuild() *Section {
	s, err := b.Build()
	if err != nil {
		if errors.Is(err, ErrHelp) {
			os.Exit(0)
		}
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return s
}

// BuildAndScan builds and decodes the final configuration into the
// provided target struct pointer.
func (b *Builder) BuildAndScan(target any) error {
	s, err := b.Build()
	if err != nil {
		return err
	}

	if err := s.Scan(target); err != nil {
		return fmt.Errorf("failed to scan final config into target: %w", err)
	}

	return nil
}
