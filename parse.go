// FILE: fusedconf/parse.go
package fusedconf

import "os"

// defaultFileFlag is the option registered by Parse for naming an
// explicit configuration file.
var defaultFileFlag = []string{"--config-file"}

// ParseOptions steers Section.Parse. The zero value reads os.Args and
// the process environment, registers a --config-file option, and loads
// no base files.
type ParseOptions struct {
	// BaseFiles are candidate configuration files applied before any
	// other source. The first candidate that loads cleanly wins and
	// the rest are skipped; candidates that are missing or fail to
	// parse are passed over silently.
	BaseFiles []string
	// SkipEnv disables the environment variable pass.
	SkipEnv bool
	// SkipOptArgs disables command-line parsing entirely, including
	// the config file option.
	SkipOptArgs bool
	// FileFlag overrides the option strings of the config file option.
	FileFlag []string
	// DisableFileFlag drops the config file option.
	DisableFileFlag bool
	// Args are the command-line arguments to parse, os.Args[1:] when
	// nil.
	Args []string
	// Environ supplies environment variables, the process environment
	// when nil.
	Environ Environ
	// Prog names the program in usage text, the running binary when
	// empty.
	Prog string
}

// Parse resolves the tree from every configured source, lowest
// precedence first: base files, then the file named on the command
// line, then environment variables, then command-line options. Unlike
// base files, a file named on the command line must load cleanly.
//
// ErrHelp is returned after the usage text has been printed when help
// was requested; nothing else is applied in that case.
func (s *Section) Parse(opts ParseOptions) error {
	for _, path := range opts.BaseFiles {
		if err := s.LoadFile(path); err == nil {
			break
		}
	}

	var parsed *ParsedValues
	if !opts.SkipOptArgs {
		prog := opts.Prog
		if prog == "" {
			prog = defaultProg()
		}
		set := NewOptionSet(prog, s.description)
		if _, err := s.ToOptArgs(set); err != nil {
			return err
		}

		var fileDest string
		if !opts.DisableFileFlag {
			flags := opts.FileFlag
			if len(flags) == 0 {
				flags = defaultFileFlag
			}
			dest, err := set.AddOption(OptionSpec{
				Options: flags,
				Help:    "path to configuration file",
			})
			if err != nil {
				return err
			}
			fileDest = dest
		}

		args := opts.Args
		if args == nil {
			args = os.Args[1:]
		}
		p, err := set.Parse(args)
		if err != nil {
			return err
		}
		parsed = p

		if fileDest != "" {
			if v, _ := parsed.Lookup(fileDest); v != nil {
				if path, ok := v.(string); ok {
					if err := s.LoadFile(path); err != nil {
						return err
					}
				}
			}
		}
	}

	if !opts.SkipEnv {
		if err := s.FromEnv(opts.Environ); err != nil {
			return err
		}
	}

	// Command-line values go last so they win over files and the
	// environment. Skipping the command-line pass skips this too.
	if parsed != nil {
		s.FromOptArgs(parsed)
	}

	return nil
}
