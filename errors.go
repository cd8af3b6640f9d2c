// FILE: fusedconf/errors.go
package fusedconf

import "errors"

// Sentinel errors returned by declaration, lookup and resolution operations.
// Callers should match with errors.Is; most are returned wrapped with the
// offending name or path.
var (
	// ErrKeyInUse indicates a name collision while registering an item or
	// subsection.
	ErrKeyInUse = errors.New("name already in use")

	// ErrNoEntry indicates a lookup of an unknown item or subsection, or an
	// attribute-style access to a hidden name.
	ErrNoEntry = errors.New("no such entry")

	// ErrEmptyHandler indicates a handler declared with no environment
	// binding, option binding, setter or getter.
	ErrEmptyHandler = errors.New("handler requires at least one binding")

	// ErrNameMismatch indicates a replacement whose name does not match the
	// slot it targets.
	ErrNameMismatch = errors.New("name mismatch")

	// ErrNotSection indicates an attempt to place a non-section value into a
	// subsection slot.
	ErrNotSection = errors.New("value is not a section")

	// ErrBadOption indicates invalid option strings or a conflicting option
	// registration.
	ErrBadOption = errors.New("invalid option declaration")

	// ErrCLIParse wraps command-line parse and post-parse validation
	// failures.
	ErrCLIParse = errors.New("CLI parsing error")

	// ErrBadFormat indicates an unknown interchange format name or content
	// that matches no known format.
	ErrBadFormat = errors.New("unknown config format")

	// ErrConfigNotFound indicates a referenced configuration file does not
	// exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrHelp is returned after the option parser has printed usage in
	// response to -h/--help. Callers typically exit cleanly on it.
	ErrHelp = errors.New("help requested")
)
