// File: fusedconf/env.go
package fusedconf

import "os"

// Environ abstracts the environment variables visible to resolution.
// The resolver defaults to the real process environment; tests and embedders
// can inject a fixed mapping instead.
type Environ interface {
	// Lookup retrieves the value of the named variable, reporting whether it
	// is present. Present-but-empty is distinct from absent.
	Lookup(key string) (string, bool)
}

// SystemEnv returns an Environ backed by the process environment.
func SystemEnv() Environ {
	return systemEnv{}
}

type systemEnv struct{}

func (systemEnv) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnv is a fixed in-memory Environ, mainly for tests.
type MapEnv map[string]string

func (m MapEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
