// FILE: fusedconf/discovery.go
package fusedconf

import (
	"os"
	"path/filepath"
	"strings"
)

// DiscoveryOptions configures automatic base file discovery.
type DiscoveryOptions struct {
	// Name is the file base name, without extension.
	Name string

	// Extensions to probe, in precedence order.
	Extensions []string

	// Paths are extra directories searched before the defaults.
	Paths []string

	// EnvVar names an environment variable holding an explicit path.
	EnvVar string

	// UseXDG searches the XDG config directories.
	UseXDG bool

	// UseCurrentDir searches the working directory.
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns discovery settings for appName:
// json, toml and yaml files named after the app, an APPNAME_CONFIG
// override variable, the working directory and the XDG locations.
func DefaultDiscoveryOptions(appName string) DiscoveryOptions {
	return DiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".json", ".toml", ".yaml"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// DiscoverFiles returns candidate configuration files in precedence
// order, ready for ParseOptions.BaseFiles: an explicit path from the
// environment variable first, then matches from custom paths, the
// working directory, and XDG directories. Finding nothing is not an
// error; the application can run on defaults.
func DiscoverFiles(opts DiscoveryOptions) []string {
	var found []string

	if opts.EnvVar != "" {
		if p := os.Getenv(opts.EnvVar); p != "" {
			// Listed even when the file is absent; Parse skips
			// candidates that fail to load.
			found = append(found, p)
		}
	}

	dirs := append([]string{}, opts.Paths...)
	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			dirs = append(dirs, cwd)
		}
	}
	if opts.UseXDG {
		dirs = append(dirs, xdgConfigDirs(opts.Name)...)
	}

	for _, dir := range dirs {
		for _, ext := range opts.Extensions {
			candidate := filepath.Join(dir, opts.Name+ext)
			if _, err := os.Stat(candidate); err == nil {
				found = append(found, candidate)
			}
		}
	}
	return found
}

// xdgConfigDirs lists the XDG locations for appName: XDG_CONFIG_HOME
// (falling back to ~/.config), then XDG_CONFIG_DIRS (falling back to
// the /etc defaults).
func xdgConfigDirs(appName string) []string {
	var dirs []string

	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		dirs = append(dirs, filepath.Join(home, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		dirs = append(dirs, filepath.Join(home, ".config", appName))
	}

	if sys := os.Getenv("XDG_CONFIG_DIRS"); sys != "" {
		for _, d := range filepath.SplitList(sys) {
			dirs = append(dirs, filepath.Join(d, appName))
		}
		return dirs
	}
	return append(dirs,
		filepath.Join("/etc/xdg", appName),
		filepath.Join("/etc", appName),
	)
}
