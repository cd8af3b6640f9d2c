// File: fusedconf/doc.go

// Package fusedconf provides a unified configuration definition and
// reference that fuses files (JSON, TOML, YAML), environment
// variables, and command-line options into one declared tree.
//
// Every configuration value is declared once, as an item in a tree of
// sections, together with its default and its optional bindings: an
// environment variable, command-line option strings, and read/write
// transforms. Resolution then applies the sources over the tree in a
// fixed precedence order.
//
// Features:
//   - One declaration drives files, environment, and command line
//   - Sections group items and become option groups in usage text
//   - Handlers attach extra bindings to an already-bound item
//   - JSON, TOML and YAML codecs with format detection
//   - Struct registration and extraction with tag support
//   - Builder pattern for easy initialization
//   - Hidden items kept out of serialized output
//
// Quick Start:
//
//	type Config struct {
//	    Server struct {
//	        Host string `json:"host" env:"MYAPP_HOST" arg:"--host"`
//	        Port int    `json:"port" arg:"-p,--port" help:"listen port"`
//	    } `json:"server"`
//	}
//
//	defaults := Config{}
//	defaults.Server.Host = "localhost"
//	defaults.Server.Port = 8080
//
//	cfg, err := fusedconf.Quick(defaults, "config.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	host, _ := cfg.String("server.host")
//	port, _ := cfg.Int64("server.port")
//
// Precedence (highest to lowest):
//  1. Command-line options (-p 9090)
//  2. Environment variables (MYAPP_HOST=example.org)
//  3. File named on the command line (--config-file app.json)
//  4. Base configuration files, first one that loads
//  5. Declared default values
//
// Explicit trees:
//
//	cfg := fusedconf.New()
//	cfg.AddItem("verbose", false, fusedconf.ItemOptions{
//	    ArgVar: []string{"-v", "--verbose"}, Action: fusedconf.ActionStoreTrue,
//	})
//	srv, _ := cfg.AddSection("server")
//	srv.AddItem("port", 8080, fusedconf.ItemOptions{ArgVar: []string{"-p"}, Type: fusedconf.Int})
//	err := cfg.Parse(fusedconf.ParseOptions{})
//
// Concurrency:
// Trees are plain data structures and are not safe for concurrent
// mutation. Resolve first, then share for reading.
package fusedconf
