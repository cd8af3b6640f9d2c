// FILE: fusedconf/cmd/main.go
// Demo application bootstrap: declares defaults with a tagged struct,
// resolves them from discovered files, environment variables and the
// command line, and writes a starter file on first run.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"fusedconf"
)

type AppConfig struct {
	Server struct {
		Host string `json:"host" arg:"--host" help:"bind address"`
		Port int    `json:"port" env:"MYAPP_PORT" arg:"-p,--port" help:"listen port"`
	} `json:"server" help:"server options"`

	Database struct {
		URL         string        `json:"url" env:"MYAPP_DATABASE_URL"`
		MaxConns    int           `json:"max_conns"`
		IdleTimeout time.Duration `json:"idle_timeout"`
	} `json:"database"`

	Debug bool `json:"debug" arg:"--debug" help:"verbose output"`
}

const configPath = "config.json"

func main() {
	defaults := &AppConfig{}
	defaults.Server.Host = "localhost"
	defaults.Server.Port = 8080
	defaults.Database.MaxConns = 10
	defaults.Database.IdleTimeout = 30 * time.Second

	cfg, err := fusedconf.NewBuilder().
		WithDescription("fusedconf demo server").
		WithDefaults(defaults).
		WithBaseFiles(configPath).
		WithFileDiscovery(fusedconf.DefaultDiscoveryOptions("myapp")).
		WithProg("myapp").
		Build()
	if err != nil {
		if errors.Is(err, fusedconf.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("failed to load config: %v", err)
	}

	// Write a starter file on first run.
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := cfg.SaveFile(configPath); err != nil {
			log.Fatalf("failed to save default config: %v", err)
		}
		log.Printf("created default config at %s", configPath)
	}

	if err := cfg.Validate("server.host", "server.port"); err != nil {
		log.Fatal(err)
	}

	var app AppConfig
	if err := cfg.Scan(&app); err != nil {
		log.Fatalf("failed to decode config: %v", err)
	}

	fmt.Println("running with configuration:")
	fmt.Printf("  server:   %s:%d\n", app.Server.Host, app.Server.Port)
	fmt.Printf("  database: %q (max_conns=%d, idle_timeout=%s)\n",
		app.Database.URL, app.Database.MaxConns, app.Database.IdleTimeout)
	fmt.Printf("  debug:    %v\n", app.Debug)

	if app.Debug {
		fmt.Print(cfg.Debug())
	}
}
