// FILE: fusedconf/convenience_test.go
package fusedconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestQuickFunctions tests the one-call initializers
func TestQuickFunctions(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "quick.json")
	require.NoError(t, os.WriteFile(configFile, []byte(`{"host": "quickhost", "port": 7777}`), 0644))

	type QuickConfig struct {
		Host string `json:"host" env:"QUICK_HOST"`
		Port int    `json:"port" arg:"--port"`
		SSL  bool   `json:"ssl"`
	}

	defaults := &QuickConfig{
		Host: "localhost",
		Port: 8080,
	}

	t.Run("Quick", func(t *testing.T) {
		// Mock os.Args
		oldArgs := os.Args
		os.Args = []string{"cmd", "--port=9999"}
		defer func() { os.Args = oldArgs }()

		s, err := Quick(defaults, configFile)
		require.NoError(t, err)

		// CLI should override
		port, _ := s.Get("port")
		assert.Equal(t, 9999, port)

		// File value
		host, _ := s.Get("host")
		assert.Equal(t, "quickhost", host)

		// Untouched default
		ssl, _ := s.Get("ssl")
		assert.Equal(t, false, ssl)
	})

	t.Run("QuickWithoutFiles", func(t *testing.T) {
		oldArgs := os.Args
		os.Args = []string{"cmd"}
		defer func() { os.Args = oldArgs }()

		s, err := Quick(defaults)
		require.NoError(t, err)

		host, _ := s.Get("host")
		assert.Equal(t, "localhost", host)
	})

	t.Run("MustQuickPanic", func(t *testing.T) {
		oldArgs := os.Args
		os.Args = []string{"cmd"}
		defer func() { os.Args = oldArgs }()

		// Valid case - should not panic
		assert.NotPanics(t, func() {
			s := MustQuick(defaults, configFile)
			assert.NotNil(t, s)
		})

		// Invalid defaults - should panic
		assert.Panics(t, func() {
			MustQuick("not-a-struct", configFile)
		})
	})
}

// TestValidation tests required-value checking
func TestValidation(t *testing.T) {
	s := New()
	_, err := s.AddItem("host", "localhost")
	require.NoError(t, err)
	_, err = s.AddItem("port", nil)
	require.NoError(t, err)
	db, err := s.AddSection("db")
	require.NoError(t, err)
	_, err = db.AddItem("dsn", nil)
	require.NoError(t, err)

	t.Run("ValidationFails", func(t *testing.T) {
		err := s.Validate("host", "port", "db.dsn")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing required configuration")
		assert.Contains(t, err.Error(), "port")
		assert.Contains(t, err.Error(), "db.dsn")
		assert.NotContains(t, err.Error(), "host")
	})

	t.Run("ValidationPasses", func(t *testing.T) {
		s.Set(map[string]any{"port": 8080})
		db.Set(map[string]any{"dsn": "postgres://localhost"})

		assert.NoError(t, s.Validate("host", "port", "db.dsn"))
	})

	t.Run("ValidationUnregisteredPath", func(t *testing.T) {
		err := s.Validate("nonexistent.path")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nonexistent.path (not registered)")
	})
}

// TestDebugAndDump tests debug output functions
func TestDebugAndDump(t *testing.T) {
	s, err := NewWithOptions(Options{Format: "toml"})
	require.NoError(t, err)

	_, err = s.AddItem("host", "localhost", ItemOptions{EnvVar: "APP_HOST"})
	require.NoError(t, err)
	port, err := s.AddItem("port", nil, ItemOptions{ArgVar: []string{"-p", "--port"}})
	require.NoError(t, err)
	_, err = s.AddItem("token", "x", ItemOptions{Hidden: true})
	require.NoError(t, err)
	db, err := s.AddSection("db")
	require.NoError(t, err)
	_, err = db.AddItem("dsn", "postgres://localhost")
	require.NoError(t, err)

	// Second option binding lands on a forwarding handler.
	_, err = port.AddHandler(ItemOptions{ArgVar: []string{"--listen-port"}})
	require.NoError(t, err)

	t.Run("Debug", func(t *testing.T) {
		debug := s.Debug()

		assert.Contains(t, debug, "Configuration Debug Info:")
		assert.Contains(t, debug, "Format: toml")
		assert.Contains(t, debug, `host = "localhost"`)
		assert.Contains(t, debug, "[env APP_HOST]")
		assert.Contains(t, debug, "port = <unset>")
		assert.Contains(t, debug, "[arg -p/--port]")
		assert.Contains(t, debug, `token = "x" (hidden)`)
		assert.Contains(t, debug, "-> port (handler)")
		assert.Contains(t, debug, "[arg --listen-port]")
		assert.Contains(t, debug, "db:")
		assert.Contains(t, debug, `dsn = "postgres://localhost"`)
	})

	t.Run("Dump", func(t *testing.T) {
		// TOML cannot encode the still-unset port.
		port.Set(8080)

		// Capture stdout
		oldStdout := os.Stdout
		r, w, _ := os.Pipe()
		os.Stdout = w

		err := s.Dump()
		assert.NoError(t, err)

		w.Close()
		os.Stdout = oldStdout

		// Read output
		output := make([]byte, 1024)
		n, _ := r.Read(output)
		outputStr := string(output[:n])

		assert.Contains(t, outputStr, `host = "localhost"`)
		assert.Contains(t, outputStr, "[db]")
		assert.Contains(t, outputStr, `dsn = "postgres://localhost"`)
		assert.NotContains(t, outputStr, "token")
	})
}
