// File: fusedconf/struct_test.go
package fusedconf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type structDefaults struct {
	Host    string        `json:"host" env:"APP_HOST"`
	Port    int           `json:"port" arg:"-p,--port" help:"listen port"`
	Debug   bool          `json:"debug" arg:"--debug"`
	Timeout time.Duration `json:"timeout" env:"APP_TIMEOUT"`
	Token   string        `json:"token" hidden:"true"`
	Skipped string        `json:"-"`
	Started time.Time     `json:"started"`

	Server struct {
		Addr     string `json:"addr"`
		MaxConns int    `json:"max_conns"`
	} `json:"server" help:"server options"`

	internal string
}

func newStructDefaults() *structDefaults {
	d := &structDefaults{
		Host:    "localhost",
		Port:    8080,
		Timeout: 30 * time.Second,
		Token:   "sekrit",
		Started: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	d.Server.Addr = "0.0.0.0"
	d.Server.MaxConns = 100
	return d
}

// TestAddStructRegistration tests field-to-tree mapping
func TestAddStructRegistration(t *testing.T) {
	s := New()
	require.NoError(t, s.AddStruct(newStructDefaults()))

	t.Run("TaggedNamesAndDefaults", func(t *testing.T) {
		v, err := s.Get("host")
		require.NoError(t, err)
		assert.Equal(t, "localhost", v)

		v, err = s.Lookup("server.addr")
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0", v)
	})

	t.Run("NestedStructBecomesSection", func(t *testing.T) {
		sub, err := s.Sub("server")
		require.NoError(t, err)
		assert.Equal(t, "server options", sub.Description())
	})

	t.Run("TimeStaysLeaf", func(t *testing.T) {
		_, ok := s.Entry("started")
		assert.True(t, ok)
		_, ok = s.Subsection("started")
		assert.False(t, ok)
	})

	t.Run("HiddenTag", func(t *testing.T) {
		e, ok := s.Entry("token")
		require.True(t, ok)
		assert.True(t, e.Hidden())
		assert.NotContains(t, s.ToDict(), "token")
	})

	t.Run("SkippedFields", func(t *testing.T) {
		assert.False(t, s.Contains("Skipped"))
		assert.False(t, s.Contains("internal"))
	})

	t.Run("UntaggedFieldKeepsItsName", func(t *testing.T) {
		s2 := New()
		require.NoError(t, s2.AddStruct(struct{ Plain int }{Plain: 5}))
		v, err := s2.Get("Plain")
		require.NoError(t, err)
		assert.Equal(t, 5, v)
	})
}

// TestAddStructBindings tests env and option bindings from tags
func TestAddStructBindings(t *testing.T) {
	t.Run("EnvWithTypedConversion", func(t *testing.T) {
		s := New()
		require.NoError(t, s.AddStruct(newStructDefaults()))

		require.NoError(t, s.FromEnv(MapEnv{
			"APP_HOST":    "envhost",
			"APP_TIMEOUT": "250ms",
		}))

		v, _ := s.Get("host")
		assert.Equal(t, "envhost", v)
		v, _ = s.Get("timeout")
		assert.Equal(t, 250*time.Millisecond, v)
	})

	t.Run("OptionBinding", func(t *testing.T) {
		s := New()
		require.NoError(t, s.AddStruct(newStructDefaults()))

		require.NoError(t, s.Parse(ParseOptions{
			Args:    []string{"-p", "9090"},
			Environ: MapEnv{},
		}))
		v, _ := s.Get("port")
		assert.Equal(t, 9090, v)
	})

	t.Run("BoolFieldBecomesPresenceFlag", func(t *testing.T) {
		s := New()
		require.NoError(t, s.AddStruct(newStructDefaults()))

		require.NoError(t, s.Parse(ParseOptions{
			Args:    []string{"--debug"},
			Environ: MapEnv{},
		}))
		v, _ := s.Get("debug")
		assert.Equal(t, true, v)
	})

	t.Run("HelpTagInUsage", func(t *testing.T) {
		s := New()
		require.NoError(t, s.AddStruct(newStructDefaults()))

		set := NewOptionSet("prog", "")
		_, err := s.ToOptArgs(set)
		require.NoError(t, err)

		var buf bytes.Buffer
		set.SetOutput(&buf)
		_, err = set.Parse([]string{"-h"})
		require.ErrorIs(t, err, ErrHelp)
		assert.Contains(t, buf.String(), "listen port")
	})
}

// TestAddStructShapes tests accepted and rejected input shapes
func TestAddStructShapes(t *testing.T) {
	t.Run("PointerToStruct", func(t *testing.T) {
		s := New()
		assert.NoError(t, s.AddStruct(&struct {
			N int `json:"n"`
		}{N: 1}))
		v, _ := s.Get("n")
		assert.Equal(t, 1, v)
	})

	t.Run("PlainStructValue", func(t *testing.T) {
		s := New()
		assert.NoError(t, s.AddStruct(struct {
			N int `json:"n"`
		}{N: 2}))
		v, _ := s.Get("n")
		assert.Equal(t, 2, v)
	})

	t.Run("NilPointerRejected", func(t *testing.T) {
		s := New()
		var d *structDefaults
		err := s.AddStruct(d)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-nil struct pointer")
	})

	t.Run("NonStructRejected", func(t *testing.T) {
		s := New()
		err := s.AddStruct(42)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires a struct")
	})

	t.Run("NilNestedPointerSkipped", func(t *testing.T) {
		type outer struct {
			Inner *struct {
				X int `json:"x"`
			} `json:"inner"`
		}
		s := New()
		require.NoError(t, s.AddStruct(outer{}))
		assert.False(t, s.Contains("inner"))
	})

	t.Run("CollisionsAccumulate", func(t *testing.T) {
		type clash struct {
			A int `json:"same"`
			B int `json:"same"`
		}
		s := New()
		err := s.AddStruct(clash{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to register 1 field(s)")
	})
}

// TestAddStructScanRoundTrip tests defaults surviving a scan back out
func TestAddStructScanRoundTrip(t *testing.T) {
	defaults := newStructDefaults()

	s := New()
	require.NoError(t, s.AddStruct(defaults))

	var out structDefaults
	require.NoError(t, s.Scan(&out))

	assert.Equal(t, defaults.Host, out.Host)
	assert.Equal(t, defaults.Port, out.Port)
	assert.Equal(t, defaults.Timeout, out.Timeout)
	assert.Equal(t, defaults.Token, out.Token)
	assert.True(t, defaults.Started.Equal(out.Started))
	assert.Equal(t, defaults.Server, out.Server)
}
