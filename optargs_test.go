// FILE: fusedconf/optargs_test.go
package fusedconf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOptionRegistration tests declaration validation
func TestOptionRegistration(t *testing.T) {
	t.Run("DestinationReturned", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		dest, err := set.AddOption(OptionSpec{Options: []string{"-n", "--num"}})
		require.NoError(t, err)
		assert.Equal(t, "num", dest)
	})

	tests := []struct {
		name string
		spec OptionSpec
	}{
		{"NoOptionStrings", OptionSpec{}},
		{"MultiOperand", OptionSpec{Options: []string{"--pair"}, NArgs: 2}},
		{"UnknownAction", OptionSpec{Options: []string{"--x"}, Action: "explode"}},
		{"ConstRequiredForStoreConst", OptionSpec{Options: []string{"--x"}, Action: ActionStoreConst}},
		{"TwoShortOptions", OptionSpec{Options: []string{"-a", "-b"}}},
		{"MalformedOptionString", OptionSpec{Options: []string{"num"}}},
		{"HelpShorthandTaken", OptionSpec{Options: []string{"-h", "--hint"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewOptionSet("prog", "")
			_, err := set.AddOption(tt.spec)
			assert.ErrorIs(t, err, ErrBadOption)
		})
	}

	t.Run("DuplicateDestination", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		_, err := set.AddOption(OptionSpec{Options: []string{"--num"}})
		require.NoError(t, err)
		_, err = set.AddOption(OptionSpec{Options: []string{"-n"}, Dest: "num"})
		assert.ErrorIs(t, err, ErrBadOption)
	})

	t.Run("DuplicateLongOption", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		_, err := set.AddOption(OptionSpec{Options: []string{"--num"}})
		require.NoError(t, err)
		_, err = set.AddOption(OptionSpec{Options: []string{"--num"}, Dest: "other"})
		assert.ErrorIs(t, err, ErrBadOption)
	})
}

// TestOptionActions tests value resolution per action
func TestOptionActions(t *testing.T) {
	t.Run("StoreLastOccurrence", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		_, err := set.AddOption(OptionSpec{Options: []string{"-n", "--num"}, Type: Int})
		require.NoError(t, err)

		parsed, err := set.Parse([]string{"-n", "3", "--num=5"})
		require.NoError(t, err)
		v, ok := parsed.Lookup("num")
		require.True(t, ok)
		assert.Equal(t, 5, v)
	})

	t.Run("StoreWithoutTypeKeepsString", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"--name"}})

		parsed, err := set.Parse([]string{"--name", "demo"})
		require.NoError(t, err)
		v, _ := parsed.Lookup("name")
		assert.Equal(t, "demo", v)
	})

	t.Run("AbsentOptionResolvesNil", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"--name"}})

		parsed, err := set.Parse(nil)
		require.NoError(t, err)
		// Every destination is present in the result.
		v, ok := parsed.Lookup("name")
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("AbsentOptionResolvesDefault", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"--name"}, Default: "anon"})

		parsed, err := set.Parse(nil)
		require.NoError(t, err)
		v, _ := parsed.Lookup("name")
		assert.Equal(t, "anon", v)
	})

	t.Run("StoreTrue", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"-b", "--bar"}, Action: ActionStoreTrue})

		parsed, err := set.Parse([]string{"-b"})
		require.NoError(t, err)
		v, _ := parsed.Lookup("bar")
		assert.Equal(t, true, v)
	})

	t.Run("StoreTrueAbsentIsFalse", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"--bar"}, Action: ActionStoreTrue})

		parsed, err := set.Parse(nil)
		require.NoError(t, err)
		v, _ := parsed.Lookup("bar")
		assert.Equal(t, false, v)
	})

	t.Run("StoreTrueExplicitFalse", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"--bar"}, Action: ActionStoreTrue})

		parsed, err := set.Parse([]string{"--bar=false"})
		require.NoError(t, err)
		v, _ := parsed.Lookup("bar")
		assert.Equal(t, false, v)
	})

	t.Run("StoreTrueRejectsGarbage", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"--bar"}, Action: ActionStoreTrue})

		_, err := set.Parse([]string{"--bar=maybe"})
		assert.ErrorIs(t, err, ErrCLIParse)
	})

	t.Run("StoreFalse", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"--no-color"}, Action: ActionStoreFalse})

		parsed, err := set.Parse([]string{"--no-color"})
		require.NoError(t, err)
		v, _ := parsed.Lookup("no_color")
		assert.Equal(t, false, v)

		set = NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"--no-color"}, Action: ActionStoreFalse})
		parsed, err = set.Parse(nil)
		require.NoError(t, err)
		v, _ = parsed.Lookup("no_color")
		assert.Equal(t, true, v)
	})

	t.Run("StoreConst", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"--fast"}, Action: ActionStoreConst, Const: "turbo"})

		parsed, err := set.Parse([]string{"--fast"})
		require.NoError(t, err)
		v, _ := parsed.Lookup("fast")
		assert.Equal(t, "turbo", v)
	})

	t.Run("AppendCollectsOccurrences", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"-t", "--tag"}, Action: ActionAppend})

		parsed, err := set.Parse([]string{"-t", "a", "--tag", "b"})
		require.NoError(t, err)
		v, _ := parsed.Lookup("tag")
		assert.Equal(t, []any{"a", "b"}, v)
	})

	t.Run("AppendExtendsDefault", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"--tag"}, Action: ActionAppend, Default: []any{"z"}})

		parsed, err := set.Parse([]string{"--tag", "a"})
		require.NoError(t, err)
		v, _ := parsed.Lookup("tag")
		assert.Equal(t, []any{"z", "a"}, v)
	})

	t.Run("CountOccurrences", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"-v", "--verbose"}, Action: ActionCount})

		parsed, err := set.Parse([]string{"-v", "-v", "--verbose"})
		require.NoError(t, err)
		v, _ := parsed.Lookup("verbose")
		assert.Equal(t, 3, v)
	})

	t.Run("RequiredOptionMissing", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"--token"}, Required: true})

		_, err := set.Parse(nil)
		require.ErrorIs(t, err, ErrCLIParse)
		assert.Contains(t, err.Error(), "is required")
	})

	t.Run("ChoicesEnforcedAfterConversion", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"--level"}, Type: Int, Choices: []any{1, 2, 3}})

		parsed, err := set.Parse([]string{"--level", "2"})
		require.NoError(t, err)
		v, _ := parsed.Lookup("level")
		assert.Equal(t, 2, v)

		set = NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"--level"}, Type: Int, Choices: []any{1, 2, 3}})
		_, err = set.Parse([]string{"--level", "9"})
		require.ErrorIs(t, err, ErrCLIParse)
		assert.Contains(t, err.Error(), "not one of")
	})

	t.Run("AliasLongOptionsShareDestination", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		dest, err := set.AddOption(OptionSpec{Options: []string{"--str", "--string"}})
		require.NoError(t, err)
		assert.Equal(t, "str", dest)

		parsed, err := set.Parse([]string{"--string", "x"})
		require.NoError(t, err)
		v, _ := parsed.Lookup("str")
		assert.Equal(t, "x", v)
	})

	t.Run("ShortOnlyOptionParses", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		dest, err := set.AddOption(OptionSpec{Options: []string{"-x"}, Type: Int})
		require.NoError(t, err)
		assert.Equal(t, "x", dest)

		parsed, err := set.Parse([]string{"-x", "7"})
		require.NoError(t, err)
		v, _ := parsed.Lookup("x")
		assert.Equal(t, 7, v)
	})
}

// TestParseBehavior tests help, failures and leftover arguments
func TestParseBehavior(t *testing.T) {
	t.Run("HelpShortCircuits", func(t *testing.T) {
		var buf bytes.Buffer
		set := NewOptionSet("prog", "demo program")
		set.SetOutput(&buf)
		set.AddOption(OptionSpec{Options: []string{"-n", "--num"}, Help: "number of times"})

		_, err := set.Parse([]string{"-h"})
		require.ErrorIs(t, err, ErrHelp)

		out := buf.String()
		assert.Contains(t, out, "Usage: prog [options]")
		assert.Contains(t, out, "demo program")
		assert.Contains(t, out, "show this help message and exit")
		assert.Contains(t, out, "number of times")
	})

	t.Run("LongHelp", func(t *testing.T) {
		var buf bytes.Buffer
		set := NewOptionSet("prog", "")
		set.SetOutput(&buf)

		_, err := set.Parse([]string{"--help"})
		assert.ErrorIs(t, err, ErrHelp)
	})

	t.Run("UnknownOptionFails", func(t *testing.T) {
		var buf bytes.Buffer
		set := NewOptionSet("prog", "")
		set.SetOutput(&buf)

		_, err := set.Parse([]string{"--ghost"})
		assert.ErrorIs(t, err, ErrCLIParse)
	})

	t.Run("RestArgsPreserved", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		set.AddOption(OptionSpec{Options: []string{"-n"}, Type: Int})

		parsed, err := set.Parse([]string{"-n", "3", "input.txt", "output.txt"})
		require.NoError(t, err)
		assert.Equal(t, []string{"input.txt", "output.txt"}, parsed.Rest())
	})
}

// TestOptionGroups tests grouped usage rendering
func TestOptionGroups(t *testing.T) {
	t.Run("GroupedUsageText", func(t *testing.T) {
		var buf bytes.Buffer
		set := NewOptionSet("prog", "demo")
		set.SetOutput(&buf)
		set.AddOption(OptionSpec{Options: []string{"--top"}, Help: "an ungrouped option"})

		g := set.Group("Server", "server options")
		_, err := g.AddOption(OptionSpec{Options: []string{"--port"}, Help: "listen port"})
		require.NoError(t, err)

		_, err = set.Parse([]string{"-h"})
		require.ErrorIs(t, err, ErrHelp)

		out := buf.String()
		assert.Contains(t, out, "Options:")
		assert.Contains(t, out, "--top")
		assert.Contains(t, out, "Server:")
		assert.Contains(t, out, "server options")
		assert.Contains(t, out, "listen port")
	})

	t.Run("GroupsDoNotNest", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		g := set.Group("Server", "")
		assert.Same(t, g, g.Group("Deeper", ""))
	})

	t.Run("GroupedOptionsParseNormally", func(t *testing.T) {
		set := NewOptionSet("prog", "")
		g := set.Group("Server", "")
		dest, err := g.AddOption(OptionSpec{Options: []string{"--port"}, Type: Int})
		require.NoError(t, err)
		assert.Equal(t, "port", dest)

		parsed, err := set.Parse([]string{"--port", "8080"})
		require.NoError(t, err)
		v, _ := parsed.Lookup("port")
		assert.Equal(t, 8080, v)
	})
}
