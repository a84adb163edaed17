package logutil

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, log.DebugLevel, ParseLevel(" DEBUG "))
	require.Equal(t, log.WarnLevel, ParseLevel("warn"))
	require.Equal(t, log.InfoLevel, ParseLevel("loud"))
	require.Equal(t, log.InfoLevel, ParseLevel(""))
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.WarnLevel)
	l.Info("hidden")
	l.Warn("shown", "path", "mods/a")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "shown")
	require.Contains(t, out, "vram")
	require.Contains(t, out, "path=mods/a")
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	l := New(&bytes.Buffer{}, log.ErrorLevel)
	SetDefault(l)
	require.Same(t, l, Default())
}
