package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"KASSIM", "KASSIM"},
		{`A/B\C:D*E?F"G<H>I|J`, "A B C D E F G H I J"},
		{"  spaced   out  ", "spaced out"},
		{"", ""},
		{`///`, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeFilename(tt.in), "SafeFilename(%q)", tt.in)
	}
}

func TestSafeFilenameCapsLength(t *testing.T) {
	long := strings.Repeat("A", 400)
	got := SafeFilename(long)
	assert.LessOrEqual(t, len(got), 180)
	assert.NotEmpty(t, got)
}

func TestRunDir(t *testing.T) {
	base := t.TempDir()
	stamp := time.Date(2026, time.January, 15, 9, 30, 0, 0, time.UTC)

	dir, err := RunDir(base, "IC_OUTPUT", stamp)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "IC_OUTPUT_20260115_093000"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
