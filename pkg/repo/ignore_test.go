package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIgnoreMetaDirAlways(t *testing.T) {
	var ic *IgnoreChecker
	require.True(t, ic.IsIgnored(".twig", true))
	require.True(t, ic.IsIgnored("sub/.twig", true))
	require.False(t, ic.IsIgnored("main.go", false))
}

func TestIgnorePatterns(t *testing.T) {
	ic := NewIgnoreCheckerFromPatterns(
		"# comment",
		"",
		"*.tmp",
		"!important.tmp",
		"vendor/",
		"/rootonly.txt",
		"docs/*.pdf",
		"**/cache/**",
	)

	cases := []struct {
		path    string
		isDir   bool
		ignored bool
	}{
		{"a.tmp", false, true},
		{"deep/b.tmp", false, true},
		{"important.tmp", false, false},
		{"vendor", true, true},
		{"vendor", false, false},
		{"src/vendor", true, true},
		{"rootonly.txt", false, true},
		{"sub/rootonly.txt", false, false},
		{"docs/manual.pdf", false, true},
		{"other/docs/manual.pdf", false, false},
		{"a/cache/x", false, true},
		{"main.go", false, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.ignored, ic.IsIgnored(tc.path, tc.isDir), "path %q dir=%v", tc.path, tc.isDir)
	}
}

func TestNewIgnoreCheckerReadsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, IgnoreFileName), []byte("*.o\r\nbin/\n"), 0o644))

	ic, err := NewIgnoreChecker(dir)
	require.NoError(t, err)
	require.True(t, ic.IsIgnored("main.o", false))
	require.True(t, ic.IsIgnored("bin", true))
	require.False(t, ic.IsIgnored("main.c", false))

	missing, err := NewIgnoreChecker(t.TempDir())
	require.NoError(t, err)
	require.False(t, missing.IsIgnored("anything", false))
}
