package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadConfigMissingReturnsDefaults(t *testing.T) {
	cfg, err := ReadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Core: CoreConfig{
		Compression:      "zstd",
		CompressionLevel: 3,
		CacheSize:        0,
		VerifyExisting:   true,
		MaxDepth:         32,
		FileMode:         true,
	}}
	require.NoError(t, WriteConfig(dir, cfg))

	got, err := ReadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, cfg, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestReadConfigPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("[core]\nverify_existing = true\n"), 0o644))

	cfg, err := ReadConfig(dir)
	require.NoError(t, err)
	require.True(t, cfg.Core.VerifyExisting)
	require.Equal(t, "zlib", cfg.Core.Compression)
	require.Equal(t, DefaultMaxDepth, cfg.Core.MaxDepth)
	require.Equal(t, 256, cfg.Core.CacheSize)
	require.False(t, cfg.Core.FileMode)
}

func TestReadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown codec":  "[core]\ncompression = \"brotli\"\n",
		"unknown key":    "[core]\ncompresion = \"zlib\"\n",
		"negative cache": "[core]\ncache_size = -1\n",
		"bad syntax":     "[core\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(body), 0o644))
			_, err := ReadConfig(dir)
			require.Error(t, err)
		})
	}
}
