package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/odvcencio/twig/pkg/object"
	"go.uber.org/zap"
)

const configFileName = "config.toml"

// DefaultMaxDepth bounds how deep the tree builder descends.
const DefaultMaxDepth = 256

// Config stores repository-local settings.
type Config struct {
	Core CoreConfig `toml:"core"`
}

// CoreConfig controls how objects are stored and how snapshots are built.
type CoreConfig struct {
	// Compression is the codec for new objects: "zlib" or "zstd".
	Compression string `toml:"compression"`
	// CompressionLevel is codec specific; 0 selects the codec default.
	CompressionLevel int `toml:"compression_level"`
	// CacheSize is the number of decoded objects kept in memory.
	CacheSize int `toml:"cache_size"`
	// VerifyExisting re-reads objects that already exist on write.
	VerifyExisting bool `toml:"verify_existing"`
	// MaxDepth limits directory nesting during write-tree.
	MaxDepth int `toml:"max_depth"`
	// FileMode records executable files as 100755. When false every file
	// entry is 100644, so permission bits never change a tree id.
	FileMode bool `toml:"filemode"`
}

// DefaultConfig returns the settings written by Init.
func DefaultConfig() *Config {
	return &Config{Core: CoreConfig{
		Compression: string(object.CompressionZlib),
		CacheSize:   256,
		MaxDepth:    DefaultMaxDepth,
	}}
}

// Validate checks value ranges. Codec-level limits are checked when the
// store is created.
func (c *Config) Validate() error {
	if _, err := object.ParseCompression(c.Core.Compression); err != nil {
		return fmt.Errorf("core.compression: %w", err)
	}
	if c.Core.CacheSize < 0 {
		return fmt.Errorf("core.cache_size must not be negative, got %d", c.Core.CacheSize)
	}
	if c.Core.MaxDepth < 0 {
		return fmt.Errorf("core.max_depth must not be negative, got %d", c.Core.MaxDepth)
	}
	return nil
}

func (c *Config) storeOptions(log *zap.Logger) []object.StoreOption {
	comp, _ := object.ParseCompression(c.Core.Compression)
	return []object.StoreOption{
		object.WithCompression(comp, c.Core.CompressionLevel),
		object.WithCacheSize(c.Core.CacheSize),
		object.WithVerifyExisting(c.Core.VerifyExisting),
		object.WithLogger(log),
	}
}

func (c *Config) maxDepth() int {
	if c.Core.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.Core.MaxDepth
}

// ReadConfig reads .twig/config.toml. A missing file yields DefaultConfig;
// keys absent from the file keep their default values.
func ReadConfig(twigDir string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(filepath.Join(twigDir, configFileName), cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("read config: unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// WriteConfig atomically writes .twig/config.toml.
func WriteConfig(twigDir string, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	tmp, err := os.CreateTemp(twigDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(twigDir, configFileName)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}
