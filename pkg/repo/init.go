package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrAlreadyInitialized is returned by Init when .twig/ already exists.
	// Callers treat it as a notice, not a failure.
	ErrAlreadyInitialized = errors.New("twig repository already exists")
	// ErrNotRepository is returned by Open when no .twig/ is found.
	ErrNotRepository = errors.New("not a twig repository (or any parent up to /)")
)

const defaultHead = "ref: refs/heads/master\n"

func objectsDir(twigDir string) string {
	return filepath.Join(twigDir, "objects")
}

// Init creates a new twig repository at path: .twig/objects/, .twig/refs/,
// .twig/HEAD and .twig/config.toml. If .twig/ already exists nothing is
// touched and ErrAlreadyInitialized is returned.
func Init(path string, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	twigDir := filepath.Join(abs, MetaDirName)

	if _, err := os.Stat(twigDir); err == nil {
		return nil, fmt.Errorf("init: %w at %s", ErrAlreadyInitialized, twigDir)
	}

	dirs := []string{
		objectsDir(twigDir),
		filepath.Join(twigDir, "refs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	headPath := filepath.Join(twigDir, "HEAD")
	if err := os.WriteFile(headPath, []byte(defaultHead), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	cfg := DefaultConfig()
	if err := WriteConfig(twigDir, cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	return newRepo(abs, twigDir, cfg, opts)
}

// Open searches upward from path for a .twig/ directory and opens the
// repository with the settings in its config.toml.
func Open(path string, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		twigDir := filepath.Join(cur, MetaDirName)
		info, err := os.Stat(twigDir)
		if err == nil && info.IsDir() {
			cfg, err := ReadConfig(twigDir)
			if err != nil {
				return nil, fmt.Errorf("open: %w", err)
			}
			return newRepo(cur, twigDir, cfg, opts)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open %s: %w", abs, ErrNotRepository)
		}
		cur = parent
	}
}
