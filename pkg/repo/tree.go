package repo

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/odvcencio/twig/pkg/object"
	"go.uber.org/zap"
)

// ErrTreeTooDeep is returned when a directory hierarchy exceeds the
// configured maximum depth (which also catches symlink cycles).
var ErrTreeTooDeep = errors.New("directory tree too deep")

// BuildOptions configures BuildTree.
type BuildOptions struct {
	// MaxDepth bounds directory nesting below the root. Zero selects
	// DefaultMaxDepth.
	MaxDepth int
	// Ignore selects paths to skip. The metadata directory is skipped even
	// when Ignore is nil.
	Ignore *IgnoreChecker
	// FileMode derives file entry modes from execute bits. Otherwise all
	// files are recorded as 100644.
	FileMode bool
	Log      *zap.Logger
}

// dirFrame is one pending directory on the build stack.
type dirFrame struct {
	path    string // filesystem path
	rel     string // slash path relative to the build root, "" for the root
	name    string // entry name in the parent tree
	depth   int
	names   []string
	next    int
	entries []object.TreeEntry
}

// BuildTree snapshots dir into the store and returns the root tree hash.
//
// Children are visited in byte-wise name order. Regular files become blobs
// and subdirectories become subtrees; symlinks are followed. A directory's
// tree object is written only after all of its children have been stored,
// and any error aborts the whole build.
//
// The walk keeps an explicit stack of pending directories rather than
// recursing, so depth is limited by MaxDepth and not the goroutine stack.
func BuildTree(store *object.Store, dir string, opts BuildOptions) (object.Hash, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "tree-builder"))

	root, err := openDirFrame(dir, "", "", 0)
	if err != nil {
		return "", err
	}
	stack := []*dirFrame{root}

	for {
		top := stack[len(stack)-1]

		if top.next < len(top.names) {
			name := top.names[top.next]
			top.next++

			childPath := filepath.Join(top.path, name)
			childRel := path.Join(top.rel, name)
			if name == MetaDirName {
				continue
			}

			info, err := os.Stat(childPath)
			if err != nil {
				if opts.Ignore.IsIgnored(childRel, false) {
					continue
				}
				return "", fmt.Errorf("build tree: %w", err)
			}
			if opts.Ignore.IsIgnored(childRel, info.IsDir()) {
				log.Debug("ignored", zap.String("path", childRel))
				continue
			}

			if info.IsDir() {
				if top.depth+1 > maxDepth {
					return "", fmt.Errorf("build tree %s: %w (limit %d)", childPath, ErrTreeTooDeep, maxDepth)
				}
				frame, err := openDirFrame(childPath, childRel, name, top.depth+1)
				if err != nil {
					return "", err
				}
				stack = append(stack, frame)
				continue
			}
			if !info.Mode().IsRegular() {
				return "", fmt.Errorf("build tree %s: unsupported file type %s", childPath, info.Mode().Type())
			}

			data, err := os.ReadFile(childPath)
			if err != nil {
				return "", fmt.Errorf("build tree: %w", err)
			}
			h, err := store.Put(object.TypeBlob, data)
			if err != nil {
				return "", fmt.Errorf("build tree %s: %w", childPath, err)
			}
			mode := object.TreeModeFile
			if opts.FileMode {
				mode = modeFromFileInfo(info)
			}
			top.entries = append(top.entries, object.TreeEntry{Mode: mode, Name: name, Hash: h})
			log.Debug("blob", zap.String("path", childRel), zap.String("mode", mode), zap.String("id", h.Short()))
			continue
		}

		h, err := store.PutTree(&object.TreeObj{Entries: top.entries})
		if err != nil {
			return "", fmt.Errorf("build tree %s: %w", top.path, err)
		}
		log.Debug("tree", zap.String("path", displayRel(top.rel)), zap.Int("entries", len(top.entries)), zap.String("id", h.Short()))

		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			return h, nil
		}
		parent := stack[len(stack)-1]
		parent.entries = append(parent.entries, object.TreeEntry{Mode: object.TreeModeDir, Name: top.name, Hash: h})
	}
}

func openDirFrame(dirPath, rel, name string, depth int) (*dirFrame, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("build tree: %w", err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	sort.Strings(names)
	return &dirFrame{path: dirPath, rel: rel, name: name, depth: depth, names: names}, nil
}

func displayRel(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}

// WriteTree snapshots dir (the repository root when dir is empty) and
// returns the root tree hash. Patterns from dir/.twigignore are honored.
func (r *Repo) WriteTree(dir string) (object.Hash, error) {
	if dir == "" {
		dir = r.RootDir
	}
	ic, err := NewIgnoreChecker(dir)
	if err != nil {
		return "", fmt.Errorf("write tree: %w", err)
	}
	return BuildTree(r.Store, dir, BuildOptions{
		MaxDepth: r.Config.maxDepth(),
		Ignore:   ic,
		FileMode: r.Config.Core.FileMode,
		Log:      r.log,
	})
}

// TreeFileEntry represents a single entry in a flattened tree.
type TreeFileEntry struct {
	Path string
	Mode string
	Hash object.Hash
}

// FlattenTree walks a tree object, returning every blob entry with its full
// slash-separated path. When withTrees is set, subtree entries are listed
// too, before their contents.
func (r *Repo) FlattenTree(h object.Hash, withTrees bool) ([]TreeFileEntry, error) {
	return r.flattenTreeRec(h, "", withTrees, 0)
}

func (r *Repo) flattenTreeRec(h object.Hash, prefix string, withTrees bool, depth int) ([]TreeFileEntry, error) {
	if depth > r.Config.maxDepth() {
		return nil, fmt.Errorf("flatten tree %s: %w", h, ErrTreeTooDeep)
	}
	treeObj, err := r.Store.ReadTree(h)
	if err != nil {
		return nil, fmt.Errorf("flatten tree: %w", err)
	}

	var result []TreeFileEntry
	for _, entry := range treeObj.Entries {
		fullPath := path.Join(prefix, entry.Name)

		if entry.IsDir() {
			if withTrees {
				result = append(result, TreeFileEntry{Path: fullPath, Mode: entry.Mode, Hash: entry.Hash})
			}
			sub, err := r.flattenTreeRec(entry.Hash, fullPath, withTrees, depth+1)
			if err != nil {
				return nil, err
			}
			result = append(result, sub...)
			continue
		}
		result = append(result, TreeFileEntry{Path: fullPath, Mode: entry.Mode, Hash: entry.Hash})
	}
	return result, nil
}
