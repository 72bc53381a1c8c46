package repo

import (
	"fmt"

	"github.com/odvcencio/twig/pkg/object"
	"go.uber.org/zap"
)

// MetaDirName is the repository metadata directory. It is never part of a
// snapshot.
const MetaDirName = ".twig"

// Repo represents an opened twig repository.
type Repo struct {
	RootDir string        // working directory root
	TwigDir string        // .twig/ directory
	Store   *object.Store // content-addressed object store (.twig/objects)
	Config  *Config

	log *zap.Logger
}

type openOptions struct {
	log *zap.Logger
}

// Option configures Init and Open.
type Option func(*openOptions)

// WithLogger sets the logger handed to the store and tree builder.
func WithLogger(l *zap.Logger) Option {
	return func(o *openOptions) {
		if l != nil {
			o.log = l
		}
	}
}

func newRepo(root, twigDir string, cfg *Config, opts []Option) (*Repo, error) {
	o := &openOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	store, err := object.NewStore(objectsDir(twigDir), cfg.storeOptions(o.log)...)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Repo{
		RootDir: root,
		TwigDir: twigDir,
		Store:   store,
		Config:  cfg,
		log:     o.log,
	}, nil
}

// Close releases store resources.
func (r *Repo) Close() error {
	return r.Store.Close()
}

// HashObject computes the id of data framed as objType and persists it
// only when write is true.
func (r *Repo) HashObject(objType object.ObjectType, data []byte, write bool) (object.Hash, error) {
	if !write {
		return r.Store.Hash(objType, data), nil
	}
	return r.Store.Put(objType, data)
}

// ReadObject resolves a full or abbreviated id and returns the object.
func (r *Repo) ReadObject(id string) (object.Hash, *object.Object, error) {
	h, err := r.Store.ResolvePrefix(id)
	if err != nil {
		return "", nil, err
	}
	obj, err := r.Store.Get(h)
	if err != nil {
		return "", nil, err
	}
	return h, obj, nil
}
