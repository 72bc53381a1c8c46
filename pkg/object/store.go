package object

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: <root>/ab/cdef0123...
//
// Objects are framed as "type len\0content" and compressed on disk.
// Writes go through a temp file and rename; there is no locking, since two
// writers of the same id always produce the same bytes.
type Store struct {
	root           string
	comp           *compressor
	cache          *lru.Cache[Hash, *Object]
	verifyExisting bool
	log            *zap.Logger
}

type storeOptions struct {
	compression    Compression
	level          int
	cacheSize      int
	verifyExisting bool
	log            *zap.Logger
}

// StoreOption configures NewStore.
type StoreOption func(*storeOptions)

// WithCompression selects the codec and level used for new objects.
func WithCompression(c Compression, level int) StoreOption {
	return func(o *storeOptions) {
		o.compression = c
		o.level = level
	}
}

// WithCacheSize keeps up to n decoded objects in memory. Zero disables the
// cache.
func WithCacheSize(n int) StoreOption {
	return func(o *storeOptions) { o.cacheSize = n }
}

// WithVerifyExisting makes Put read back an object that already exists and
// compare it with the freshly framed bytes instead of trusting the id.
func WithVerifyExisting(v bool) StoreOption {
	return func(o *storeOptions) { o.verifyExisting = v }
}

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) StoreOption {
	return func(o *storeOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// NewStore creates a Store rooted at the given objects directory. Shard
// directories are created lazily on first write.
func NewStore(root string, opts ...StoreOption) (*Store, error) {
	o := &storeOptions{
		compression: CompressionZlib,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	comp, err := newCompressor(o.compression, o.level)
	if err != nil {
		return nil, fmt.Errorf("new store: %w", err)
	}

	s := &Store{
		root:           root,
		comp:           comp,
		verifyExisting: o.verifyExisting,
		log:            o.log.With(zap.String("component", "object-store")),
	}
	if o.cacheSize > 0 {
		s.cache, err = lru.New[Hash, *Object](o.cacheSize)
		if err != nil {
			comp.Close()
			return nil, fmt.Errorf("new store: cache: %w", err)
		}
	}
	return s, nil
}

// Root returns the objects directory.
func (s *Store) Root() string {
	return s.root
}

// Close releases codec resources.
func (s *Store) Close() error {
	return s.comp.Close()
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, string(h[:2]), string(h[2:]))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if !isHexHashComponent(string(h), HashHexSize) {
		return false
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Hash computes the id data would be stored under, without writing.
func (s *Store) Hash(objType ObjectType, data []byte) Hash {
	return HashObject(objType, data)
}

// Put stores an object and returns its content hash. Storing an object that
// already exists is a no-op that returns the same hash.
func (s *Store) Put(objType ObjectType, data []byte) (Hash, error) {
	framed := Encode(objType, data)
	h := Digest(framed)

	// Fast path: already exists.
	if s.Has(h) {
		if s.verifyExisting {
			if err := s.checkExisting(h, objType, data); err != nil {
				return "", err
			}
		}
		s.log.Debug("object exists", zap.String("id", string(h)), zap.String("type", string(objType)))
		return h, nil
	}

	compressed, err := s.comp.Compress(framed)
	if err != nil {
		return "", objectErr("write", h, fmt.Errorf("compress: %w", err))
	}

	dir := filepath.Join(s.root, string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", objectErr("write", h, fmt.Errorf("mkdir: %w", err))
	}

	// Atomic write via temp + rename.
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", objectErr("write", h, fmt.Errorf("tmpfile: %w", err))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", objectErr("write", h, err)
	}
	// Stored objects are immutable.
	if err := tmp.Chmod(0o444); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", objectErr("write", h, fmt.Errorf("chmod: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", objectErr("write", h, fmt.Errorf("close: %w", err))
	}
	if err := os.Rename(tmpName, s.objectPath(h)); err != nil {
		os.Remove(tmpName)
		return "", objectErr("write", h, fmt.Errorf("rename: %w", err))
	}

	s.log.Debug("wrote object",
		zap.String("id", string(h)),
		zap.String("type", string(objType)),
		zap.Int("size", len(data)),
		zap.Int("stored", len(compressed)),
	)
	return h, nil
}

func (s *Store) checkExisting(h Hash, objType ObjectType, data []byte) error {
	obj, err := s.readLoose(h)
	if err != nil {
		return err
	}
	if obj.Type != objType || string(obj.Data) != string(data) {
		return objectErr("write", h, fmt.Errorf("%w: existing object differs from new content", ErrCorruptObject))
	}
	return nil
}

// Get retrieves an object by hash. Missing objects fail with
// ErrObjectNotFound, undecompressable or mis-hashed ones with
// ErrCorruptObject, and bad framing with ErrMalformedObject.
func (s *Store) Get(h Hash) (*Object, error) {
	if _, err := ParseHash(string(h)); err != nil {
		return nil, objectErr("read", h, err)
	}
	if s.cache != nil {
		if obj, ok := s.cache.Get(h); ok {
			return cloneObject(obj), nil
		}
	}

	obj, err := s.readLoose(h)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Add(h, obj)
		return cloneObject(obj), nil
	}
	return obj, nil
}

func (s *Store) readLoose(h Hash) (*Object, error) {
	compressed, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, objectErr("read", h, ErrObjectNotFound)
		}
		return nil, objectErr("read", h, err)
	}

	raw, err := s.comp.Decompress(compressed)
	if err != nil {
		return nil, objectErr("read", h, fmt.Errorf("%w: decompress: %v", ErrCorruptObject, err))
	}
	obj, err := Decode(raw)
	if err != nil {
		return nil, objectErr("read", h, err)
	}
	if actual := Digest(raw); actual != h {
		return nil, objectErr("read", h, fmt.Errorf("%w: hash mismatch (computed %s)", ErrCorruptObject, actual))
	}
	return obj, nil
}

func cloneObject(obj *Object) *Object {
	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)
	return &Object{Type: obj.Type, Size: obj.Size, Data: data}
}

// ResolvePrefix expands an abbreviated id (at least 4 hex characters) to
// the full id of the single stored object it matches.
func (s *Store) ResolvePrefix(prefix string) (Hash, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len(prefix) == HashHexSize {
		h, err := ParseHash(prefix)
		if err != nil {
			return "", objectErr("resolve", Hash(prefix), err)
		}
		if !s.Has(h) {
			return "", objectErr("resolve", h, ErrObjectNotFound)
		}
		return h, nil
	}
	if len(prefix) < 4 || len(prefix) > HashHexSize || !isLowerHex(prefix) {
		return "", objectErr("resolve", Hash(prefix), fmt.Errorf("%w: invalid object id %q", ErrMalformedObject, prefix))
	}

	entries, err := os.ReadDir(filepath.Join(s.root, prefix[:2]))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", objectErr("resolve", Hash(prefix), ErrObjectNotFound)
		}
		return "", objectErr("resolve", Hash(prefix), err)
	}

	var match Hash
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !isHexHashComponent(name, HashHexSize-2) || !strings.HasPrefix(name, prefix[2:]) {
			continue
		}
		if match != "" {
			return "", objectErr("resolve", Hash(prefix), ErrAmbiguousPrefix)
		}
		match = Hash(prefix[:2] + name)
	}
	if match == "" {
		return "", objectErr("resolve", Hash(prefix), ErrObjectNotFound)
	}
	return match, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// PutBlob serializes and stores a Blob.
func (s *Store) PutBlob(b *Blob) (Hash, error) {
	return s.Put(TypeBlob, MarshalBlob(b))
}

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	obj, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	if obj.Type != TypeBlob {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", h, obj.Type, TypeBlob)
	}
	return UnmarshalBlob(obj.Data)
}

// PutTree serializes and stores a TreeObj.
func (s *Store) PutTree(tr *TreeObj) (Hash, error) {
	data, err := MarshalTree(tr)
	if err != nil {
		return "", err
	}
	return s.Put(TypeTree, data)
}

// ReadTree reads and deserializes a TreeObj.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	obj, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	if obj.Type != TypeTree {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", h, obj.Type, TypeTree)
	}
	tr, err := UnmarshalTree(obj.Data)
	if err != nil {
		return nil, objectErr("read", h, err)
	}
	return tr, nil
}
