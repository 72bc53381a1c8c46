package object

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// VerifySummary reports the outcome of Store.Verify.
type VerifySummary struct {
	Objects int
	ByType  map[ObjectType]int
	Bytes   int64
}

// Verify reads back every stored object, checking that it decompresses,
// that its header matches its payload, and that it hashes to the id it is
// stored under. Objects are checked by up to workers goroutines (GOMAXPROCS
// when workers <= 0); the first failure cancels the rest.
func (s *Store) Verify(ctx context.Context, workers int) (*VerifySummary, error) {
	hashes, err := s.listObjectHashes()
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	report := &VerifySummary{ByType: make(map[ObjectType]int)}
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx).WithCancelOnError().WithFirstError()
	for _, h := range hashes {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			obj, err := s.readLoose(h)
			if err != nil {
				return fmt.Errorf("verify %s: %w", h, err)
			}
			mu.Lock()
			report.Objects++
			report.ByType[obj.Type]++
			report.Bytes += int64(obj.Size)
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	s.log.Debug("verified objects", zap.Int("objects", report.Objects), zap.Int64("bytes", report.Bytes))
	return report, nil
}

// listObjectHashes returns the ids of all stored objects in sorted order.
// Temp files and anything not shaped like a shard entry are skipped.
func (s *Store) listObjectHashes() ([]Hash, error) {
	fanoutDirs, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read objects dir: %w", err)
	}

	hashes := make([]Hash, 0)
	for _, fanoutDir := range fanoutDirs {
		if !fanoutDir.IsDir() {
			continue
		}
		prefix := fanoutDir.Name()
		if !isHexHashComponent(prefix, 2) {
			continue
		}

		objectEntries, err := os.ReadDir(filepath.Join(s.root, prefix))
		if err != nil {
			return nil, fmt.Errorf("read objects fanout %s: %w", prefix, err)
		}
		for _, objectEntry := range objectEntries {
			if objectEntry.IsDir() {
				continue
			}
			suffix := objectEntry.Name()
			if !isHexHashComponent(suffix, HashHexSize-2) {
				continue
			}
			hashes = append(hashes, Hash(prefix+suffix))
		}
	}

	sort.Slice(hashes, func(i, j int) bool {
		return hashes[i] < hashes[j]
	})
	return hashes, nil
}
