package repo

import (
	"fmt"
	"testing"

	"github.com/odvcencio/twig/pkg/object"
)

func TestFlattenTree_TraversalOrder(t *testing.T) {
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer r.Close()

	nestedTreeHash, err := r.Store.PutTree(&object.TreeObj{
		Entries: []object.TreeEntry{
			{Name: "d.txt", Mode: object.TreeModeFile, Hash: testTreeHash(3)},
		},
	})
	if err != nil {
		t.Fatalf("write nested tree: %v", err)
	}

	dirTreeHash, err := r.Store.PutTree(&object.TreeObj{
		Entries: []object.TreeEntry{
			{Name: "b.txt", Mode: object.TreeModeFile, Hash: testTreeHash(2)},
			{Name: "nested", Mode: object.TreeModeDir, Hash: nestedTreeHash},
			{Name: "a.txt", Mode: object.TreeModeExecutable, Hash: testTreeHash(4)},
		},
	})
	if err != nil {
		t.Fatalf("write dir tree: %v", err)
	}

	rootHash, err := r.Store.PutTree(&object.TreeObj{
		Entries: []object.TreeEntry{
			{Name: "z.txt", Mode: object.TreeModeFile, Hash: testTreeHash(1)},
			{Name: "dir", Mode: object.TreeModeDir, Hash: dirTreeHash},
			{Name: "m.txt", Mode: object.TreeModeFile, Hash: testTreeHash(5)},
		},
	})
	if err != nil {
		t.Fatalf("write root tree: %v", err)
	}

	entries, err := r.FlattenTree(rootHash, false)
	if err != nil {
		t.Fatalf("FlattenTree: %v", err)
	}

	wantPaths := []string{
		"dir/a.txt",
		"dir/b.txt",
		"dir/nested/d.txt",
		"m.txt",
		"z.txt",
	}
	wantHashes := []object.Hash{
		testTreeHash(4),
		testTreeHash(2),
		testTreeHash(3),
		testTreeHash(5),
		testTreeHash(1),
	}

	if len(entries) != len(wantPaths) {
		t.Fatalf("FlattenTree returned %d entries, want %d", len(entries), len(wantPaths))
	}
	for i, wantPath := range wantPaths {
		if entries[i].Path != wantPath {
			t.Fatalf("entry[%d].Path = %q, want %q", i, entries[i].Path, wantPath)
		}
		if entries[i].Hash != wantHashes[i] {
			t.Fatalf("entry[%d].Hash = %q, want %q", i, entries[i].Hash, wantHashes[i])
		}
	}
	if entries[0].Mode != object.TreeModeExecutable {
		t.Fatalf("entry[0].Mode = %q, want %q", entries[0].Mode, object.TreeModeExecutable)
	}
}

func TestFlattenTree_MissingSubtree(t *testing.T) {
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer r.Close()

	rootHash, err := r.Store.PutTree(&object.TreeObj{
		Entries: []object.TreeEntry{
			{Name: "gone", Mode: object.TreeModeDir, Hash: testTreeHash(9)},
		},
	})
	if err != nil {
		t.Fatalf("write root tree: %v", err)
	}

	if _, err := r.FlattenTree(rootHash, false); err == nil {
		t.Fatal("FlattenTree succeeded with a dangling subtree")
	}
}

// testTreeHash returns a well-formed id that need not exist in the store.
func testTreeHash(seed int) object.Hash {
	return object.Hash(fmt.Sprintf("%040x", seed))
}

var benchmarkFlattenTreeEntryCount int

func BenchmarkFlattenTree(b *testing.B) {
	const (
		dirCount    = 16
		filesPerDir = 256
	)

	r, err := Init(b.TempDir())
	if err != nil {
		b.Fatalf("Init: %v", err)
	}
	defer r.Close()

	rootEntries := make([]object.TreeEntry, 0, dirCount)
	fileSeed := 1
	for d := 0; d < dirCount; d++ {
		subtreeEntries := make([]object.TreeEntry, 0, filesPerDir)
		for f := 0; f < filesPerDir; f++ {
			subtreeEntries = append(subtreeEntries, object.TreeEntry{
				Name: fmt.Sprintf("file-%04d.go", f),
				Mode: object.TreeModeFile,
				Hash: testTreeHash(fileSeed),
			})
			fileSeed++
		}
		subtreeHash, err := r.Store.PutTree(&object.TreeObj{Entries: subtreeEntries})
		if err != nil {
			b.Fatalf("write subtree %d: %v", d, err)
		}
		rootEntries = append(rootEntries, object.TreeEntry{
			Name: fmt.Sprintf("dir-%02d", d),
			Mode: object.TreeModeDir,
			Hash: subtreeHash,
		})
	}
	rootHash, err := r.Store.PutTree(&object.TreeObj{Entries: rootEntries})
	if err != nil {
		b.Fatalf("write root tree: %v", err)
	}
	wantEntries := dirCount * filesPerDir

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		entries, err := r.FlattenTree(rootHash, false)
		if err != nil {
			b.Fatalf("FlattenTree: %v", err)
		}
		if len(entries) != wantEntries {
			b.Fatalf("FlattenTree returned %d entries, want %d", len(entries), wantEntries)
		}
		benchmarkFlattenTreeEntryCount += len(entries)
	}
}
