package object

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVerifyEmptyStore(t *testing.T) {
	s := tempStore(t)
	report, err := s.Verify(context.Background(), 0)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.Objects != 0 {
		t.Errorf("Objects: got %d, want 0", report.Objects)
	}
}

func TestVerifyCountsObjects(t *testing.T) {
	s := tempStore(t)
	for _, data := range []string{"one", "two", "three"} {
		if _, err := s.Put(TypeBlob, []byte(data)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	if _, err := s.PutTree(&TreeObj{}); err != nil {
		t.Fatalf("PutTree: %v", err)
	}
	// Leftover temp files are not objects.
	if err := os.WriteFile(filepath.Join(s.root, ".tmp-stray"), []byte("junk"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	report, err := s.Verify(context.Background(), 2)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.Objects != 4 {
		t.Errorf("Objects: got %d, want 4", report.Objects)
	}
	if report.ByType[TypeBlob] != 3 || report.ByType[TypeTree] != 1 {
		t.Errorf("ByType: got %v", report.ByType)
	}
	if report.Bytes != int64(len("one")+len("two")+len("three")) {
		t.Errorf("Bytes: got %d", report.Bytes)
	}
}

func TestVerifyDetectsSwappedObject(t *testing.T) {
	s := tempStore(t)
	h1, err := s.Put(TypeBlob, []byte("alpha"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	h2, err := s.Put(TypeBlob, []byte("beta"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, err := os.ReadFile(s.objectPath(h2))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	overwriteObject(t, s.objectPath(h1), data)

	_, err = s.Verify(context.Background(), 1)
	if !errors.Is(err, ErrCorruptObject) {
		t.Fatalf("Verify: got %v, want ErrCorruptObject", err)
	}
	if !strings.Contains(err.Error(), string(h1)) {
		t.Errorf("Verify error %q should name %s", err, h1)
	}
}

func TestVerifyHonorsCancelledContext(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Put(TypeBlob, []byte("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Verify(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("Verify: got %v, want context.Canceled", err)
	}
}
