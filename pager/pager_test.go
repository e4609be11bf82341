package pager

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestMemoryPager_ZeroFillOnFirstTouch(t *testing.T) {
	p, err := Open("", 10)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	if p.NumPages() != 0 {
		t.Fatalf("NumPages before any GetPage = %d, want 0", p.NumPages())
	}
	pg, err := p.GetPage(3)
	if err != nil {
		t.Fatalf("GetPage(3): %v", err)
	}
	for i, b := range pg {
		if b != 0 {
			t.Fatalf("page not zero-filled at offset %d", i)
		}
	}
	if p.NumPages() != 4 {
		t.Fatalf("NumPages after GetPage(3) = %d, want 4", p.NumPages())
	}
}

func TestMemoryPager_SameBufferReturned(t *testing.T) {
	p, _ := Open("", 10)
	defer p.Close()

	pg1, _ := p.GetPage(2)
	pg1[0] = 0xAB
	pg2, _ := p.GetPage(2)
	if pg2[0] != 0xAB {
		t.Fatalf("second GetPage(2) returned a different buffer")
	}
	if pg1 != pg2 {
		t.Fatalf("GetPage(2) did not return the identical pointer")
	}
}

func TestMemoryPager_CapacityExceeded(t *testing.T) {
	p, _ := Open("", 4)
	defer p.Close()

	if _, err := p.GetPage(3); err != nil {
		t.Fatalf("GetPage(3) within capacity: %v", err)
	}
	if _, err := p.GetPage(4); !errors.Is(err, ErrPageLimitExceeded) {
		t.Fatalf("GetPage(4) = %v, want ErrPageLimitExceeded", err)
	}
}

func TestDiskPager_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	p, err := Open(path, 8)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	pg, err := p.GetPage(5)
	if err != nil {
		t.Fatalf("GetPage(5): %v", err)
	}
	pg[0] = 0x42
	if err := p.MarkDirty(5, pg); err != nil {
		t.Fatalf("MarkDirty: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	p2, err := Open(path, 8)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer p2.Close()
	if p2.NumPages() != 6 {
		t.Fatalf("NumPages after reopen = %d, want 6", p2.NumPages())
	}
	pg2, err := p2.GetPage(5)
	if err != nil {
		t.Fatalf("GetPage(5) after reopen: %v", err)
	}
	if pg2[0] != 0x42 {
		t.Fatalf("page content not persisted: got %x", pg2[0])
	}
}

func TestDiskPager_DirtyPageFlushedOnEviction(t *testing.T) {
	dir := t.TempDir()
	p, err := Open(filepath.Join(dir, "evict.db"), 2)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	pg0, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage(0): %v", err)
	}
	pg0[0] = 0x11
	if err := p.MarkDirty(0, pg0); err != nil {
		t.Fatalf("MarkDirty(0): %v", err)
	}

	// Touch two more pages with a cache capacity of 2: page 0 is the
	// least-recently-used entry and gets evicted, which must flush it to
	// disk even though Close has not been called yet.
	if _, err := p.GetPage(1); err != nil {
		t.Fatalf("GetPage(1): %v", err)
	}
	if _, err := p.GetPage(2); err != nil {
		t.Fatalf("GetPage(2): %v", err)
	}

	onDisk, err := p.readPageFromDisk(0)
	if err != nil {
		t.Fatalf("readPageFromDisk(0): %v", err)
	}
	if onDisk[0] != 0x11 {
		t.Fatalf("evicted dirty page was not flushed to disk: got %x", onDisk[0])
	}
}

func TestDiskPager_NotCapacityLimited(t *testing.T) {
	dir := t.TempDir()
	p, err := Open(filepath.Join(dir, "big.db"), 2)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	// capacity here sizes the LRU, not a hard ceiling.
	for i := uint32(0); i < 10; i++ {
		if _, err := p.GetPage(i); err != nil {
			t.Fatalf("GetPage(%d): %v", i, err)
		}
	}
	if p.NumPages() != 10 {
		t.Fatalf("NumPages = %d, want 10", p.NumPages())
	}
}
