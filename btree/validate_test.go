package btree

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestValidate_DetectsOutOfOrderLeafKeys(t *testing.T) {
	tr := openTestTree(t, 10)
	for _, k := range []uint32{1, 2, 3} {
		if err := tr.Insert(k, nil); err != nil {
			t.Fatalf("Insert(%d): %v", k, err)
		}
	}

	root, err := tr.readPage(RootPage)
	if err != nil {
		t.Fatalf("readPage: %v", err)
	}
	// Corrupt the tree directly: swap cells 0 and 1's keys in place. Both
	// cells are empty-valued (fixed 8-byte size), so the key fields sit at
	// known offsets and swapping them leaves the page otherwise intact.
	k0 := LeafCellKey(root, 0)
	k1 := LeafCellKey(root, 1)
	off0 := leafCellOffset(root, 0)
	off1 := leafCellOffset(root, 1)
	binary.LittleEndian.PutUint32(root[off0:off0+4], k1)
	binary.LittleEndian.PutUint32(root[off1:off1+4], k0)
	if err := tr.writePage(RootPage, root); err != nil {
		t.Fatalf("writePage: %v", err)
	}

	if err := tr.Validate(); !errors.Is(err, ErrCorruptNode) {
		t.Fatalf("Validate = %v, want ErrCorruptNode", err)
	}
}

func TestValidate_DetectsParentKeyMismatch(t *testing.T) {
	tr := openTestTree(t, 100)
	for i := uint32(0); i < uint32(LeafMaxCells)+5; i++ {
		if err := tr.Insert(i, nil); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("tree should be valid before corruption: %v", err)
	}

	root, err := tr.readPage(RootPage)
	if err != nil {
		t.Fatalf("readPage: %v", err)
	}
	if isLeaf(root) {
		t.Fatalf("expected an internal root by now")
	}
	setInternalCellKey(root, 0, InternalCellKey(root, 0)+1)
	if err := tr.writePage(RootPage, root); err != nil {
		t.Fatalf("writePage: %v", err)
	}

	if err := tr.Validate(); !errors.Is(err, ErrCorruptNode) {
		t.Fatalf("Validate = %v, want ErrCorruptNode", err)
	}
}
