package btree

import "testing"

func TestCursor_FindMissingKeyPositionsForInsert(t *testing.T) {
	tr := openTestTree(t, 10)
	for _, k := range []uint32{10, 20, 30} {
		if err := tr.Insert(k, []byte{byte(k)}); err != nil {
			t.Fatalf("Insert(%d): %v", k, err)
		}
	}

	cur, err := tr.Find(25)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if k, err := cur.Key(); err != nil || k != 30 {
		t.Fatalf("Key() for missing key = %d, %v; want 30 (the key at the insertion point), nil", k, err)
	}
	if cur.CellIndex() != 2 {
		t.Fatalf("CellIndex = %d, want 2 (insertion point between 20 and 30)", cur.CellIndex())
	}
}

func TestCursor_AdvanceCrossesLeafBoundary(t *testing.T) {
	tr := openTestTree(t, 1000)
	for i := uint32(0); i < 60; i++ {
		if err := tr.Insert(i, []byte{byte(i)}); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}

	cur, err := tr.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	firstLeaf := cur.Page()
	crossed := false
	for i := 0; i < 60; i++ {
		if cur.EndOfTable {
			t.Fatalf("hit EndOfTable early at i=%d", i)
		}
		k, err := cur.Key()
		if err != nil {
			t.Fatalf("Key: %v", err)
		}
		if k != uint32(i) {
			t.Fatalf("Key at position %d = %d, want %d", i, k, i)
		}
		if cur.Page() != firstLeaf {
			crossed = true
		}
		if err := cur.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	if !cur.EndOfTable {
		t.Fatalf("expected EndOfTable after scanning all keys")
	}
	if !crossed {
		t.Fatalf("expected the scan to cross at least one leaf boundary for 60 keys")
	}
}

func TestCursor_EmptyValueRoundTrips(t *testing.T) {
	tr := openTestTree(t, 10)
	if err := tr.Insert(1, []byte{}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	cur, err := tr.Find(1)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	v, err := cur.GetValue()
	if err != nil {
		t.Fatalf("GetValue: %v", err)
	}
	if len(v) != 0 {
		t.Fatalf("GetValue = %v, want empty", v)
	}
}
