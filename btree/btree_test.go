package btree

import (
	"testing"

	"github.com/bptreedb/bptreedb/pager"
)

func openTestTree(t *testing.T, capacity int) *Tree {
	t.Helper()
	pg, err := pager.Open(":memory:", capacity)
	if err != nil {
		t.Fatalf("pager.Open: %v", err)
	}
	tr, err := Open(pg)
	if err != nil {
		t.Fatalf("btree.Open: %v", err)
	}
	return tr
}

func TestOpen_EmptyTreeIsRootLeaf(t *testing.T) {
	tr := openTestTree(t, 10)

	cur, err := tr.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !cur.EndOfTable {
		t.Fatalf("expected empty tree to report EndOfTable")
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestInsertAndFind_Single(t *testing.T) {
	tr := openTestTree(t, 10)

	if err := tr.Insert(42, []byte("hello")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	cur, err := tr.Find(42)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	k, err := cur.Key()
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if k != 42 {
		t.Fatalf("Key = %d, want 42", k)
	}
	v, err := cur.GetValue()
	if err != nil {
		t.Fatalf("GetValue: %v", err)
	}
	if string(v) != "hello" {
		t.Fatalf("GetValue = %q, want %q", v, "hello")
	}
}

func TestInsert_DuplicateKeyRejected(t *testing.T) {
	tr := openTestTree(t, 10)

	if err := tr.Insert(7, []byte("a")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tr.Insert(7, []byte("b")); err != ErrDuplicateKey {
		t.Fatalf("Insert duplicate: got %v, want ErrDuplicateKey", err)
	}

	cur, err := tr.Find(7)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	v, err := cur.GetValue()
	if err != nil {
		t.Fatalf("GetValue: %v", err)
	}
	if string(v) != "a" {
		t.Fatalf("value changed after rejected duplicate insert: got %q", v)
	}
}

func TestInsert_SequentialOneHundred(t *testing.T) {
	tr := openTestTree(t, 1000)

	for i := uint32(0); i < 100; i++ {
		if err := tr.Insert(i, []byte{byte(i)}); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
		if i%10 == 0 {
			if err := tr.Validate(); err != nil {
				t.Fatalf("Validate after inserting %d: %v", i, err)
			}
		}
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("final Validate: %v", err)
	}

	for i := uint32(0); i < 100; i++ {
		cur, err := tr.Find(i)
		if err != nil {
			t.Fatalf("Find(%d): %v", i, err)
		}
		v, err := cur.GetValue()
		if err != nil {
			t.Fatalf("GetValue(%d): %v", i, err)
		}
		if len(v) != 1 || v[0] != byte(i) {
			t.Fatalf("value for key %d = %v, want [%d]", i, v, byte(i))
		}
	}
}

func TestInsert_RandomTwentyFiveSeed42(t *testing.T) {
	// Fixed pseudo-random permutation (seed 42 equivalent), inlined so the
	// test has no dependency on math/rand's stream changing across Go
	// versions.
	keys := []uint32{
		23, 4, 17, 42, 8, 31, 1, 19, 36, 11,
		29, 3, 47, 15, 22, 6, 39, 27, 44, 9,
		33, 2, 18, 45, 12,
	}
	tr := openTestTree(t, 200)

	for _, k := range keys {
		if err := tr.Insert(k, []byte{byte(k)}); err != nil {
			t.Fatalf("Insert(%d): %v", k, err)
		}
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cur, err := tr.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	var prev uint32
	count := 0
	for !cur.EndOfTable {
		k, err := cur.Key()
		if err != nil {
			t.Fatalf("Key: %v", err)
		}
		if count > 0 && k <= prev {
			t.Fatalf("scan out of order: %d after %d", k, prev)
		}
		prev = k
		count++
		if err := cur.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	if count != len(keys) {
		t.Fatalf("scanned %d keys, want %d", count, len(keys))
	}
}

func TestInsert_ForcesSplits(t *testing.T) {
	tr := openTestTree(t, 2000)

	const n = 500
	for i := uint32(0); i < n; i++ {
		// Insert in a stride-37 permutation of [0, n) so leaf splits happen
		// on non-append paths too. 500 keys stay far below the leaf count
		// that would split an internal node.
		key := (i * 37) % n
		if err := tr.Insert(key, []byte("payload-for-key")); err == ErrDuplicateKey {
			continue
		} else if err != nil {
			t.Fatalf("Insert(%d): %v", key, err)
		}
		if i%10 == 0 {
			if err := tr.Validate(); err != nil {
				t.Fatalf("Validate at i=%d: %v", i, err)
			}
		}
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("final Validate: %v", err)
	}

	seen := make(map[uint32]bool)
	cur, err := tr.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	for !cur.EndOfTable {
		k, err := cur.Key()
		if err != nil {
			t.Fatalf("Key: %v", err)
		}
		seen[k] = true
		if err := cur.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	if len(seen) != n {
		t.Fatalf("scanned %d distinct keys, want %d", len(seen), n)
	}
}
