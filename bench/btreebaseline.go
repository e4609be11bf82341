package bench

import (
	"errors"

	"github.com/bptreedb/bptreedb/btree"
	"github.com/bptreedb/bptreedb/pager"
)

// BTreeBaseline adapts the project's own pager+btree pair to Baseline.
type BTreeBaseline struct {
	pg *pager.Pager
	t  *btree.Tree
}

// OpenBTreeBaseline opens a pager at path (disk-backed, or memory-only for
// "" or ":memory:") and wraps it in a fresh or existing B+ tree.
func OpenBTreeBaseline(path string, capacity int) (*BTreeBaseline, error) {
	pg, err := pager.Open(path, capacity)
	if err != nil {
		return nil, err
	}
	t, err := btree.Open(pg)
	if err != nil {
		return nil, err
	}
	return &BTreeBaseline{pg: pg, t: t}, nil
}

// Insert inserts key/value, treating an already-present key as a no-op —
// this engine has no update operation (see SPEC_FULL.md Non-goals).
func (b *BTreeBaseline) Insert(key uint32, value []byte) error {
	if err := b.t.Insert(key, value); err != nil && !errors.Is(err, btree.ErrDuplicateKey) {
		return err
	}
	return nil
}

// Get returns the value for key, or ErrKeyNotFound if absent.
func (b *BTreeBaseline) Get(key uint32) ([]byte, error) {
	cur, err := b.t.Find(key)
	if err != nil {
		return nil, err
	}
	k, err := cur.Key()
	if err != nil {
		if errors.Is(err, btree.ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	if k != key {
		return nil, ErrKeyNotFound
	}
	return cur.GetValue()
}

// Range returns an iterator over [start, end], inclusive on both ends.
func (b *BTreeBaseline) Range(start, end uint32) (RangeIterator, error) {
	cur, err := b.t.Find(start)
	if err != nil {
		return nil, err
	}
	return &btreeRangeIterator{cur: cur, end: end}, nil
}

// Close releases the B+ tree's pager.
func (b *BTreeBaseline) Close() error {
	if err := b.t.Close(); err != nil {
		return err
	}
	return b.pg.Close()
}

type btreeRangeIterator struct {
	cur     *btree.Cursor
	end     uint32
	started bool
}

func (it *btreeRangeIterator) Next() bool {
	if it.cur.EndOfTable {
		return false
	}
	if it.started {
		if err := it.cur.Advance(); err != nil || it.cur.EndOfTable {
			return false
		}
	}
	it.started = true
	// Find may position the cursor at a leaf's one-past-the-end slot (its
	// insertion point for a key not present); step forward until a real
	// cell is reached or the table is exhausted.
	for {
		if _, err := it.cur.Key(); err == nil {
			break
		}
		if err := it.cur.Advance(); err != nil || it.cur.EndOfTable {
			return false
		}
	}
	k, err := it.cur.Key()
	if err != nil || k > it.end {
		return false
	}
	return true
}

func (it *btreeRangeIterator) Key() uint32 {
	k, _ := it.cur.Key()
	return k
}

func (it *btreeRangeIterator) Value() []byte {
	v, _ := it.cur.GetValue()
	return v
}

func (it *btreeRangeIterator) Close() error { return nil }
