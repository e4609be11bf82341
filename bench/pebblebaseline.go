package bench

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/pebble"
)

// PebbleBaseline wraps Pebble (CockroachDB's LSM storage engine) behind
// Baseline, so it can be benchmarked alongside the project's own B+ tree.
type PebbleBaseline struct {
	db *pebble.DB
}

// OpenPebbleBaseline opens (or creates) a Pebble database at dir.
func OpenPebbleBaseline(dir string) (*PebbleBaseline, error) {
	opts := &pebble.Options{
		MemTableSize:                16 << 20,
		MemTableStopWritesThreshold: 4,
		L0CompactionThreshold:       4,
		L0StopWritesThreshold:       12,
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("pebblebaseline: open: %w", err)
	}
	return &PebbleBaseline{db: db}, nil
}

// Close cleanly shuts down Pebble, flushing any in-memory state.
func (b *PebbleBaseline) Close() error { return b.db.Close() }

// Insert inserts or overwrites the value for key.
func (b *PebbleBaseline) Insert(key uint32, value []byte) error {
	return b.db.Set(encodeKey(key), value, pebble.NoSync)
}

// Get retrieves the value for key, or ErrKeyNotFound if absent.
func (b *PebbleBaseline) Get(key uint32) ([]byte, error) {
	val, closer, err := b.db.Get(encodeKey(key))
	if err == pebble.ErrNotFound {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pebblebaseline: get: %w", err)
	}
	defer closer.Close()
	result := make([]byte, len(val))
	copy(result, val)
	return result, nil
}

// Range returns an iterator over [start, end], inclusive on both ends.
func (b *PebbleBaseline) Range(start, end uint32) (RangeIterator, error) {
	iter, err := b.db.NewIter(&pebble.IterOptions{
		LowerBound: encodeKey(start),
		UpperBound: encodeKeyExclusive(end),
	})
	if err != nil {
		return nil, fmt.Errorf("pebblebaseline: range: %w", err)
	}
	iter.First()
	return &pebbleRangeIterator{iter: iter, first: true}, nil
}

// encodeKey encodes a uint32 as a big-endian 4-byte slice; big-endian
// preserves sort order, which Pebble relies on for range scans.
func encodeKey(k uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, k)
	return b
}

func encodeKeyExclusive(k uint32) []byte { return encodeKey(k + 1) }

type pebbleRangeIterator struct {
	iter  *pebble.Iterator
	first bool
	key   uint32
	val   []byte
}

func (it *pebbleRangeIterator) Next() bool {
	var valid bool
	if it.first {
		it.first = false
		valid = it.iter.Valid()
	} else {
		valid = it.iter.Next()
	}
	if !valid {
		return false
	}
	it.key = binary.BigEndian.Uint32(it.iter.Key())
	v := it.iter.Value()
	it.val = make([]byte, len(v))
	copy(it.val, v)
	return true
}

func (it *pebbleRangeIterator) Key() uint32   { return it.key }
func (it *pebbleRangeIterator) Value() []byte { return it.val }
func (it *pebbleRangeIterator) Close() error  { return it.iter.Close() }
