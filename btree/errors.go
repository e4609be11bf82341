package btree

import "errors"

var (
	// ErrDuplicateKey is returned by Insert when the key is already present.
	ErrDuplicateKey = errors.New("btree: duplicate key")

	// ErrBufferTooSmall is carried for taxonomy parity with the original
	// spec's C-shaped GetValue contract; unreachable from this package's
	// idiomatic ([]byte, error) GetValue, which always returns a
	// right-sized copy. See SPEC_FULL.md REDESIGN FLAGS.
	ErrBufferTooSmall = errors.New("btree: buffer too small")

	// ErrCorruptNode is returned when a traversal observes a child index
	// out of range or a node type outside {LEAF, INTERNAL}.
	ErrCorruptNode = errors.New("btree: corrupt node")

	// ErrKeyNotFound is returned by operations that require an existing key.
	ErrKeyNotFound = errors.New("btree: key not found")

	// ErrValueTooLarge is returned by Insert when a leaf split finds no
	// single boundary that leaves both halves within one page: either one
	// key/value cell alone exceeds a page, or the cells would need more
	// than two pages.
	ErrValueTooLarge = errors.New("btree: value too large for a single page")
)
