package btree

import "github.com/bptreedb/bptreedb/pager"

// Cursor binds a tree reference, a leaf page number, a cell index, and an
// end-of-table flag. It borrows from the tree and is not updated by later
// inserts: after a split it may point at a cell that has moved.
type Cursor struct {
	tree       *Tree
	leaf       uint32
	cell       int
	EndOfTable bool
}

// findLeafInternalIdx finds the smallest index i such that keys[i] >= key,
// or numKeys if no such index exists.
func findLeafInternalIdx(p *pager.Page, key uint32, n int) int {
	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		if InternalCellKey(p, mid) < key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// findLeafCellIdx finds the smallest index i such that keys[i] >= key, or
// numCells if no such index exists (the cell's insertion position).
func findLeafCellIdx(p *pager.Page, key uint32, n int) int {
	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		if LeafCellKey(p, mid) < key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// findLeaf descends from the root to the leaf that would contain key.
func (t *Tree) findLeaf(key uint32) (uint32, error) {
	curr := RootPage
	for {
		p, err := t.readPage(curr)
		if err != nil {
			return 0, err
		}
		if isLeaf(p) {
			return curr, nil
		}
		n := internalNumKeys(p)
		idx := findLeafInternalIdx(p, key, n)
		if idx > n {
			return 0, ErrCorruptNode
		}
		curr = internalChildAt(p, idx, n)
	}
}

// Find descends from the root and returns a cursor at key's cell, or at
// the position key would be inserted at.
func (t *Tree) Find(key uint32) (*Cursor, error) {
	leafID, err := t.findLeaf(key)
	if err != nil {
		return nil, err
	}
	p, err := t.readPage(leafID)
	if err != nil {
		return nil, err
	}
	n := leafNumCells(p)
	pos := findLeafCellIdx(p, key, n)
	return &Cursor{tree: t, leaf: leafID, cell: pos}, nil
}

// Start returns a cursor positioned at the leftmost leaf's first cell.
// EndOfTable is set if the tree is empty.
func (t *Tree) Start() (*Cursor, error) {
	curr := RootPage
	for {
		p, err := t.readPage(curr)
		if err != nil {
			return nil, err
		}
		if isLeaf(p) {
			c := &Cursor{tree: t, leaf: curr, cell: 0}
			c.EndOfTable = leafNumCells(p) == 0
			return c, nil
		}
		if nodeType(p) != NodeInternal {
			return nil, ErrCorruptNode
		}
		curr = internalChildAt(p, 0, internalNumKeys(p))
	}
}

// Advance moves the cursor to the next key in ascending order, following
// next_leaf when the current leaf is exhausted.
func (c *Cursor) Advance() error {
	p, err := c.tree.readPage(c.leaf)
	if err != nil {
		return err
	}
	c.cell++
	if c.cell < leafNumCells(p) {
		return nil
	}
	next := leafNextLeaf(p)
	if next == 0 {
		c.EndOfTable = true
		return nil
	}
	c.leaf = next
	c.cell = 0
	return nil
}

// Key returns the key at the cursor's current position.
func (c *Cursor) Key() (uint32, error) {
	p, err := c.tree.readPage(c.leaf)
	if err != nil {
		return 0, err
	}
	if c.cell >= leafNumCells(p) {
		return 0, ErrKeyNotFound
	}
	return LeafCellKey(p, c.cell), nil
}

// GetValue returns a copy of the value at the cursor's current position.
func (c *Cursor) GetValue() ([]byte, error) {
	p, err := c.tree.readPage(c.leaf)
	if err != nil {
		return nil, err
	}
	if c.cell >= leafNumCells(p) {
		return nil, ErrKeyNotFound
	}
	return LeafCellValue(p, c.cell), nil
}

// Page exposes the leaf page number the cursor currently sits on
// (diagnostics/test use only).
func (c *Cursor) Page() uint32 { return c.leaf }

// CellIndex exposes the cursor's current cell index within its leaf
// (diagnostics/test use only).
func (c *Cursor) CellIndex() int { return c.cell }
