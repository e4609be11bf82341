package btree

import (
	"encoding/binary"

	"github.com/bptreedb/bptreedb/pager"
)

// ─── Common header ─────────────────────────────────────────────────────────

func nodeType(p *pager.Page) byte { return p[offNodeType] }

func setNodeType(p *pager.Page, t byte) { p[offNodeType] = t }

func isLeaf(p *pager.Page) bool { return nodeType(p) == NodeLeaf }

func isRoot(p *pager.Page) bool { return p[offIsRoot] != 0 }

func setIsRoot(p *pager.Page, v bool) {
	if v {
		p[offIsRoot] = 1
	} else {
		p[offIsRoot] = 0
	}
}

func parent(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p[offParent : offParent+4])
}

func setParent(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p[offParent:offParent+4], n)
}

// ─── Leaf header ────────────────────────────────────────────────────────────

func leafNumCells(p *pager.Page) int {
	return int(binary.LittleEndian.Uint16(p[offLeafNumCells : offLeafNumCells+2]))
}

func setLeafNumCells(p *pager.Page, n int) {
	binary.LittleEndian.PutUint16(p[offLeafNumCells:offLeafNumCells+2], uint16(n))
}

func leafNextLeaf(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p[offLeafNextLeaf : offLeafNextLeaf+4])
}

func setLeafNextLeaf(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p[offLeafNextLeaf:offLeafNextLeaf+4], n)
}

// initLeaf zeroes p and writes a fresh, empty leaf header.
func initLeaf(p *pager.Page) {
	for i := range p {
		p[i] = 0
	}
	setNodeType(p, NodeLeaf)
	setLeafNumCells(p, 0)
	setLeafNextLeaf(p, 0)
}

// leafCellOffset returns the byte offset of cell i, computed by summing
// the serialized size of every cell before it — cells are packed
// sequentially from offset 12, not addressed through a pointer array.
func leafCellOffset(p *pager.Page, i int) int {
	off := leafHeaderSize
	for j := 0; j < i; j++ {
		_, valueSize := leafCellKeyAndSize(p, off)
		off += leafCellFixedSize + valueSize
	}
	return off
}

func leafCellKeyAndSize(p *pager.Page, off int) (key uint32, valueSize int) {
	key = binary.LittleEndian.Uint32(p[off : off+4])
	valueSize = int(binary.LittleEndian.Uint32(p[off+4 : off+8]))
	return
}

// LeafCellKey returns the key stored in cell i.
func LeafCellKey(p *pager.Page, i int) uint32 {
	off := leafCellOffset(p, i)
	k, _ := leafCellKeyAndSize(p, off)
	return k
}

// LeafCellValue returns a copy of the value stored in cell i.
func LeafCellValue(p *pager.Page, i int) []byte {
	off := leafCellOffset(p, i)
	_, size := leafCellKeyAndSize(p, off)
	v := make([]byte, size)
	copy(v, p[off+leafCellFixedSize:off+leafCellFixedSize+size])
	return v
}

func leafCellSize(value []byte) int { return leafCellFixedSize + len(value) }

// leafUsedBytes sums the serialized size of every existing cell.
func leafUsedBytes(p *pager.Page, n int) int {
	return leafCellOffset(p, n) - leafHeaderSize
}

// fitsInLeaf reports whether one more cell of the given value size fits in
// the page's remaining free space, alongside the nominal LeafMaxCells cap.
func fitsInLeaf(p *pager.Page, n int, value []byte) bool {
	if n >= LeafMaxCells {
		return false
	}
	used := leafUsedBytes(p, n)
	return used+leafCellSize(value) <= leafCapacity
}

// writeLeafCellAt writes [key|value_size|value] at byte offset off.
func writeLeafCellAt(p *pager.Page, off int, key uint32, value []byte) {
	binary.LittleEndian.PutUint32(p[off:off+4], key)
	binary.LittleEndian.PutUint32(p[off+4:off+8], uint32(len(value)))
	copy(p[off+leafCellFixedSize:], value)
}

// insertLeafCell shifts cells [pos..n) right to make room, then writes the
// new cell at pos.
func insertLeafCell(p *pager.Page, n, pos int, key uint32, value []byte) {
	insertOff := leafCellOffset(p, pos)
	tailOff := leafCellOffset(p, n)
	size := leafCellSize(value)
	// Shift the tail right by size bytes, highest address first.
	copy(p[insertOff+size:tailOff+size], p[insertOff:tailOff])
	writeLeafCellAt(p, insertOff, key, value)
	setLeafNumCells(p, n+1)
}

// ─── Internal header ────────────────────────────────────────────────────────

func internalNumKeys(p *pager.Page) int {
	return int(binary.LittleEndian.Uint16(p[offInternalNumKeys : offInternalNumKeys+2]))
}

func setInternalNumKeys(p *pager.Page, n int) {
	binary.LittleEndian.PutUint16(p[offInternalNumKeys:offInternalNumKeys+2], uint16(n))
}

func internalRightChild(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p[offInternalRightChild : offInternalRightChild+4])
}

func setInternalRightChild(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p[offInternalRightChild:offInternalRightChild+4], n)
}

func initInternal(p *pager.Page) {
	for i := range p {
		p[i] = 0
	}
	setNodeType(p, NodeInternal)
	setInternalNumKeys(p, 0)
	setInternalRightChild(p, 0)
}

func internalCellOffset(i int) int { return internalHeaderSize + i*internalCellSize }

// InternalCellChild returns the left-child page number of cell i.
func InternalCellChild(p *pager.Page, i int) uint32 {
	off := internalCellOffset(i)
	return binary.LittleEndian.Uint32(p[off : off+4])
}

// InternalCellKey returns the routing key of cell i.
func InternalCellKey(p *pager.Page, i int) uint32 {
	off := internalCellOffset(i)
	return binary.LittleEndian.Uint32(p[off+4 : off+8])
}

func setInternalCellChild(p *pager.Page, i int, child uint32) {
	off := internalCellOffset(i)
	binary.LittleEndian.PutUint32(p[off:off+4], child)
}

func setInternalCellKey(p *pager.Page, i int, key uint32) {
	off := internalCellOffset(i)
	binary.LittleEndian.PutUint32(p[off+4:off+8], key)
}

func writeInternalCellAt(p *pager.Page, i int, child, key uint32) {
	setInternalCellChild(p, i, child)
	setInternalCellKey(p, i, key)
}

// internalChildAt returns the child reachable at position idx out of n
// keys: children[0..n-1] are the cells' left children, children[n] is
// right_child.
func internalChildAt(p *pager.Page, idx, n int) uint32 {
	if idx == n {
		return internalRightChild(p)
	}
	return InternalCellChild(p, idx)
}

// GetNodeMaxKey returns, for a leaf, the last cell's key (the largest key
// in the leaf); for an internal node, the last routing key (convention
// (b) from SPEC_FULL.md §9 — no right_child recursion). For an internal
// node this is not the subtree's largest key: keys under right_child are
// greater and are not consulted.
func GetNodeMaxKey(p *pager.Page) uint32 {
	if isLeaf(p) {
		n := leafNumCells(p)
		return LeafCellKey(p, n-1)
	}
	n := internalNumKeys(p)
	return InternalCellKey(p, n-1)
}
