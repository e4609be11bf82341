// Package btree implements a B+ tree index over the pager package: 32-bit
// unsigned integer keys, opaque byte-string values, ordered point lookup
// and range scan via a cursor, duplicate-rejecting insertion.
//
// Page layout (bit-exact, little-endian):
//
//	common header, 6 bytes: u8 type | u8 is_root | u32 parent
//	leaf header continues:  u16 num_cells | u32 next_leaf   (total 12)
//	leaf cells from offset 12: u32 key | u32 value_size | value_size bytes
//	internal header continues: u16 num_keys | u32 right_child (total 12)
//	internal cells from offset 12, 8 bytes each: u32 child | u32 key
package btree

import "github.com/bptreedb/bptreedb/pager"

// Node types.
const (
	NodeInternal byte = 0
	NodeLeaf     byte = 1
)

// Common header offsets.
const (
	offNodeType = 0
	offIsRoot   = 1
	offParent   = 2 // 4 bytes
	headerSize  = 6
)

// Leaf header offsets (continue after the common header).
const (
	offLeafNumCells = headerSize     // 2 bytes
	offLeafNextLeaf = headerSize + 2 // 4 bytes
	leafHeaderSize  = headerSize + 6 // = 12
)

// Internal header offsets (continue after the common header).
const (
	offInternalNumKeys    = headerSize     // 2 bytes
	offInternalRightChild = headerSize + 2 // 4 bytes
	internalHeaderSize    = headerSize + 6 // = 12
)

// leafCellFixedSize is the key+value_size prefix every leaf cell carries;
// the value bytes follow and vary in length.
const leafCellFixedSize = 4 + 4

// internalCellSize is fixed: a child page number and a routing key.
const internalCellSize = 4 + 4

// LeafMaxCells is the spec's documented nominal capacity heuristic (§3).
// Actual capacity is governed by free byte space (see fitsInLeaf); this
// constant is the bound the split-count arithmetic and tests are written
// against.
const LeafMaxCells = 13

// InternalMaxCells = floor((PageSize - internalHeaderSize) / internalCellSize).
const InternalMaxCells = (pager.PageSize - internalHeaderSize) / internalCellSize

// LeafLeftSplitCount is ceil((LeafMaxCells+1)/2), the number of cells that
// remain in the left half of a leaf split.
const LeafLeftSplitCount = (LeafMaxCells + 1 + 1) / 2

// LeafRightSplitCount is the complementary right-half count.
const LeafRightSplitCount = LeafMaxCells + 1 - LeafLeftSplitCount
