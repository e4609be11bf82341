package btree

import "fmt"

// Validate walks the whole tree and checks invariants P1-P5 (P6 concerns
// Insert's duplicate handling and is not checked here). It returns the
// first violation found, or nil if the tree is structurally sound.
// This is diagnostic tooling, not part of the data path; exercised by
// tests and by the REPL's ".validate" command.
func (t *Tree) Validate() error {
	var leafDepths []int
	if _, err := t.validateNode(RootPage, true, 0, 0, &leafDepths); err != nil {
		return err
	}
	for i := 1; i < len(leafDepths); i++ {
		if leafDepths[i] != leafDepths[0] {
			return fmt.Errorf("%w: leaves at unequal depth: %d vs %d", ErrCorruptNode, leafDepths[0], leafDepths[i])
		}
	}
	return t.validateLeafChain()
}

// validateNode recursively checks P1 (ascending keys within a node), P3
// (parent/child max-key consistency) and P4 (parent back-pointers),
// collects each leaf's depth into leafDepths for the caller's P5 check,
// and returns the largest key in the node's subtree: a leaf's last cell
// key, or for an internal node the largest key under its right_child.
func (t *Tree) validateNode(id uint32, isRootNode bool, expectParent uint32, depth int, leafDepths *[]int) (uint32, error) {
	p, err := t.readPage(id)
	if err != nil {
		return 0, err
	}
	if !isRootNode && parent(p) != expectParent {
		return 0, fmt.Errorf("%w: page %d has parent %d, want %d", ErrCorruptNode, id, parent(p), expectParent)
	}
	if isRoot(p) != isRootNode {
		return 0, fmt.Errorf("%w: page %d is_root=%v, want %v", ErrCorruptNode, id, isRoot(p), isRootNode)
	}

	switch nodeType(p) {
	case NodeLeaf:
		n := leafNumCells(p)
		var prev uint32
		for i := 0; i < n; i++ {
			k := LeafCellKey(p, i)
			if i > 0 && k <= prev {
				return 0, fmt.Errorf("%w: leaf %d keys out of order at cell %d", ErrCorruptNode, id, i)
			}
			prev = k
		}
		*leafDepths = append(*leafDepths, depth)
		if n == 0 {
			return 0, nil
		}
		return LeafCellKey(p, n-1), nil

	case NodeInternal:
		n := internalNumKeys(p)
		var prevKey uint32
		var maxSeen uint32
		for i := 0; i < n; i++ {
			k := InternalCellKey(p, i)
			if i > 0 && k <= prevKey {
				return 0, fmt.Errorf("%w: internal %d keys out of order at cell %d", ErrCorruptNode, id, i)
			}
			prevKey = k

			childID := InternalCellChild(p, i)
			childMax, err := t.validateNode(childID, false, id, depth+1, leafDepths)
			if err != nil {
				return 0, err
			}
			if childMax != k {
				return 0, fmt.Errorf("%w: internal %d key %d does not match child %d max %d", ErrCorruptNode, id, k, childID, childMax)
			}
			maxSeen = k
		}
		rc := internalRightChild(p)
		childMax, err := t.validateNode(rc, false, id, depth+1, leafDepths)
		if err != nil {
			return 0, err
		}
		if n > 0 && childMax <= maxSeen {
			return 0, fmt.Errorf("%w: internal %d right_child max %d not greater than last key %d", ErrCorruptNode, id, childMax, maxSeen)
		}
		return childMax, nil

	default:
		return 0, fmt.Errorf("%w: page %d has unknown node type %d", ErrCorruptNode, id, nodeType(p))
	}
}

// validateLeafChain checks P2 (keys strictly ascending along the leaf
// chain) by walking next_leaf from the leftmost leaf. It does not compare
// the chain against the set of leaves reachable from the root.
func (t *Tree) validateLeafChain() error {
	cur, err := t.Start()
	if err != nil {
		return err
	}
	var prev uint32
	seen := false
	for !cur.EndOfTable {
		k, err := cur.Key()
		if err != nil {
			return err
		}
		if seen && k <= prev {
			return fmt.Errorf("%w: leaf chain keys out of order: %d after %d", ErrCorruptNode, k, prev)
		}
		prev, seen = k, true
		if err := cur.Advance(); err != nil {
			return err
		}
	}
	return nil
}
