package btree

import "github.com/bptreedb/bptreedb/pager"

// Insert inserts key/value, returning ErrDuplicateKey if key is already
// present. The tree is left unchanged on error. value is copied; the
// caller may reuse its buffer after Insert returns.
func (t *Tree) Insert(key uint32, value []byte) error {
	leafID, err := t.findLeaf(key)
	if err != nil {
		return err
	}
	p, err := t.readPage(leafID)
	if err != nil {
		return err
	}
	if nodeType(p) != NodeLeaf {
		return ErrCorruptNode
	}
	n := leafNumCells(p)
	idx := findLeafCellIdx(p, key, n)
	if idx < n && LeafCellKey(p, idx) == key {
		return ErrDuplicateKey
	}
	if fitsInLeaf(p, n, value) {
		insertLeafCell(p, n, idx, key, value)
		return t.writePage(leafID, p)
	}
	return t.splitLeafAndPromote(leafID, p, n, idx, key, value)
}

type leafEntry struct {
	key   uint32
	value []byte
}

// leafCapacity is the usable byte space for cells on a single leaf page.
const leafCapacity = pager.PageSize - leafHeaderSize

// leafSplitPoint computes how many of all's entries (in order) go to the
// left half of a leaf split, so that both halves fit within leafCapacity.
// The split must fall at a single contiguous boundary (cells keep their
// relative order), so this searches outward from LeafLeftSplitCount (the
// nominal count-based split) for the nearest boundary where both halves'
// total byte size fits a page, returning ErrValueTooLarge if none does —
// either because one entry alone exceeds a page, or because no boundary
// in [1, total-1] satisfies both sides at once.
func leafSplitPoint(all []leafEntry) (int, error) {
	total := len(all)
	prefix := make([]int, total+1)
	for i, e := range all {
		size := leafCellSize(e.value)
		if size > leafCapacity {
			return 0, ErrValueTooLarge
		}
		prefix[i+1] = prefix[i] + size
	}

	fits := func(left int) bool {
		return prefix[left] <= leafCapacity && prefix[total]-prefix[left] <= leafCapacity
	}

	nominal := LeafLeftSplitCount
	if nominal > total-1 {
		nominal = total - 1
	}
	if nominal < 1 {
		nominal = 1
	}
	if fits(nominal) {
		return nominal, nil
	}
	for d := 1; d < total; d++ {
		if nominal-d >= 1 && fits(nominal-d) {
			return nominal - d, nil
		}
		if nominal+d <= total-1 && fits(nominal+d) {
			return nominal + d, nil
		}
	}
	return 0, ErrValueTooLarge
}

// splitLeafAndPromote splits an overfull leaf (id, holding n existing
// cells) around the new (key, value) at insertion position idx, then
// installs the result in the parent (or creates a new root).
func (t *Tree) splitLeafAndPromote(id uint32, p *pager.Page, n, idx int, key uint32, value []byte) error {
	wasRoot := isRoot(p)
	oldParent := parent(p)
	var oldMaxBeforeSplit uint32
	if n > 0 {
		oldMaxBeforeSplit = LeafCellKey(p, n-1)
	}

	all := make([]leafEntry, n+1)
	for i := 0; i < n; i++ {
		all[i] = leafEntry{LeafCellKey(p, i), LeafCellValue(p, i)}
	}
	copy(all[idx+1:], all[idx:n])
	all[idx] = leafEntry{key, value}

	left, err := leafSplitPoint(all)
	if err != nil {
		return err
	}

	oldNext := leafNextLeaf(p)
	newID, newPage, err := t.allocatePage()
	if err != nil {
		return err
	}

	initLeaf(newPage)
	setParent(newPage, oldParent)
	setLeafNextLeaf(newPage, oldNext)
	for i := left; i <= n; i++ {
		off := leafCellOffset(newPage, i-left)
		writeLeafCellAt(newPage, off, all[i].key, all[i].value)
		setLeafNumCells(newPage, i-left+1)
	}

	initLeaf(p)
	setParent(p, oldParent)
	setIsRoot(p, wasRoot)
	setLeafNextLeaf(p, newID)
	for i := 0; i < left; i++ {
		off := leafCellOffset(p, i)
		writeLeafCellAt(p, off, all[i].key, all[i].value)
		setLeafNumCells(p, i+1)
	}

	if err := t.writePage(id, p); err != nil {
		return err
	}
	if err := t.writePage(newID, newPage); err != nil {
		return err
	}

	newOldMax := all[left-1].key

	if wasRoot {
		return t.createNewRoot(p, newOldMax, newID)
	}
	return t.absorbSplitChild(oldParent, oldMaxBeforeSplit, newOldMax, newID)
}

// absorbSplitChild installs the result of a split into parentID: the
// existing routing key that used to bound the split node's pre-split max
// is rewritten to its post-split max (a no-op if the split node was
// parentID's right_child, which has no explicit routing key), and a new
// cell is inserted for the sibling produced by the split.
func (t *Tree) absorbSplitChild(parentID, oldMax, newMax, newChildID uint32) error {
	if oldMax != newMax {
		if err := t.updateInternalNodeKey(parentID, oldMax, newMax); err != nil {
			return err
		}
	}
	return t.internalNodeInsert(parentID, newChildID)
}

// updateInternalNodeKey rewrites the routing key equal to oldKey (if any)
// to newKey. If no explicit cell carries oldKey, the bounded child is
// parentID's right_child, which has no stored key to rewrite; this is
// not an error.
func (t *Tree) updateInternalNodeKey(parentID, oldKey, newKey uint32) error {
	p, err := t.readPage(parentID)
	if err != nil {
		return err
	}
	n := internalNumKeys(p)
	for i := 0; i < n; i++ {
		if InternalCellKey(p, i) == oldKey {
			setInternalCellKey(p, i, newKey)
			return t.writePage(parentID, p)
		}
	}
	return nil
}

// internalNodeInsert installs newChildID as a child of parentID, routed
// by its own max key.
func (t *Tree) internalNodeInsert(parentID, newChildID uint32) error {
	childPage, err := t.readPage(newChildID)
	if err != nil {
		return err
	}
	childMax := GetNodeMaxKey(childPage)
	setParent(childPage, parentID)
	if err := t.writePage(newChildID, childPage); err != nil {
		return err
	}

	p, err := t.readPage(parentID)
	if err != nil {
		return err
	}
	n := internalNumKeys(p)
	idx := findLeafInternalIdx(p, childMax, n)

	if n < InternalMaxCells {
		if idx == n {
			oldRight := internalRightChild(p)
			oldRightPage, err := t.readPage(oldRight)
			if err != nil {
				return err
			}
			oldRightMax := GetNodeMaxKey(oldRightPage)
			if childMax > oldRightMax {
				// The new child lies past right_child, which moves into
				// an explicit cell.
				writeInternalCellAt(p, idx, oldRight, oldRightMax)
				setInternalRightChild(p, newChildID)
			} else {
				// The new child falls between the last cell and
				// right_child (children[n-1] was split and its key lowered).
				writeInternalCellAt(p, idx, newChildID, childMax)
			}
		} else {
			for i := n; i > idx; i-- {
				writeInternalCellAt(p, i, InternalCellChild(p, i-1), InternalCellKey(p, i-1))
			}
			writeInternalCellAt(p, idx, newChildID, childMax)
		}
		setInternalNumKeys(p, n+1)
		return t.writePage(parentID, p)
	}

	return t.splitInternalAndPromote(parentID, p, n, idx, newChildID, childMax)
}

// splitInternalAndPromote splits an overfull internal node (id, holding n
// existing cells) around newChildID at insertion position idx, then
// installs the result in the grandparent (or creates a new root).
func (t *Tree) splitInternalAndPromote(id uint32, p *pager.Page, n, idx int, newChildID, childMax uint32) error {
	wasRoot := isRoot(p)
	oldParent := parent(p)
	var oldMaxBeforeSplit uint32
	if n > 0 {
		oldMaxBeforeSplit = InternalCellKey(p, n-1)
	}

	oldKeys := make([]uint32, n)
	oldChildren := make([]uint32, n+1)
	for i := 0; i < n; i++ {
		oldKeys[i] = InternalCellKey(p, i)
		oldChildren[i] = InternalCellChild(p, i)
	}
	oldChildren[n] = internalRightChild(p)

	tempKeys := make([]uint32, n+1)
	copy(tempKeys[:idx], oldKeys[:idx])
	tempKeys[idx] = childMax
	copy(tempKeys[idx+1:], oldKeys[idx:])

	tempChildren := make([]uint32, n+2)
	copy(tempChildren[:idx+1], oldChildren[:idx+1])
	tempChildren[idx+1] = newChildID
	copy(tempChildren[idx+2:], oldChildren[idx+1:])

	total := n + 1
	split := total / 2
	rightCount := total - split - 1

	newID, newPage, err := t.allocatePage()
	if err != nil {
		return err
	}

	initInternal(p)
	setIsRoot(p, wasRoot)
	setParent(p, oldParent)
	for i := 0; i < split; i++ {
		writeInternalCellAt(p, i, tempChildren[i], tempKeys[i])
	}
	setInternalNumKeys(p, split)
	setInternalRightChild(p, tempChildren[split])

	initInternal(newPage)
	setParent(newPage, oldParent)
	for i := 0; i < rightCount; i++ {
		writeInternalCellAt(newPage, i, tempChildren[split+1+i], tempKeys[split+1+i])
	}
	setInternalNumKeys(newPage, rightCount)
	setInternalRightChild(newPage, tempChildren[total])

	if err := t.writePage(id, p); err != nil {
		return err
	}
	if err := t.writePage(newID, newPage); err != nil {
		return err
	}

	// Update the parent back-pointer of every child of both nodes.
	for i := 0; i <= split; i++ {
		if err := t.setChildParent(tempChildren[i], id); err != nil {
			return err
		}
	}
	for i := split + 1; i <= total; i++ {
		if err := t.setChildParent(tempChildren[i], newID); err != nil {
			return err
		}
	}

	newXMax := GetNodeMaxKey(p)

	if wasRoot {
		return t.createNewRoot(p, newXMax, newID)
	}
	return t.absorbSplitChild(oldParent, oldMaxBeforeSplit, newXMax, newID)
}

func (t *Tree) setChildParent(childID, parentID uint32) error {
	cp, err := t.readPage(childID)
	if err != nil {
		return err
	}
	setParent(cp, parentID)
	return t.writePage(childID, cp)
}

// createNewRoot splits the root: leftContent (the current, already
// reinitialized page 0 holding the split node's left half) is copied to
// a freshly allocated page, and page 0 is reinitialized as the new
// internal root with a single routing key bounding the copy, and
// rightChildID as its right_child.
func (t *Tree) createNewRoot(leftContent *pager.Page, routingKey, rightChildID uint32) error {
	leftID, leftPage, err := t.allocatePage()
	if err != nil {
		return err
	}
	*leftPage = *leftContent
	setIsRoot(leftPage, false)
	setParent(leftPage, RootPage)
	if err := t.writePage(leftID, leftPage); err != nil {
		return err
	}

	root, err := t.readPage(RootPage)
	if err != nil {
		return err
	}
	initInternal(root)
	setIsRoot(root, true)
	writeInternalCellAt(root, 0, leftID, routingKey)
	setInternalNumKeys(root, 1)
	setInternalRightChild(root, rightChildID)
	if err := t.writePage(RootPage, root); err != nil {
		return err
	}

	return t.setChildParent(rightChildID, RootPage)
}
