package btree

import "github.com/bptreedb/bptreedb/pager"

// RootPage is the fixed page number of the tree root (spec §3: "Page 0 is
// always the root of the tree"). Its contents change across root splits;
// the page number never does.
const RootPage uint32 = 0

// Tree is a B+ tree index layered on top of a Pager.
type Tree struct {
	pg *pager.Pager
}

// Open wraps pg as a B+ tree, initializing page 0 as an empty root leaf
// if the pager has no pages yet.
func Open(pg *pager.Pager) (*Tree, error) {
	t := &Tree{pg: pg}
	if pg.NumPages() == 0 {
		root, err := pg.GetPage(RootPage)
		if err != nil {
			return nil, err
		}
		initLeaf(root)
		setIsRoot(root, true)
		if err := pg.MarkDirty(RootPage, root); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Close releases the tree handle. It does not close the underlying pager.
func (t *Tree) Close() error {
	t.pg = nil
	return nil
}

func (t *Tree) readPage(n uint32) (*pager.Page, error) { return t.pg.GetPage(n) }

func (t *Tree) writePage(n uint32, p *pager.Page) error { return t.pg.MarkDirty(n, p) }

func (t *Tree) allocatePage() (uint32, *pager.Page, error) {
	n := t.pg.NumPages()
	p, err := t.pg.GetPage(n)
	if err != nil {
		return 0, nil, err
	}
	return n, p, nil
}
