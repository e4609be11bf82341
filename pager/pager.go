package pager

import (
	"container/list"
	"fmt"
	"os"
)

// Pager manages a page table, optionally backed by a file.
//
// In memory mode (the default, selected by name == "" or ":memory:") every
// touched page stays resident for the pager's whole lifetime — at most
// capacity pages of 4096 bytes each, trivially small — so a page pointer
// returned by GetPage is valid, and stable, until Close. This matches the
// reference engine's contract exactly.
//
// In disk mode (name is a real path) every page is additionally persisted
// to the file and a bounded LRU keeps the hot set in memory; a page number
// beyond capacity is not refused, since the file, not memory, is the real
// address space — this is the "production" mode design note §9 sanctions.
type Pager struct {
	file      *os.File
	cache     *pageCache
	pinned    []*Page // memory mode: index == page number, always resident
	pageCount uint32
	capacity  int
	diskMode  bool
}

// Open opens (or creates) a pager. capacity <= 0 selects DefaultCapacity.
func Open(name string, capacity int) (*Pager, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if name == "" || name == ":memory:" {
		return &Pager{
			pinned:   make([]*Page, 0, capacity),
			capacity: capacity,
		}, nil
	}

	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("pager: open %s: %w", name, err)
	}
	p := &Pager{
		file:     f,
		capacity: capacity,
		diskMode: true,
	}
	p.cache = newPageCache(capacity, p.writePageToDisk)
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pager: stat %s: %w", name, err)
	}
	p.pageCount = uint32(info.Size() / PageSize)
	return p, nil
}

// GetPage returns page n, zero-allocating it on first touch. In memory
// mode it refuses n >= capacity with ErrPageLimitExceeded.
func (p *Pager) GetPage(n uint32) (*Page, error) {
	if !p.diskMode {
		if int(n) >= p.capacity {
			return nil, ErrPageLimitExceeded
		}
		for uint32(len(p.pinned)) <= n {
			p.pinned = append(p.pinned, new(Page))
		}
		if n >= p.pageCount {
			p.pageCount = n + 1
		}
		return p.pinned[n], nil
	}

	if pg := p.cache.get(n); pg != nil {
		if n >= p.pageCount {
			p.pageCount = n + 1
		}
		return pg, nil
	}

	var pg *Page
	if n < p.pageCount {
		var err error
		pg, err = p.readPageFromDisk(n)
		if err != nil {
			return nil, err
		}
	} else {
		pg = new(Page)
		if err := p.writePageToDisk(n, pg); err != nil {
			return nil, err
		}
		p.pageCount = n + 1
	}
	if err := p.cache.put(n, pg, false); err != nil {
		return nil, err
	}
	return pg, nil
}

// NumPages reports the high-water-mark page count.
func (p *Pager) NumPages() uint32 { return p.pageCount }

// Capacity reports the pager's configured page-table size (memory mode)
// or LRU size (disk mode).
func (p *Pager) Capacity() int { return p.capacity }

// IsDiskBacked reports whether this pager persists pages to a file.
func (p *Pager) IsDiskBacked() bool { return p.diskMode }

// MarkDirty records that page n has changed; a no-op in memory mode, where
// the resident buffer is the only copy anyway. In disk mode the page is
// held in the cache as dirty and written back lazily, either when it is
// evicted to make room for another page or at Close — so a burst of
// writes to the same hot page costs one disk write, not one per call.
func (p *Pager) MarkDirty(n uint32, pg *Page) error {
	if !p.diskMode {
		return nil
	}
	return p.cache.put(n, pg, true)
}

// Close flushes every dirty page still resident, then releases all page
// memory and, in disk mode, closes the backing file.
func (p *Pager) Close() error {
	if !p.diskMode {
		p.pinned = nil
		return nil
	}
	if err := p.cache.flushAll(); err != nil {
		return err
	}
	return p.file.Close()
}

func (p *Pager) offset(n uint32) int64 { return int64(n) * PageSize }

func (p *Pager) readPageFromDisk(n uint32) (*Page, error) {
	pg := new(Page)
	if _, err := p.file.ReadAt(pg[:], p.offset(n)); err != nil {
		return nil, fmt.Errorf("pager: read page %d: %w", n, err)
	}
	return pg, nil
}

func (p *Pager) writePageToDisk(n uint32, pg *Page) error {
	if _, err := p.file.WriteAt(pg[:], p.offset(n)); err != nil {
		return fmt.Errorf("pager: write page %d: %w", n, err)
	}
	return nil
}

// ─── Page cache (disk mode only) ───────────────────────────────────────────
//
// pageCache is a write-back LRU over *Page buffers, built on container/list
// rather than a hand-rolled intrusive list: eviction of a page that was
// marked dirty since it was last read from disk flushes it through the
// supplied flush func before it is dropped, so MarkDirty doesn't have to
// hit the file on every call — only on eviction or Close.

type cacheEntry struct {
	id    uint32
	page  *Page
	dirty bool
}

type pageCache struct {
	cap   int
	order *list.List
	items map[uint32]*list.Element
	flush func(id uint32, pg *Page) error
}

func newPageCache(cap int, flush func(id uint32, pg *Page) error) *pageCache {
	return &pageCache{
		cap:   cap,
		order: list.New(),
		items: make(map[uint32]*list.Element, cap),
		flush: flush,
	}
}

// get returns the cached page for id, promoting it to most-recently-used,
// or nil if id is not resident.
func (c *pageCache) get(id uint32) *Page {
	e, ok := c.items[id]
	if !ok {
		return nil
	}
	c.order.MoveToFront(e)
	return e.Value.(*cacheEntry).page
}

// put installs (or updates) the entry for id, marking it dirty if dirty is
// true, and evicts the least-recently-used entry if this pushes the cache
// over capacity — flushing it first if it too is dirty.
func (c *pageCache) put(id uint32, pg *Page, dirty bool) error {
	if e, ok := c.items[id]; ok {
		ent := e.Value.(*cacheEntry)
		ent.page = pg
		ent.dirty = ent.dirty || dirty
		c.order.MoveToFront(e)
		return nil
	}
	e := c.order.PushFront(&cacheEntry{id: id, page: pg, dirty: dirty})
	c.items[id] = e
	if c.order.Len() > c.cap {
		return c.evictLRU()
	}
	return nil
}

func (c *pageCache) evictLRU() error {
	tail := c.order.Back()
	if tail == nil {
		return nil
	}
	ent := tail.Value.(*cacheEntry)
	if ent.dirty {
		if err := c.flush(ent.id, ent.page); err != nil {
			return err
		}
	}
	c.order.Remove(tail)
	delete(c.items, ent.id)
	return nil
}

// flushAll writes back every still-dirty entry, in least-recently-used
// order, without evicting them. Called from Pager.Close.
func (c *pageCache) flushAll() error {
	for e := c.order.Back(); e != nil; e = e.Prev() {
		ent := e.Value.(*cacheEntry)
		if ent.dirty {
			if err := c.flush(ent.id, ent.page); err != nil {
				return err
			}
			ent.dirty = false
		}
	}
	return nil
}
