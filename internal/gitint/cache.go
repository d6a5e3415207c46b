package gitint

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"github.com/anthropic/linecredit/internal/authorship"
)

// Query kinds, used as cache namespaces.
const (
	KindParents = "parents"
	KindDiff    = "diff"
	KindBlame   = "blame"
)

var (
	_ authorship.Querier = (*Client)(nil)
	_ authorship.Querier = (*Cached)(nil)
)

// PersistentCache stores raw query output across runs. *store.Store
// implements it.
type PersistentCache interface {
	GetQuery(kind, key string) (value string, found bool, err error)
	PutQuery(kind, key, value string) error
}

// CacheStats counts cache outcomes since the Cached querier was created.
type CacheStats struct {
	MemoryHits int64
	DiskHits   int64
	Misses     int64
}

// Cached is an authorship.Querier that answers from an in-memory LRU, then
// from an optional persistent cache, and only then from the wrapped Querier.
// Every key includes a commit hash, so entries never need invalidation.
type Cached struct {
	inner authorship.Querier
	mem   *lru.Cache
	disk  PersistentCache

	memHits  atomic.Int64
	diskHits atomic.Int64
	misses   atomic.Int64
}

// NewCached wraps inner with an LRU of memoryEntries items. disk may be nil.
func NewCached(inner authorship.Querier, memoryEntries int, disk PersistentCache) (*Cached, error) {
	if memoryEntries <= 0 {
		memoryEntries = 1
	}
	mem, err := lru.New(memoryEntries)
	if err != nil {
		return nil, fmt.Errorf("create query lru: %w", err)
	}
	return &Cached{inner: inner, mem: mem, disk: disk}, nil
}

// Stats returns a snapshot of hit and miss counters.
func (c *Cached) Stats() CacheStats {
	return CacheStats{
		MemoryHits: c.memHits.Load(),
		DiskHits:   c.diskHits.Load(),
		Misses:     c.misses.Load(),
	}
}

// ParentCommits implements authorship.Querier.
func (c *Cached) ParentCommits(ctx context.Context, commitHash string) ([]string, error) {
	out, err := c.get(ctx, KindParents, commitHash, func() (string, error) {
		parents, err := c.inner.ParentCommits(ctx, commitHash)
		if err != nil {
			return "", err
		}
		return strings.Join(parents, " "), nil
	})
	if err != nil {
		return nil, err
	}
	return strings.Fields(out), nil
}

// Diff implements authorship.Querier.
func (c *Cached) Diff(ctx context.Context, fromCommit, toCommit string) (string, error) {
	return c.get(ctx, KindDiff, fromCommit+".."+toCommit, func() (string, error) {
		return c.inner.Diff(ctx, fromCommit, toCommit)
	})
}

// BlameLine implements authorship.Querier.
func (c *Cached) BlameLine(ctx context.Context, commitHash, filePath string, lineNumber int) (string, error) {
	key := fmt.Sprintf("%s:%d:%s", commitHash, lineNumber, filePath)
	return c.get(ctx, KindBlame, key, func() (string, error) {
		return c.inner.BlameLine(ctx, commitHash, filePath, lineNumber)
	})
}

func (c *Cached) get(ctx context.Context, kind, key string, fetch func() (string, error)) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	memKey := kind + "\x00" + key
	if v, ok := c.mem.Get(memKey); ok {
		c.memHits.Add(1)
		return v.(string), nil
	}

	if c.disk != nil {
		v, found, err := c.disk.GetQuery(kind, key)
		if err != nil {
			// A broken cache must not change results; fall through to git.
			log.Printf("gitint: read %s cache for %s: %v", kind, key, err)
		} else if found {
			c.diskHits.Add(1)
			c.mem.Add(memKey, v)
			return v, nil
		}
	}

	c.misses.Add(1)
	v, err := fetch()
	if err != nil {
		return "", err
	}
	c.mem.Add(memKey, v)
	if c.disk != nil {
		if err := c.disk.PutQuery(kind, key, v); err != nil {
			log.Printf("gitint: write %s cache for %s: %v", kind, key, err)
		}
	}
	return v, nil
}
