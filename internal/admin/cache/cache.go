// Package cache holds the fetched user data consumed by the admin screen.
//
// Both the user list and per-id details are kept with a freshness window.
// Mutation handlers never patch cached data in place; they invalidate, which
// marks the entry stale and triggers a background refetch. Subscribers are
// notified whenever fresh data lands so views can re-render.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/festy23/useradmin/internal/user/model"
	"github.com/festy23/useradmin/pkg/retry"
)

// Source is the remote read surface the cache fetches from.
type Source interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

type detailEntry struct {
	user      *model.User
	fetchedAt time.Time
}

// Cache caches the user list and per-id details.
type Cache struct {
	source Source
	ttl    time.Duration
	retry  retry.Config
	logger *zap.SugaredLogger

	mu     sync.Mutex
	closed bool

	list          []model.User
	listFetchedAt time.Time
	listVersion   int64
	listGen       int64

	details   map[int64]detailEntry
	detailGen map[int64]int64

	nextSubID int
	subs      map[int]func()
}

// New creates a cache over the given source.
// ttl is the freshness window; readRetries is the number of retries after a
// failed fetch.
func New(source Source, ttl time.Duration, readRetries int, logger *zap.SugaredLogger) *Cache {
	return &Cache{
		source:    source,
		ttl:       ttl,
		retry:     retry.ReadConfig(readRetries),
		logger:    logger,
		details:   map[int64]detailEntry{},
		detailGen: map[int64]int64{},
		subs:      map[int]func(){},
	}
}

// Subscribe registers fn to be called after fresh data lands or an entry is
// invalidated. The returned function cancels the subscription.
func (c *Cache) Subscribe(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// notify calls subscribers outside the lock.
func (c *Cache) notify() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// ListVersion returns a counter that increases every time a freshly fetched
// list is stored. Identical versions mean the identical list value.
func (c *Cache) ListVersion() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listVersion
}

// Users returns the cached user list, fetching it first when missing or stale.
func (c *Cache) Users(ctx context.Context) ([]model.User, error) {
	list, _, err := c.UsersWithVersion(ctx)
	return list, err
}

// UsersWithVersion returns the cached user list together with the version it
// was stored under, fetching first when missing or stale. Both values come
// from the same snapshot, so the version always identifies exactly the
// returned list.
func (c *Cache) UsersWithVersion(ctx context.Context) ([]model.User, int64, error) {
	c.mu.Lock()
	if c.list != nil && time.Since(c.listFetchedAt) < c.ttl {
		list, version := c.list, c.listVersion
		c.mu.Unlock()
		return list, version, nil
	}
	gen := c.listGen
	stale, staleVersion := c.list, c.listVersion
	c.mu.Unlock()

	list, version, err := c.fetchList(ctx, gen)
	if err != nil {
		// Serve the stale copy if there is one; the caller retries later.
		if stale != nil {
			return stale, staleVersion, nil
		}
		return nil, 0, err
	}
	return list, version, nil
}

// fetchList fetches the list and stores it unless gen was superseded
// meanwhile. The returned version is read under the same lock that stores
// the list.
func (c *Cache) fetchList(ctx context.Context, gen int64) ([]model.User, int64, error) {
	list, err := retry.DoWithResult(ctx, c.retry, func() ([]model.User, error) {
		return c.source.ListUsers(ctx)
	})
	if err != nil {
		c.logger.Errorw("list fetch failed", "error", err)
		return nil, 0, err
	}

	c.mu.Lock()
	if c.closed || gen != c.listGen {
		// A later invalidation or Close superseded this fetch; drop it. The
		// newer fetch bumps the version when it lands, so pairing the result
		// with the still-current version stays coherent for the caller.
		version := c.listVersion
		c.mu.Unlock()
		c.logger.Debugw("list fetch superseded", "gen", gen)
		return list, version, nil
	}
	c.list = list
	c.listFetchedAt = time.Now()
	c.listVersion++
	version := c.listVersion
	c.mu.Unlock()

	c.notify()
	return list, version, nil
}

// InvalidateList marks the list stale and refetches it in the background.
func (c *Cache) InvalidateList() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.listGen++
	c.listFetchedAt = time.Time{}
	gen := c.listGen
	c.mu.Unlock()

	c.logger.Debugw("list invalidated", "gen", gen)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		//nolint:errcheck // a failed background refetch leaves the stale copy in place
		_, _, _ = c.fetchList(ctx, gen)
	}()
}

// User returns the cached detail for id, fetching it first when missing or stale.
func (c *Cache) User(ctx context.Context, id int64) (*model.User, error) {
	c.mu.Lock()
	if entry, ok := c.details[id]; ok && time.Since(entry.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return entry.user, nil
	}
	gen := c.detailGen[id]
	c.mu.Unlock()

	user, err := retry.DoWithResult(ctx, c.retry, func() (*model.User, error) {
		return c.source.GetUser(ctx, id)
	})
	if err != nil {
		c.logger.Debugw("detail fetch failed", "id", id, "error", err)
		return nil, err
	}

	c.mu.Lock()
	if c.closed || gen != c.detailGen[id] {
		c.mu.Unlock()
		c.logger.Debugw("detail fetch superseded", "id", id)
		return user, nil
	}
	c.details[id] = detailEntry{user: user, fetchedAt: time.Now()}
	c.mu.Unlock()

	c.notify()
	return user, nil
}

// Peek returns the cached detail for id without fetching, or nil.
func (c *Cache) Peek(id int64) *model.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.details[id]; ok {
		return entry.user
	}
	return nil
}

// InvalidateUser drops the cached detail for id; an in-flight fetch for the
// same id is abandoned.
func (c *Cache) InvalidateUser(id int64) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	delete(c.details, id)
	c.detailGen[id]++
	c.mu.Unlock()

	c.logger.Debugw("detail invalidated", "id", id)
	c.notify()
}

// Close disposes the cache. In-flight fetch results are discarded and no
// further notifications are delivered.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.listGen++
	for id := range c.detailGen {
		c.detailGen[id]++
	}
	c.subs = map[int]func(){}
}
