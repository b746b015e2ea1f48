package use_cases

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yuzvak/storefront-client/internal/application/ports"
	domainErrors "github.com/yuzvak/storefront-client/internal/domain/errors"
	"github.com/yuzvak/storefront-client/internal/domain/wishlist"
	"github.com/yuzvak/storefront-client/internal/infrastructure/monitoring"
	"github.com/yuzvak/storefront-client/internal/pkg/clock"
	"github.com/yuzvak/storefront-client/internal/pkg/logger"
)

// SetCache is the client-side cache of the server-owned wishlist membership
// set. Reads are instant and tolerate staleness; a failed refresh keeps
// serving the last known snapshot. It is the exclusive owner of the entry:
// product cards read through Contains, the toggler writes through the
// package-private apply hooks, nothing else touches it.
type SetCache struct {
	api ports.WishlistAPI
	clk clock.Clock
	log *logger.Logger
	ttl time.Duration

	mu         sync.Mutex
	entry      *wishlist.Set
	generation uint64

	group singleflight.Group
}

func NewSetCache(api ports.WishlistAPI, clk clock.Clock, log *logger.Logger, ttl time.Duration) *SetCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}

	return &SetCache{
		api: api,
		clk: clk,
		log: log,
		ttl: ttl,
	}
}

// Fetch returns the membership ids, hitting the network only when the entry
// is stale or force is set. Concurrent callers share a single outstanding
// request. On failure the prior entry is left untouched and the error is
// returned to the caller only; there is no automatic retry.
func (c *SetCache) Fetch(ctx context.Context, force bool) ([]string, error) {
	c.mu.Lock()
	if !force && c.entry.Fresh(c.clk.Now()) {
		ids := c.entry.IDs()
		c.mu.Unlock()
		monitoring.WishlistCacheHitsTotal.Inc()
		return ids, nil
	}
	generation := c.generation
	c.mu.Unlock()

	monitoring.WishlistCacheMissesTotal.Inc()

	result, err, _ := c.group.Do("fetch", func() (interface{}, error) {
		ids, err := c.api.FetchSet(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ids, generation)
		return ids, nil
	})
	if err != nil {
		monitoring.WishlistRefreshFailureTotal.Inc()
		c.log.Warn("Wishlist refresh failed, serving prior entry", "error", err)
		return nil, err
	}

	monitoring.WishlistRefreshTotal.Inc()
	return result.([]string), nil
}

// store replaces the entry unless the cache was invalidated while the fetch
// was in flight; a stale-generation result is discarded rather than
// resurrecting a cleared entry.
func (c *SetCache) store(ids []string, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != generation {
		c.log.Debug("Discarding superseded wishlist fetch result", "ids_count", len(ids))
		return
	}
	c.entry = wishlist.NewSet(ids, c.clk.Now(), c.ttl)
}

// Contains is a pure read against the current entry. It never triggers a
// fetch; a cold cache reports false.
func (c *SetCache) Contains(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry.Contains(id)
}

// Invalidate clears the entry entirely, so the next read starts cold.
// Called on logout.
func (c *SetCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
	c.generation++
}

func (c *SetCache) currentGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// applyLocal force-sets local membership for one id. A cold cache gets an
// empty entry stamped in the past, so the next Fetch still refreshes. The
// write is dropped when the cache was invalidated after the caller took its
// generation; a rollback must not resurrect an entry logout cleared.
func (c *SetCache) applyLocal(id string, in bool, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != generation {
		return
	}
	if c.entry == nil {
		c.entry = wishlist.NewSet(nil, time.Time{}, c.ttl)
	}
	if in {
		c.entry.Add(id)
	} else {
		c.entry.Remove(id)
	}
}

// Toggler wraps a single membership toggle with optimistic local
// application: apply, request, reconcile-or-rollback. Mutations on the same
// id are serialized so rapid toggles converge to the state implied by the
// order the server responses complete.
type Toggler struct {
	cache *SetCache
	api   ports.WishlistAPI
	log   *logger.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewToggler(cache *SetCache, api ports.WishlistAPI, log *logger.Logger) *Toggler {
	return &Toggler{
		cache: cache,
		api:   api,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}
}

func (t *Toggler) lockFor(id string) *sync.Mutex {
	t.locksMu.Lock()
	defer t.locksMu.Unlock()

	lock, ok := t.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[id] = lock
	}
	return lock
}

// Toggle flips membership for one product. The cache reflects the new state
// before the request is issued; on success it is force-set to the state the
// server declares, on failure it reverts to the prior state and the error
// surfaces to the caller. A 401 propagates untouched for global session
// teardown.
func (t *Toggler) Toggle(ctx context.Context, id string) (bool, error) {
	lock := t.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	monitoring.ToggleAttemptsTotal.Inc()

	generation := t.cache.currentGeneration()
	wasIn := t.cache.Contains(id)
	mutation := wishlist.NewPendingMutation(id, wasIn)
	t.cache.applyLocal(id, mutation.Optimistic(), generation)

	status, err := t.api.Toggle(ctx, id)
	if err != nil {
		t.cache.applyLocal(id, mutation.PriorState, generation)
		monitoring.ToggleRollbackTotal.Inc()

		if domainErrors.IsAuth(err) {
			return false, err
		}
		t.log.Warn("Wishlist toggle failed, rolled back", "product_id", id, "error", err)
		return false, err
	}

	serverIn := status == ports.ToggleStatusAdded
	if serverIn != mutation.Optimistic() {
		monitoring.ToggleReconcileMismatchTotal.Inc()
		t.log.Info("Wishlist toggle reconciled against server state",
			"product_id", id,
			"optimistic", mutation.Optimistic(),
			"server", serverIn,
		)
	}
	t.cache.applyLocal(id, serverIn, generation)

	return true, nil
}
