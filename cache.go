package berth

import (
	"sync"

	"github.com/pkg/errors"
)

// errLockCycle is returned by getOrCreate when waiting for a key lock would
// close a cycle of flights waiting on each other.
var errLockCycle = errors.New("key lock wait would deadlock")

// flight is one resolution path: a top-level Resolve call and every nested
// resolution its factories perform. It owns the key locks taken along the path.
type flight struct {
	waiting *keyLock
}

func newFlight() *flight {
	return &flight{}
}

// keyLock serializes construction of one key.
type keyLock struct {
	mu    sync.Mutex
	owner *flight
}

// waitGraph records which flight holds each key lock and which lock each
// flight is blocked on. It is shared by a provider and all of its scopes,
// since a scoped factory may wait on a singleton lock and the reverse.
type waitGraph struct {
	mu sync.Mutex
}

// acquire takes lock for f. It returns false without blocking if the current
// holder of lock is, directly or through the locks it waits on, waiting for f.
func (g *waitGraph) acquire(lock *keyLock, f *flight) bool {
	g.mu.Lock()

	var seen map[*flight]bool
	for owner := lock.owner; owner != nil; owner = owner.waiting.owner {
		if owner == f {
			g.mu.Unlock()
			return false
		}

		if owner.waiting == nil || seen[owner] {
			break
		}

		if seen == nil {
			seen = make(map[*flight]bool)
		}
		seen[owner] = true
	}

	f.waiting = lock
	g.mu.Unlock()

	lock.mu.Lock()

	g.mu.Lock()
	f.waiting = nil
	lock.owner = f
	g.mu.Unlock()

	return true
}

func (g *waitGraph) release(lock *keyLock) {
	g.mu.Lock()
	lock.owner = nil
	g.mu.Unlock()

	lock.mu.Unlock()
}

// instanceCache holds the instances of one Provider or Scope.
//
// Only completed instances are visible in instances. Construction of a key
// is serialized by that key's own lock, so a factory may resolve other keys
// through the same cache while its own key is still being built.
type instanceCache struct {
	mu        sync.Mutex
	instances map[Key]any
	locks     map[Key]*keyLock
	waits     *waitGraph
}

func newInstanceCache(waits *waitGraph) *instanceCache {
	return &instanceCache{
		instances: make(map[Key]any),
		locks:     make(map[Key]*keyLock),
		waits:     waits,
	}
}

// load returns the cached instance for key, if any.
func (c *instanceCache) load(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	instance, ok := c.instances[key]

	return instance, ok
}

// has reports whether key has a completed instance.
func (c *instanceCache) has(key Key) bool {
	_, ok := c.load(key)

	return ok
}

func (c *instanceCache) lockFor(key Key) *keyLock {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.locks[key]
	if !ok {
		lock = &keyLock{}
		c.locks[key] = lock
	}

	return lock
}

// getOrCreate returns the cached instance for key or builds and stores one
// while f holds the key lock. cached reports whether the instance already
// existed. A failed build leaves the cache untouched. If waiting for the key
// lock would deadlock, getOrCreate returns errLockCycle.
func (c *instanceCache) getOrCreate(key Key, f *flight, build func() (any, error)) (instance any, cached bool, err error) {
	if instance, ok := c.load(key); ok {
		return instance, true, nil
	}

	lock := c.lockFor(key)
	if !c.waits.acquire(lock, f) {
		return nil, false, errLockCycle
	}
	defer c.waits.release(lock)

	// Another goroutine may have finished while we waited for the lock
	if instance, ok := c.load(key); ok {
		return instance, true, nil
	}

	instance, err = build()
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	c.instances[key] = instance
	c.mu.Unlock()

	return instance, false, nil
}

// len returns the number of completed instances.
func (c *instanceCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.instances)
}
