package packet

import "sync"

// Cache interns decoded atoms for one AttributeId, keyed by the raw wire
// bytes they were decoded from. It is process-wide and read-mostly; readers
// never block writers out for long since misses fall straight back to a
// fresh decode.
type Cache struct {
	mu sync.RWMutex
	m  map[string]Atom
}

func newCache() *Cache {
	return &Cache{m: make(map[string]Atom)}
}

func (c *Cache) get(key []byte) (Atom, bool) {
	c.mu.RLock()
	a, ok := c.m[string(key)]
	c.mu.RUnlock()
	return a, ok
}

func (c *Cache) put(key []byte, a Atom) {
	c.mu.Lock()
	c.m[string(key)] = a
	c.mu.Unlock()
}

// attributeCaches holds one Cache per AttributeId. Buckets are created
// lazily so unused ids never allocate a map.
type attributeCacheTable struct {
	mu   sync.RWMutex
	byID map[AttributeId]*Cache
}

var attributeCaches = &attributeCacheTable{byID: make(map[AttributeId]*Cache)}

func (t *attributeCacheTable) cacheFor(id AttributeId) *Cache {
	t.mu.RLock()
	c, ok := t.byID[id]
	t.mu.RUnlock()
	if ok {
		return c
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.byID[id]; ok {
		return c
	}
	c = newCache()
	t.byID[id] = c
	return c
}

func cacheLookup(id AttributeId, key []byte) (Atom, bool) {
	return attributeCaches.cacheFor(id).get(key)
}

func cacheInsert(id AttributeId, key []byte, a Atom) {
	attributeCaches.cacheFor(id).put(key, a)
}

func init() {
	// ORIGIN and ATOMIC_AGGREGATE are small closed sets; pre-seed them so a
	// cache-enabled decoder never even takes the decode path for them.
	attributeCaches.cacheFor(AttrOrigin).put([]byte{byte(OriginIGP)}, OriginIGP)
	attributeCaches.cacheFor(AttrOrigin).put([]byte{byte(OriginEGP)}, OriginEGP)
	attributeCaches.cacheFor(AttrOrigin).put([]byte{byte(OriginIncomplete)}, OriginIncomplete)
	attributeCaches.cacheFor(AttrAtomicAggregate).put([]byte{}, AtomicAggregate{})
}

// Individual Community/ExtendedCommunity values are interned on their own,
// separately from the whole-attribute Cache above, so that the same
// community value shows up as the same shared object across every
// Communities list that contains it.
var (
	communityCacheMu sync.RWMutex
	communityCacheM  = map[uint32]*Community{}

	extCommunityCacheMu sync.RWMutex
	extCommunityCacheM  = map[uint64]*ExtendedCommunity{}
)

func internCommunity(v uint32, cache bool) *Community {
	if !cache {
		c := Community(v)
		return &c
	}

	communityCacheMu.RLock()
	c, ok := communityCacheM[v]
	communityCacheMu.RUnlock()
	if ok {
		return c
	}

	communityCacheMu.Lock()
	defer communityCacheMu.Unlock()
	if c, ok := communityCacheM[v]; ok {
		return c
	}
	nc := Community(v)
	communityCacheM[v] = &nc
	return &nc
}

func internExtCommunity(v uint64, cache bool) *ExtendedCommunity {
	if !cache {
		c := ExtendedCommunity(v)
		return &c
	}

	extCommunityCacheMu.RLock()
	c, ok := extCommunityCacheM[v]
	extCommunityCacheMu.RUnlock()
	if ok {
		return c
	}

	extCommunityCacheMu.Lock()
	defer extCommunityCacheMu.Unlock()
	if c, ok := extCommunityCacheM[v]; ok {
		return c
	}
	nc := ExtendedCommunity(v)
	extCommunityCacheM[v] = &nc
	return &nc
}
