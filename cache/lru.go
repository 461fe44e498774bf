// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package cache

// This file provides a simple LRU cache with optional expiry.  Keys
// are plain strings; the catalog wrapper builds them from the
// resource kind, workspace, and name.

import (
	"container/list"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// entry is one cached value.  A zero expires never expires.
type entry struct {
	key     string
	value   interface{}
	expires time.Time
}

// lru is a least-recently-used cache with a fixed capacity.  The cache
// can be safely accessed from multiple goroutines.
type lru struct {
	size      int
	ttl       time.Duration
	clock     clock.Clock
	lock      sync.Mutex
	evictList *list.List
	index     map[string]*list.Element
}

func newLRU(size int, ttl time.Duration, clk clock.Clock) *lru {
	if clk == nil {
		clk = clock.New()
	}
	return &lru{
		size:      size,
		ttl:       ttl,
		clock:     clk,
		evictList: list.New(),
		index:     make(map[string]*list.Element),
	}
}

// live returns the element for key if it is present and has not
// expired, dropping it if it has.  Runs under the lock.
func (lru *lru) live(key string) *list.Element {
	element, present := lru.index[key]
	if !present {
		return nil
	}
	e := element.Value.(*entry)
	if !e.expires.IsZero() && !lru.clock.Now().Before(e.expires) {
		delete(lru.index, key)
		lru.evictList.Remove(element)
		return nil
	}
	return element
}

// Get retrieves an item from the cache.  If it is not present, calls
// the fetch function, and if that succeeds, saves the item and
// returns it.  This should return an error only if the item is not
// present and the fetch function returns an error.
func (lru *lru) Get(key string, fetch func() (interface{}, error)) (interface{}, error) {
	// This happens under the lock for the whole fetch, so two
	// concurrent misses on the same key do one remote call
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element := lru.live(key); element != nil {
		lru.evictList.MoveToBack(element)
		return element.Value.(*entry).value, nil
	}

	value, err := fetch()
	if err != nil {
		return nil, err
	}
	lru.add(key, value)
	return value, nil
}

// Peek looks for an item in the cache and returns it if present.
// This does not affect the recency of the item.
func (lru *lru) Peek(key string) (interface{}, bool) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element := lru.live(key); element != nil {
		return element.Value.(*entry).value, true
	}
	return nil, false
}

// Put adds an item to the LRU cache, possibly evicting something.
func (lru *lru) Put(key string, value interface{}) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	// Are we just updating an existing item?
	if element, present := lru.index[key]; present {
		e := element.Value.(*entry)
		e.value = value
		e.expires = lru.expiry()
		lru.evictList.MoveToBack(element)
		return
	}

	lru.add(key, value)
}

// Remove takes an item out of the cache.  It does nothing if that
// key does not exist.
func (lru *lru) Remove(key string) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element, present := lru.index[key]; present {
		delete(lru.index, key)
		lru.evictList.Remove(element)
	}
}

// Clear empties the cache.
func (lru *lru) Clear() {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	lru.evictList.Init()
	lru.index = make(map[string]*list.Element)
}

// Len returns the number of items in the cache, including any that
// have expired but not yet been noticed.
func (lru *lru) Len() int {
	lru.lock.Lock()
	defer lru.lock.Unlock()
	return len(lru.index)
}

func (lru *lru) expiry() time.Time {
	if lru.ttl <= 0 {
		return time.Time{}
	}
	return lru.clock.Now().Add(lru.ttl)
}

// add is an internal helper, running under the lock, that adds a new
// item to the cache.  The item is known to not already exist.
func (lru *lru) add(key string, value interface{}) {
	element := lru.evictList.PushBack(&entry{
		key:     key,
		value:   value,
		expires: lru.expiry(),
	})
	lru.index[key] = element

	// If this caused the cache to go over size, start evicting items
	for len(lru.index) > lru.size {
		head := lru.evictList.Front()
		delete(lru.index, head.Value.(*entry).key)
		lru.evictList.Remove(head)
	}
}
