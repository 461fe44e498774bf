// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package cache

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
)

func Make(name string) func() (interface{}, error) {
	return func() (interface{}, error) { return name, nil }
}

func DoNotMake() (interface{}, error) {
	return nil, assert.AnError
}

type LRUAssertions struct {
	*assert.Assertions
	LRU   *lru
	Clock *clock.Mock
}

func NewLRUAssertions(t assert.TestingT, size int, ttl time.Duration) *LRUAssertions {
	mock := clock.NewMock()
	return &LRUAssertions{
		assert.New(t),
		newLRU(size, ttl, mock),
		mock,
	}
}

// PutName adds an item with name to the cache.
func (a *LRUAssertions) PutName(name string) {
	a.LRU.Put(name, name)
}

// GetName fetches an item with name from the cache; if not present, it
// is added.
func (a *LRUAssertions) GetName(name string) {
	item, err := a.LRU.Get(name, Make(name))
	if a.NoError(err) {
		a.Equal(name, item)
	}
}

// GetPresent fetches an item with name from the cache; if not present,
// it should produce an assertion error.
func (a *LRUAssertions) GetPresent(name string) {
	item, err := a.LRU.Get(name, DoNotMake)
	if a.NoError(err) {
		a.Equal(name, item)
	}
}

// GetError tries to fetch an item from the cache, but it should not
// exist, and the resulting error will be caught.
func (a *LRUAssertions) GetError(name string) {
	_, err := a.LRU.Get(name, DoNotMake)
	a.Error(err)
}

// LRUHas asserts that an item with name is in the cache.
func (a *LRUAssertions) LRUHas(name string) {
	item, ok := a.LRU.Peek(name)
	if a.True(ok, "missing %v", name) {
		a.Equal(name, item)
	}
}

// LRUDoesNotHave asserts that no item with name is in the cache.
func (a *LRUAssertions) LRUDoesNotHave(name string) {
	_, ok := a.LRU.Peek(name)
	a.False(ok, "unexpected %v", name)
}

// TestLRUSimple tests minimal object presence.
func TestLRUSimple(t *testing.T) {
	a := NewLRUAssertions(t, 2, 0)
	a.PutName("Sam")

	a.LRUHas("Sam")
	a.LRUDoesNotHave("Horton")
}

// TestLRUAutoInsert tests lru.Get() adding absent items.
func TestLRUAutoInsert(t *testing.T) {
	a := NewLRUAssertions(t, 2, 0)

	a.GetName("Marvin")
	a.GetName("Horton")
	a.LRUHas("Marvin")
	a.LRUHas("Horton")

	// A third name evicts the oldest (Marvin)
	a.GetName("Sam")
	a.LRUDoesNotHave("Marvin")
	a.LRUHas("Horton")
	a.LRUHas("Sam")
}

func TestLRUInsertError(t *testing.T) {
	a := NewLRUAssertions(t, 2, 0)

	a.GetName("Marvin")
	a.GetName("Horton")

	// Since no item was added, nothing will be evicted
	a.GetError("Sam")
	a.LRUHas("Marvin")
	a.LRUHas("Horton")
	a.LRUDoesNotHave("Sam")

	a.GetPresent("Marvin")
	a.GetPresent("Horton")
}

// TestLRUOrder tests that getting an item causes it to not get evicted.
func TestLRUOrder(t *testing.T) {
	a := NewLRUAssertions(t, 2, 0)

	a.GetName("Marvin")
	a.GetName("Horton")

	// Do an *additional* get for Marvin, so he is more-recently-used
	a.GetName("Marvin")

	a.GetName("Sam")
	a.LRUHas("Marvin")
	a.LRUDoesNotHave("Horton")
	a.LRUHas("Sam")
}

// TestLRURemoval does simple tests on the Remove call.
func TestLRURemoval(t *testing.T) {
	a := NewLRUAssertions(t, 2, 0)

	a.GetName("Marvin")
	a.LRUHas("Marvin")
	a.LRU.Remove("Marvin")
	a.LRUDoesNotHave("Marvin")

	a.LRU.Remove("Sam")
	a.LRUDoesNotHave("Sam")

	// Removing a more-recent thing keeps the older thing
	a.GetName("Marvin")
	a.GetName("Horton")
	a.LRU.Remove("Horton")
	a.GetName("Sam")
	a.LRUHas("Marvin")
	a.LRUDoesNotHave("Horton")
	a.LRUHas("Sam")
}

func TestLRUClear(t *testing.T) {
	a := NewLRUAssertions(t, 4, 0)
	a.GetName("Marvin")
	a.GetName("Horton")
	a.LRU.Clear()
	a.Equal(0, a.LRU.Len())
	a.LRUDoesNotHave("Marvin")
	a.GetError("Horton")
}

func TestLRUExpiry(t *testing.T) {
	a := NewLRUAssertions(t, 4, time.Minute)
	a.GetName("Marvin")

	a.Clock.Add(59 * time.Second)
	a.GetPresent("Marvin")

	a.Clock.Add(time.Second)
	a.LRUDoesNotHave("Marvin")
	a.GetError("Marvin")
	a.Equal(0, a.LRU.Len())

	// Put refreshes the expiry
	a.PutName("Horton")
	a.Clock.Add(30 * time.Second)
	a.PutName("Horton")
	a.Clock.Add(45 * time.Second)
	a.LRUHas("Horton")
}
