// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package cache provides name-based caching of catalog lookups.  The
// cache wraps some other Catalog backend, typically a REST client.
// Lookups of single workspaces, stores, layers, and styles by name
// return a cached copy if one is available; everything else passes
// through to the backend.
//
// Invalidation
//
// Every mutating call through the cache empties it, whether or not
// the call succeeded, so a check made after a create or delete
// through this object always sees the new state.  Changes made by
// other clients directly against the backend are only seen once the
// cached entry expires, so callers that share a catalog should keep
// the TTL short.
//
// Negative results are not cached: asking for an absent resource
// always reaches the backend.
package cache

import (
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/shapefile"
)

// DefaultSize is the default number of cached resources.
const DefaultSize = 256

// DefaultTTL is how long a cached resource is trusted by default.
const DefaultTTL = 30 * time.Second

// Options configures a cache.
type Options struct {
	// Size is the maximum number of cached resources.
	Size int

	// TTL is how long a cached resource is trusted.  Negative
	// values never expire entries.
	TTL time.Duration

	// Clock is used to expire entries.
	Clock clock.Clock
}

func (o *Options) setDefaults() {
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
}

// Catalog is a caching catalog.Catalog.
type Catalog struct {
	backend catalog.Catalog
	lru     *lru
}

// New creates a new caching catalog wrapping backend.
func New(backend catalog.Catalog, opts Options) *Catalog {
	opts.setDefaults()
	return &Catalog{
		backend: backend,
		lru:     newLRU(opts.Size, opts.TTL, opts.Clock),
	}
}

// Backend returns the wrapped catalog.
func (c *Catalog) Backend() catalog.Catalog {
	return c.backend
}

// Invalidate empties the cache.
func (c *Catalog) Invalidate() {
	c.lru.Clear()
}

func key(kind, workspace, name string) string {
	return kind + "\x00" + workspace + "\x00" + name
}

// lookup fetches one resource through the cache and counts the
// outcome.
func (c *Catalog) lookup(kind, workspace, name string, fetch func() (interface{}, error)) (interface{}, error) {
	hit := true
	value, err := c.lru.Get(key(kind, workspace, name), func() (interface{}, error) {
		hit = false
		return fetch()
	})
	countLookup(kind, hit)
	return value, err
}

// mutate runs a mutating call and empties the cache afterwards.
func (c *Catalog) mutate(f func() error) error {
	defer c.lru.Clear()
	return f()
}

// Workspace retrieves a workspace by name, possibly from the cache.
func (c *Catalog) Workspace(name string) (*catalog.Workspace, error) {
	value, err := c.lookup("workspace", "", name, func() (interface{}, error) {
		ws, err := c.backend.Workspace(name)
		if err != nil {
			return nil, err
		}
		return *ws, nil
	})
	if err != nil {
		return nil, err
	}
	ws := value.(catalog.Workspace)
	return &ws, nil
}

// Workspaces lists workspaces from the backend.
func (c *Catalog) Workspaces() ([]catalog.Workspace, error) {
	return c.backend.Workspaces()
}

// CreateWorkspace creates a workspace and empties the cache.
func (c *Catalog) CreateWorkspace(name, namespaceURI string) (ws *catalog.Workspace, err error) {
	err = c.mutate(func() error {
		ws, err = c.backend.CreateWorkspace(name, namespaceURI)
		return err
	})
	return
}

// DeleteWorkspace deletes a workspace and empties the cache.
func (c *Catalog) DeleteWorkspace(name string, recurse bool) error {
	return c.mutate(func() error {
		return c.backend.DeleteWorkspace(name, recurse)
	})
}

// Store retrieves a store by name, possibly from the cache.
func (c *Catalog) Store(workspace, name string) (*catalog.Store, error) {
	value, err := c.lookup("store", workspace, name, func() (interface{}, error) {
		store, err := c.backend.Store(workspace, name)
		if err != nil {
			return nil, err
		}
		return *store, nil
	})
	if err != nil {
		return nil, err
	}
	store := value.(catalog.Store)
	return &store, nil
}

// Stores lists stores from the backend.
func (c *Catalog) Stores(workspace string) ([]catalog.Store, error) {
	return c.backend.Stores(workspace)
}

// DeleteStore deletes a store and empties the cache.
func (c *Catalog) DeleteStore(workspace, name string, recurse bool) error {
	return c.mutate(func() error {
		return c.backend.DeleteStore(workspace, name, recurse)
	})
}

// CreateFeatureStore creates a vector store and empties the cache.
func (c *Catalog) CreateFeatureStore(workspace, name string, bundle *shapefile.Bundle, charset string, overwrite bool) (store *catalog.Store, err error) {
	err = c.mutate(func() error {
		store, err = c.backend.CreateFeatureStore(workspace, name, bundle, charset, overwrite)
		return err
	})
	return
}

// CreateCoverageStore creates a raster store and empties the cache.
func (c *Catalog) CreateCoverageStore(workspace, name, path string, opts catalog.CoverageStoreOptions) (store *catalog.Store, coverage *catalog.Coverage, err error) {
	err = c.mutate(func() error {
		store, coverage, err = c.backend.CreateCoverageStore(workspace, name, path, opts)
		return err
	})
	return
}

// UploadCoverageStore uploads a raster store and empties the cache.
func (c *Catalog) UploadCoverageStore(workspace, name string, storeType catalog.CoverageStoreType, contentType string, data io.Reader, coverageName string) (store *catalog.Store, err error) {
	err = c.mutate(func() error {
		store, err = c.backend.UploadCoverageStore(workspace, name, storeType, contentType, data, coverageName)
		return err
	})
	return
}

// Coverage retrieves a coverage from the backend.
func (c *Catalog) Coverage(workspace, store, name string) (*catalog.Coverage, error) {
	return c.backend.Coverage(workspace, store, name)
}

// CreateCoverage publishes a coverage and empties the cache.
func (c *Catalog) CreateCoverage(workspace, store, name, nativeName string) (coverage *catalog.Coverage, err error) {
	err = c.mutate(func() error {
		coverage, err = c.backend.CreateCoverage(workspace, store, name, nativeName)
		return err
	})
	return
}

// Layer retrieves a layer by name, possibly from the cache.
func (c *Catalog) Layer(workspace, name string) (*catalog.Layer, error) {
	value, err := c.lookup("layer", workspace, name, func() (interface{}, error) {
		layer, err := c.backend.Layer(workspace, name)
		if err != nil {
			return nil, err
		}
		return *layer, nil
	})
	if err != nil {
		return nil, err
	}
	layer := value.(catalog.Layer)
	return &layer, nil
}

// Layers lists layers from the backend.
func (c *Catalog) Layers(workspace string) ([]catalog.Layer, error) {
	return c.backend.Layers(workspace)
}

// DeleteLayer deletes a layer and empties the cache.
func (c *Catalog) DeleteLayer(workspace, name string, recurse bool) error {
	return c.mutate(func() error {
		return c.backend.DeleteLayer(workspace, name, recurse)
	})
}

// Style retrieves a style by name, possibly from the cache.
func (c *Catalog) Style(workspace, name string) (*catalog.Style, error) {
	value, err := c.lookup("style", workspace, name, func() (interface{}, error) {
		style, err := c.backend.Style(workspace, name)
		if err != nil {
			return nil, err
		}
		return *style, nil
	})
	if err != nil {
		return nil, err
	}
	style := value.(catalog.Style)
	return &style, nil
}

// StyleBody retrieves a style's document from the backend.
func (c *Catalog) StyleBody(workspace, name string) ([]byte, error) {
	return c.backend.StyleBody(workspace, name)
}

// Styles lists styles from the backend.
func (c *Catalog) Styles(workspace string) ([]catalog.Style, error) {
	return c.backend.Styles(workspace)
}

// CreateStyle creates a style and empties the cache.
func (c *Catalog) CreateStyle(workspace, name string, body []byte, overwrite bool) (style *catalog.Style, err error) {
	err = c.mutate(func() error {
		style, err = c.backend.CreateStyle(workspace, name, body, overwrite)
		return err
	})
	return
}

// UpdateStyle replaces a style's document and empties the cache.
func (c *Catalog) UpdateStyle(workspace, name string, body []byte) error {
	return c.mutate(func() error {
		return c.backend.UpdateStyle(workspace, name, body)
	})
}

// DeleteStyle deletes a style and empties the cache.
func (c *Catalog) DeleteStyle(workspace, name string, purge bool) error {
	return c.mutate(func() error {
		return c.backend.DeleteStyle(workspace, name, purge)
	})
}
