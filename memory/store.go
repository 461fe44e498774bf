// Copyright 2015-2016 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"sort"
	"strings"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/shapefile"
)

func (c *memCatalog) Store(wsName, name string) (result *catalog.Store, err error) {
	err = c.inWorkspace(wsName, func(ws *workspace) error {
		store, present := ws.stores[name]
		if !present {
			return catalog.ErrNoSuchStore{Workspace: wsName, Name: name}
		}
		result = &store
		return nil
	})
	return
}

func (c *memCatalog) Stores(wsName string) (result []catalog.Store, err error) {
	err = c.inWorkspace(wsName, func(ws *workspace) error {
		result = make([]catalog.Store, 0, len(ws.stores))
		for _, store := range ws.stores {
			result = append(result, store)
		}
		sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
		return nil
	})
	return
}

func (c *memCatalog) DeleteStore(wsName, name string, recurse bool) error {
	return c.inWorkspace(wsName, func(ws *workspace) error {
		if _, present := ws.stores[name]; !present {
			return catalog.ErrNoSuchStore{Workspace: wsName, Name: name}
		}
		var layers []string
		for layerName, layer := range ws.layers {
			if layer.Store == name {
				layers = append(layers, layerName)
			}
		}
		if len(layers) > 0 && !recurse {
			return catalog.ErrNotEmpty{Kind: "store", Name: name, Workspace: wsName}
		}
		for _, layerName := range layers {
			delete(ws.layers, layerName)
		}
		for coverageName, coverage := range ws.coverages {
			if coverage.Store == name {
				delete(ws.coverages, coverageName)
			}
		}
		delete(ws.stores, name)
		return nil
	})
}

// checkStore fails if a store named name exists and may not be
// replaced.  A store may only be replaced by one of the same kind.
func checkStore(ws *workspace, name string, kind catalog.StoreKind, overwrite bool) error {
	existing, present := ws.stores[name]
	if !present {
		return nil
	}
	if !overwrite || existing.Kind != kind {
		return catalog.ErrConflictingData{Kind: "store", Name: name, Workspace: ws.name}
	}
	return nil
}

// checkLayer fails if a layer named name exists and is published
// from a store other than store.
func checkLayer(ws *workspace, name, store string) error {
	if layer, present := ws.layers[name]; present && layer.Store != store {
		return catalog.ErrConflictingData{Kind: "layer", Name: name, Workspace: ws.name}
	}
	return nil
}

func (c *memCatalog) CreateFeatureStore(wsName, name string, bundle *shapefile.Bundle, charset string, overwrite bool) (result *catalog.Store, err error) {
	if err = checkName("store", name); err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, catalog.ErrInvalidArgument{Argument: "bundle", Reason: "no shapefile given"}
	}
	geometry, err := bundle.GeometryType()
	if err != nil {
		return nil, catalog.ErrInvalidArgument{Argument: "bundle", Reason: err.Error()}
	}
	err = c.inWorkspace(wsName, func(ws *workspace) error {
		if err := checkStore(ws, name, catalog.DataStore, overwrite); err != nil {
			return err
		}
		if err := checkLayer(ws, name, name); err != nil {
			return err
		}
		store := catalog.Store{
			Name:      name,
			Workspace: wsName,
			Kind:      catalog.DataStore,
			Type:      "Shapefile",
			Enabled:   true,
		}
		ws.stores[name] = store
		ws.layers[name] = catalog.Layer{
			Name:         name,
			Workspace:    wsName,
			Type:         catalog.VectorLayer,
			Store:        name,
			DefaultStyle: string(geometry),
		}
		result = &store
		return nil
	})
	return
}

func (c *memCatalog) CreateCoverageStore(wsName, name, path string, opts catalog.CoverageStoreOptions) (*catalog.Store, *catalog.Coverage, error) {
	if err := opts.Validate(path); err != nil {
		return nil, nil, err
	}
	if err := checkName("store", name); err != nil {
		return nil, nil, err
	}
	layerName, sourceName := opts.Names(path)
	localPath := strings.TrimPrefix(path, "file:")

	if !opts.Overwrite {
		err := c.inWorkspace(wsName, func(ws *workspace) error {
			return checkStore(ws, name, catalog.CoverageStore, false)
		})
		if err != nil {
			return nil, nil, err
		}
	}

	if opts.UploadData {
		f, err := os.Open(localPath)
		if err != nil {
			return nil, nil, catalog.ErrInvalidArgument{Argument: "path", Reason: err.Error()}
		}
		defer f.Close()
		// GeoServer configures the first coverage it finds,
		// named after the store.
		store, err := c.UploadCoverageStore(wsName, name, opts.Type, opts.ContentType, f, name)
		return store, nil, err
	}

	if _, err := os.Stat(localPath); err != nil {
		return nil, nil, catalog.ErrInvalidArgument{Argument: "path", Reason: err.Error()}
	}
	var store catalog.Store
	err := c.inWorkspace(wsName, func(ws *workspace) error {
		if err := checkStore(ws, name, catalog.CoverageStore, opts.Overwrite); err != nil {
			return err
		}
		store = catalog.Store{
			Name:      name,
			Workspace: wsName,
			Kind:      catalog.CoverageStore,
			Type:      string(opts.Type),
			URL:       catalog.FileURL(path),
			Enabled:   true,
		}
		ws.stores[name] = store
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if !opts.CreateLayer {
		return &store, nil, nil
	}
	coverage, err := c.createCoverage(wsName, name, layerName, sourceName, opts.Overwrite)
	if err != nil {
		return nil, nil, err
	}
	return &store, coverage, nil
}

func (c *memCatalog) UploadCoverageStore(wsName, name string, storeType catalog.CoverageStoreType, contentType string, data io.Reader, coverageName string) (result *catalog.Store, err error) {
	if !storeType.Valid() {
		return nil, catalog.ErrInvalidArgument{Argument: "type", Reason: fmt.Sprintf("unknown coverage store type %q", storeType)}
	}
	if err = checkName("store", name); err != nil {
		return nil, err
	}
	if coverageName == "" {
		coverageName = name
	}
	size, err := io.Copy(ioutil.Discard, data)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, catalog.ErrInvalidArgument{Argument: "data", Reason: "empty upload"}
	}
	err = c.inWorkspace(wsName, func(ws *workspace) error {
		if err := checkStore(ws, name, catalog.CoverageStore, true); err != nil {
			return err
		}
		if err := checkLayer(ws, coverageName, name); err != nil {
			return err
		}
		store := catalog.Store{
			Name:      name,
			Workspace: wsName,
			Kind:      catalog.CoverageStore,
			Type:      string(storeType),
			URL:       fmt.Sprintf("file:data/%v/%v/%v.%v", wsName, name, name, storeType.FileExtension()),
			Enabled:   true,
		}
		ws.stores[name] = store
		addCoverage(ws, name, coverageName, coverageName)
		result = &store
		return nil
	})
	return
}

func (c *memCatalog) Coverage(wsName, storeName, name string) (result *catalog.Coverage, err error) {
	err = c.inWorkspace(wsName, func(ws *workspace) error {
		coverage, present := ws.coverages[name]
		if !present || coverage.Store != storeName {
			return catalog.ErrNoSuchCoverage{Workspace: wsName, Store: storeName, Name: name}
		}
		result = &coverage
		return nil
	})
	return
}

func (c *memCatalog) CreateCoverage(wsName, storeName, name, nativeName string) (*catalog.Coverage, error) {
	return c.createCoverage(wsName, storeName, name, nativeName, false)
}

// createCoverage publishes a coverage from a coverage store.  If
// replace is set, an existing coverage of the same name in the same
// store is replaced rather than being a conflict.
func (c *memCatalog) createCoverage(wsName, storeName, name, nativeName string, replace bool) (result *catalog.Coverage, err error) {
	if err = checkName("coverage", name); err != nil {
		return nil, err
	}
	if nativeName == "" {
		nativeName = name
	}
	err = c.inWorkspace(wsName, func(ws *workspace) error {
		store, present := ws.stores[storeName]
		if !present || store.Kind != catalog.CoverageStore {
			return catalog.ErrNoSuchStore{Workspace: wsName, Name: storeName}
		}
		if existing, present := ws.coverages[name]; present && !(replace && existing.Store == storeName) {
			return catalog.ErrConflictingData{Kind: "coverage", Name: name, Workspace: wsName}
		}
		if layer, present := ws.layers[name]; present && !(replace && layer.Store == storeName) {
			return catalog.ErrConflictingData{Kind: "layer", Name: name, Workspace: wsName}
		}
		coverage := addCoverage(ws, storeName, name, nativeName)
		result = &coverage
		return nil
	})
	return
}

// addCoverage records a coverage and publishes its raster layer,
// replacing any previous coverage of the same name.  It expects to
// run within the global lock.
func addCoverage(ws *workspace, storeName, name, nativeName string) catalog.Coverage {
	coverage := catalog.Coverage{
		Name:       name,
		NativeName: nativeName,
		Workspace:  ws.name,
		Store:      storeName,
	}
	ws.coverages[name] = coverage
	ws.layers[name] = catalog.Layer{
		Name:         name,
		Workspace:    ws.name,
		Type:         catalog.RasterLayer,
		Store:        storeName,
		DefaultStyle: "raster",
	}
	return coverage
}
