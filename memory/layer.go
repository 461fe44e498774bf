// Copyright 2015-2016 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"sort"

	"github.com/diffeo/go-geoserver/catalog"
)

func (c *memCatalog) Layer(wsName, name string) (result *catalog.Layer, err error) {
	err = c.inWorkspace(wsName, func(ws *workspace) error {
		layer, present := ws.layers[name]
		if !present {
			return catalog.ErrNoSuchLayer{Workspace: wsName, Name: name}
		}
		result = &layer
		return nil
	})
	return
}

func (c *memCatalog) Layers(wsName string) (result []catalog.Layer, err error) {
	err = c.inWorkspace(wsName, func(ws *workspace) error {
		result = make([]catalog.Layer, 0, len(ws.layers))
		for _, layer := range ws.layers {
			result = append(result, layer)
		}
		sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
		return nil
	})
	return
}

// DeleteLayer removes a layer.  With recurse, the coverage behind a
// raster layer goes too; the store is always kept.
func (c *memCatalog) DeleteLayer(wsName, name string, recurse bool) error {
	return c.inWorkspace(wsName, func(ws *workspace) error {
		layer, present := ws.layers[name]
		if !present {
			return catalog.ErrNoSuchLayer{Workspace: wsName, Name: name}
		}
		delete(ws.layers, name)
		if coverage, present := ws.coverages[name]; recurse && present && coverage.Store == layer.Store {
			delete(ws.coverages, name)
		}
		return nil
	})
}
