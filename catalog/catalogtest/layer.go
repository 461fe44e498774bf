// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package catalogtest

import (
	"github.com/diffeo/go-geoserver/catalog"
)

// TestLayers lists and deletes layers.
func (s *Suite) TestLayers() {
	ws := "layers"
	s.Workspace(ws)
	defer s.DropWorkspace(ws)

	_, err := s.Catalog.CreateFeatureStore(ws, "wells", s.Bundle("wells", 1), "UTF-8", false)
	s.Require().NoError(err)
	_, _, err = s.Catalog.CreateCoverageStore(ws, "hillshade", s.Raster("hillshade.tif"), catalog.DefaultCoverageStoreOptions())
	s.Require().NoError(err)

	layers, err := s.Catalog.Layers(ws)
	if s.NoError(err) {
		names := make(map[string]catalog.LayerType)
		for _, layer := range layers {
			names[layer.Name] = layer.Type
		}
		s.Equal(map[string]catalog.LayerType{
			"wells":     catalog.VectorLayer,
			"hillshade": catalog.RasterLayer,
		}, names)
	}

	s.NoError(s.Catalog.DeleteLayer(ws, "hillshade", true))
	_, err = s.Catalog.Layer(ws, "hillshade")
	s.Equal(catalog.ErrNoSuchLayer{Workspace: ws, Name: "hillshade"}, err)
	_, err = s.Catalog.Coverage(ws, "hillshade", "hillshade")
	s.True(catalog.IsNotFound(err))

	// The store survives its layer
	_, err = s.Catalog.Store(ws, "hillshade")
	s.NoError(err)

	err = s.Catalog.DeleteLayer(ws, "hillshade", true)
	s.Equal(catalog.ErrNoSuchLayer{Workspace: ws, Name: "hillshade"}, err)

	layers, err = s.Catalog.Layers(ws)
	if s.NoError(err) && s.Len(layers, 1) {
		s.Equal("wells", layers[0].Name)
		s.Equal("point", layers[0].DefaultStyle)
	}
}
