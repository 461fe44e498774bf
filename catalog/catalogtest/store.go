// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package catalogtest

import (
	"bytes"

	"github.com/diffeo/go-geoserver/catalog"
)

// TestCoverageStoreReference creates a coverage store pointing at a
// local raster and publishes its layer.
func (s *Suite) TestCoverageStoreReference() {
	ws := "reference"
	s.Workspace(ws)
	defer s.DropWorkspace(ws)
	path := s.Raster("dem.tif")

	_, err := s.Catalog.Store(ws, "dem")
	s.Equal(catalog.ErrNoSuchStore{Workspace: ws, Name: "dem"}, err)

	store, coverage, err := s.Catalog.CreateCoverageStore(ws, "dem", path, catalog.DefaultCoverageStoreOptions())
	if s.NoError(err) && s.NotNil(store) && s.NotNil(coverage) {
		s.Equal("dem", store.Name)
		s.Equal(ws, store.Workspace)
		s.Equal(catalog.CoverageStore, store.Kind)
		s.Equal(string(catalog.GeoTIFF), store.Type)
		s.Equal("file:"+path, store.URL)
		s.Equal("dem", coverage.Name)
		s.Equal("dem", coverage.NativeName)
		s.Equal("dem", coverage.Store)
	}

	store, err = s.Catalog.Store(ws, "dem")
	if s.NoError(err) {
		s.Equal(catalog.CoverageStore, store.Kind)
		s.Equal("file:"+path, store.URL)
	}

	coverage, err = s.Catalog.Coverage(ws, "dem", "dem")
	if s.NoError(err) {
		s.Equal("dem", coverage.Name)
	}

	layer, err := s.Catalog.Layer(ws, "dem")
	if s.NoError(err) {
		s.Equal("dem", layer.Name)
		s.Equal(ws, layer.Workspace)
		s.Equal(catalog.RasterLayer, layer.Type)
		s.Equal("dem", layer.Store)
		s.Equal("raster", layer.DefaultStyle)
	}

	stores, err := s.Catalog.Stores(ws)
	if s.NoError(err) && s.Len(stores, 1) {
		s.Equal("dem", stores[0].Name)
	}

	_, _, err = s.Catalog.CreateCoverageStore(ws, "dem", path, catalog.DefaultCoverageStoreOptions())
	s.Equal(catalog.ErrConflictingData{Kind: "store", Name: "dem", Workspace: ws}, err)

	opts := catalog.DefaultCoverageStoreOptions()
	opts.Overwrite = true
	store, _, err = s.Catalog.CreateCoverageStore(ws, "dem", path, opts)
	if s.NoError(err) {
		s.Equal("dem", store.Name)
	}
}

// TestCoverageStoreNames checks layer and source name handling in
// reference mode.
func (s *Suite) TestCoverageStoreNames() {
	ws := "names"
	s.Workspace(ws)
	defer s.DropWorkspace(ws)
	path := s.Raster("band.tif")

	opts := catalog.DefaultCoverageStoreOptions()
	opts.LayerName = ws + ":elevation"
	_, coverage, err := s.Catalog.CreateCoverageStore(ws, "bands", path, opts)
	if s.NoError(err) && s.NotNil(coverage) {
		s.Equal("elevation", coverage.Name)
		s.Equal("band", coverage.NativeName)
		s.Equal("bands", coverage.Store)
	}

	layer, err := s.Catalog.Layer(ws, "elevation")
	if s.NoError(err) {
		s.Equal("bands", layer.Store)
	}
}

// TestCoverageStoreWithoutLayer registers a store, then publishes a
// coverage from it separately.
func (s *Suite) TestCoverageStoreWithoutLayer() {
	ws := "nolayer"
	s.Workspace(ws)
	defer s.DropWorkspace(ws)
	path := s.Raster("pyramid.tif")

	opts := catalog.DefaultCoverageStoreOptions()
	opts.Type = catalog.ImagePyramid
	opts.CreateLayer = false
	store, coverage, err := s.Catalog.CreateCoverageStore(ws, "pyramid", path, opts)
	if s.NoError(err) {
		s.Equal(string(catalog.ImagePyramid), store.Type)
		s.Nil(coverage)
	}

	_, err = s.Catalog.Layer(ws, "pyramid")
	s.Equal(catalog.ErrNoSuchLayer{Workspace: ws, Name: "pyramid"}, err)

	coverage, err = s.Catalog.CreateCoverage(ws, "pyramid", "tiles", "pyramid")
	if s.NoError(err) {
		s.Equal("tiles", coverage.Name)
		s.Equal("pyramid", coverage.NativeName)
	}

	layer, err := s.Catalog.Layer(ws, "tiles")
	if s.NoError(err) {
		s.Equal(catalog.RasterLayer, layer.Type)
		s.Equal("pyramid", layer.Store)
	}

	_, err = s.Catalog.CreateCoverage(ws, "pyramid", "tiles", "pyramid")
	s.IsType(catalog.ErrConflictingData{}, err)

	_, err = s.Catalog.CreateCoverage(ws, "absent", "other", "other")
	s.True(catalog.IsNotFound(err), "%+v", err)
}

// TestCoverageStoreInvalid checks argument validation.
func (s *Suite) TestCoverageStoreInvalid() {
	ws := "invalid"
	s.Workspace(ws)
	defer s.DropWorkspace(ws)
	path := s.Raster("x.tif")

	opts := catalog.DefaultCoverageStoreOptions()
	opts.Type = "PNG"
	_, _, err := s.Catalog.CreateCoverageStore(ws, "x", path, opts)
	s.IsType(catalog.ErrInvalidArgument{}, err)

	opts.Type = ""
	_, _, err = s.Catalog.CreateCoverageStore(ws, "x", path, opts)
	s.IsType(catalog.ErrInvalidArgument{}, err)

	_, _, err = s.Catalog.CreateCoverageStore(ws, "x", "", catalog.DefaultCoverageStoreOptions())
	s.Equal(catalog.ErrMissingPath, err)

	_, err = s.Catalog.Store(ws, "x")
	s.True(catalog.IsNotFound(err))
}

// TestCoverageStoreUploadMode sends the raster itself.
func (s *Suite) TestCoverageStoreUploadMode() {
	ws := "uploadmode"
	s.Workspace(ws)
	defer s.DropWorkspace(ws)
	path := s.Raster("ortho.tif")

	opts := catalog.DefaultCoverageStoreOptions()
	opts.UploadData = true
	store, _, err := s.Catalog.CreateCoverageStore(ws, "ortho", path, opts)
	if s.NoError(err) {
		s.Equal("ortho", store.Name)
		s.Equal(catalog.CoverageStore, store.Kind)
		s.Equal(string(catalog.GeoTIFF), store.Type)
	}

	layer, err := s.Catalog.Layer(ws, "ortho")
	if s.NoError(err) {
		s.Equal(catalog.RasterLayer, layer.Type)
		s.Equal("ortho", layer.Store)
	}

	_, _, err = s.Catalog.CreateCoverageStore(ws, "ortho", path, opts)
	s.IsType(catalog.ErrConflictingData{}, err)
}

// TestUploadCoverageStore uploads raster data directly.
func (s *Suite) TestUploadCoverageStore() {
	ws := "upload"
	s.Workspace(ws)
	defer s.DropWorkspace(ws)

	data := bytes.NewReader([]byte("II*\x00uploaded raster"))
	store, err := s.Catalog.UploadCoverageStore(ws, "scan", catalog.WorldImage, "image/png", data, "scanned")
	if s.NoError(err) {
		s.Equal("scan", store.Name)
		s.Equal(string(catalog.WorldImage), store.Type)
	}

	coverage, err := s.Catalog.Coverage(ws, "scan", "scanned")
	if s.NoError(err) {
		s.Equal("scanned", coverage.Name)
	}
}

// TestFeatureStore publishes a shapefile.
func (s *Suite) TestFeatureStore() {
	ws := "feature"
	s.Workspace(ws)
	defer s.DropWorkspace(ws)

	store, err := s.Catalog.CreateFeatureStore(ws, "parcels", s.Bundle("parcels", 5), "UTF-8", false)
	if s.NoError(err) {
		s.Equal("parcels", store.Name)
		s.Equal(catalog.DataStore, store.Kind)
		s.Equal("Shapefile", store.Type)
	}

	layer, err := s.Catalog.Layer(ws, "parcels")
	if s.NoError(err) {
		s.Equal(catalog.VectorLayer, layer.Type)
		s.Equal("parcels", layer.Store)
		s.Equal("polygon", layer.DefaultStyle)
	}

	_, err = s.Catalog.CreateFeatureStore(ws, "parcels", s.Bundle("parcels", 5), "UTF-8", false)
	s.Equal(catalog.ErrConflictingData{Kind: "store", Name: "parcels", Workspace: ws}, err)

	_, err = s.Catalog.CreateFeatureStore(ws, "parcels", s.Bundle("parcels", 1), "UTF-8", true)
	s.NoError(err)
	layer, err = s.Catalog.Layer(ws, "parcels")
	if s.NoError(err) {
		s.Equal("point", layer.DefaultStyle)
	}
}

// TestFeatureStoreRenamed publishes a shapefile under a name other
// than its own.
func (s *Suite) TestFeatureStoreRenamed() {
	ws := "renamed"
	s.Workspace(ws)
	defer s.DropWorkspace(ws)

	_, err := s.Catalog.CreateFeatureStore(ws, "roads", s.Bundle("tl_2016_roads", 3), "ISO-8859-1", false)
	s.NoError(err)
	layer, err := s.Catalog.Layer(ws, "roads")
	if s.NoError(err) {
		s.Equal("roads", layer.Store)
		s.Equal("line", layer.DefaultStyle)
	}
}

// TestDeleteStore checks recursive and non-recursive deletes.
func (s *Suite) TestDeleteStore() {
	ws := "deletestore"
	s.Workspace(ws)
	defer s.DropWorkspace(ws)

	_, err := s.Catalog.CreateFeatureStore(ws, "roads", s.Bundle("roads", 3), "UTF-8", false)
	s.Require().NoError(err)

	err = s.Catalog.DeleteStore(ws, "roads", false)
	s.IsType(catalog.ErrNotEmpty{}, err)
	_, err = s.Catalog.Store(ws, "roads")
	s.NoError(err)

	s.NoError(s.Catalog.DeleteStore(ws, "roads", true))
	_, err = s.Catalog.Store(ws, "roads")
	s.Equal(catalog.ErrNoSuchStore{Workspace: ws, Name: "roads"}, err)
	_, err = s.Catalog.Layer(ws, "roads")
	s.Equal(catalog.ErrNoSuchLayer{Workspace: ws, Name: "roads"}, err)

	err = s.Catalog.DeleteStore(ws, "roads", true)
	s.Equal(catalog.ErrNoSuchStore{Workspace: ws, Name: "roads"}, err)
}

// TestDeleteCoverageStore deletes a raster store and its layer.
func (s *Suite) TestDeleteCoverageStore() {
	ws := "deletecoverage"
	s.Workspace(ws)
	defer s.DropWorkspace(ws)

	_, _, err := s.Catalog.CreateCoverageStore(ws, "dem", s.Raster("dem2.tif"), catalog.DefaultCoverageStoreOptions())
	s.Require().NoError(err)

	s.NoError(s.Catalog.DeleteStore(ws, "dem", true))
	_, err = s.Catalog.Store(ws, "dem")
	s.True(catalog.IsNotFound(err))
	_, err = s.Catalog.Layer(ws, "dem2")
	s.True(catalog.IsNotFound(err))
}
