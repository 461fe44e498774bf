// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateType(t *testing.T) {
	for _, storeType := range CoverageStoreTypes {
		opts := CoverageStoreOptions{Type: storeType}
		assert.NoError(t, opts.Validate("/data/x.tif"), "type %v", storeType)
	}

	for _, storeType := range []CoverageStoreType{"", "geotiff", "Shapefile", "PNG"} {
		opts := CoverageStoreOptions{Type: storeType}
		err := opts.Validate("/data/x.tif")
		if assert.IsType(t, ErrInvalidArgument{}, err, "type %q", storeType) {
			assert.Equal(t, "type", err.(ErrInvalidArgument).Argument)
		}
	}
}

func TestValidateMissingPath(t *testing.T) {
	opts := DefaultCoverageStoreOptions()
	assert.Equal(t, ErrMissingPath, opts.Validate(""))
}

func TestNames(t *testing.T) {
	tests := []struct {
		Path, LayerName, SourceName string
		WantLayer, WantSource       string
	}{
		{"/data/dem.tif", "", "", "dem", "dem"},
		{"file:/data/dem.tif", "", "", "dem", "dem"},
		{"/data/pyramid", "", "", "pyramid", "pyramid"},
		{"/data/dem.tif", "ws:elevation", "", "elevation", "dem"},
		{"/data/dem.tif", "elevation", "band1", "elevation", "band1"},
	}
	for _, test := range tests {
		opts := CoverageStoreOptions{
			LayerName:  test.LayerName,
			SourceName: test.SourceName,
		}
		layer, source := opts.Names(test.Path)
		assert.Equal(t, test.WantLayer, layer, "%+v", test)
		assert.Equal(t, test.WantSource, source, "%+v", test)
	}
}

func TestFileURL(t *testing.T) {
	assert.Equal(t, "file:/data/dem.tif", FileURL("/data/dem.tif"))
	assert.Equal(t, "file:/data/dem.tif", FileURL("file:/data/dem.tif"))
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "geotiff", GeoTIFF.FileExtension())
	assert.Equal(t, "imagepyramid", ImagePyramid.FileExtension())

	storeType, ok := CoverageStoreTypeForExtension("GeoTIFF")
	assert.True(t, ok)
	assert.Equal(t, GeoTIFF, storeType)
	storeType, ok = CoverageStoreTypeForExtension("geopackage (mosaic)")
	assert.True(t, ok)
	assert.Equal(t, GeoPackageMosaic, storeType)
	_, ok = CoverageStoreTypeForExtension("shp")
	assert.False(t, ok)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNoSuchWorkspace{Name: "ws"}))
	assert.True(t, IsNotFound(ErrNoSuchStyle{Workspace: "ws", Name: "s"}))
	assert.False(t, IsNotFound(ErrMissingPath))
	assert.False(t, IsNotFound(nil))
}
