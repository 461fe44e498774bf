// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package service

import (
	"context"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/memory"
	"github.com/diffeo/go-geoserver/shapefile"
	"github.com/diffeo/go-geoserver/sld"
	"github.com/diffeo/go-geoserver/tiler"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder wraps a catalog and records the mutating calls made
// through it.
type recorder struct {
	catalog.Catalog

	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *recorder) CreateWorkspace(name, uri string) (*catalog.Workspace, error) {
	r.record("CreateWorkspace")
	return r.Catalog.CreateWorkspace(name, uri)
}

func (r *recorder) DeleteWorkspace(name string, recurse bool) error {
	r.record("DeleteWorkspace")
	return r.Catalog.DeleteWorkspace(name, recurse)
}

func (r *recorder) DeleteStore(ws, name string, recurse bool) error {
	r.record("DeleteStore")
	return r.Catalog.DeleteStore(ws, name, recurse)
}

func (r *recorder) CreateFeatureStore(ws, name string, bundle *shapefile.Bundle, charset string, overwrite bool) (*catalog.Store, error) {
	r.record("CreateFeatureStore")
	return r.Catalog.CreateFeatureStore(ws, name, bundle, charset, overwrite)
}

func (r *recorder) CreateCoverageStore(ws, name, path string, opts catalog.CoverageStoreOptions) (*catalog.Store, *catalog.Coverage, error) {
	r.record("CreateCoverageStore:" + string(opts.Type))
	return r.Catalog.CreateCoverageStore(ws, name, path, opts)
}

func (r *recorder) UploadCoverageStore(ws, name string, storeType catalog.CoverageStoreType, contentType string, data io.Reader, coverageName string) (*catalog.Store, error) {
	r.record("UploadCoverageStore")
	return r.Catalog.UploadCoverageStore(ws, name, storeType, contentType, data, coverageName)
}

func (r *recorder) DeleteLayer(ws, name string, recurse bool) error {
	r.record("DeleteLayer")
	return r.Catalog.DeleteLayer(ws, name, recurse)
}

func (r *recorder) CreateStyle(ws, name string, body []byte, overwrite bool) (*catalog.Style, error) {
	r.record("CreateStyle")
	return r.Catalog.CreateStyle(ws, name, body, overwrite)
}

func (r *recorder) UpdateStyle(ws, name string, body []byte) error {
	r.record("UpdateStyle")
	return r.Catalog.UpdateStyle(ws, name, body)
}

func (r *recorder) DeleteStyle(ws, name string, purge bool) error {
	r.record("DeleteStyle")
	return r.Catalog.DeleteStyle(ws, name, purge)
}

func newService(t *testing.T) (*Service, *recorder, string) {
	rec := &recorder{Catalog: memory.New()}
	s := New(rec)
	log := logrus.New()
	log.Out = ioutil.Discard
	s.Log = logrus.NewEntry(log)
	dir, err := ioutil.TempDir("", "service")
	require.NoError(t, err)
	return s, rec, dir
}

func writeFile(t *testing.T, path string, data []byte) string {
	require.NoError(t, ioutil.WriteFile(path, data, 0644))
	return path
}

func writeShapefile(t *testing.T, dir, name string, shapeType int32) string {
	base := filepath.Join(dir, name)
	writeFile(t, base+".shp", shapefile.Header(shapeType))
	writeFile(t, base+".shx", shapefile.Header(shapeType))
	writeFile(t, base+".dbf", []byte{0x03, 0x7a, 0x01, 0x01})
	return base + ".shp"
}

func TestCreateWorkspace(t *testing.T) {
	s, rec, dir := newService(t)
	defer os.RemoveAll(dir)

	exists, err := s.WorkspaceExists("topp")
	require.NoError(t, err)
	assert.False(t, exists)
	ws, err := s.GetWorkspace("topp")
	assert.NoError(t, err)
	assert.Nil(t, ws)

	r := s.CreateWorkspace("topp")
	if assert.Equal(t, Success, r.Status, r.Info) {
		assert.Equal(t, "http://topp.com", r.Data.(*catalog.Workspace).NamespaceURI)
	}
	exists, err = s.WorkspaceExists("topp")
	require.NoError(t, err)
	assert.True(t, exists)

	rec.Reset()
	r = s.CreateWorkspace("topp")
	assert.Equal(t, Fail, r.Status)
	assert.Contains(t, r.Info, "already exists")
	assert.Nil(t, r.Data)
	assert.Empty(t, rec.Calls())

	workspaces, err := s.GetWorkspaces()
	if assert.NoError(t, err) && assert.Len(t, workspaces, 1) {
		assert.Equal(t, "topp", workspaces[0].Name)
	}
}

func TestCreateWorkspaceInvalid(t *testing.T) {
	s, _, dir := newService(t)
	defer os.RemoveAll(dir)

	r := s.CreateWorkspace("a/b")
	assert.Equal(t, Fail, r.Status)
	assert.IsType(t, catalog.ErrInvalidArgument{}, r.Err)
	assert.True(t, strings.HasPrefix(r.Info, "cannot create workspace: "), r.Info)
}

func TestDeleteAbsent(t *testing.T) {
	s, rec, dir := newService(t)
	defer os.RemoveAll(dir)
	require.True(t, s.CreateWorkspace("topp").OK())
	rec.Reset()

	for _, r := range []Result{
		s.DeleteWorkspace("absent"),
		s.DeleteStore("topp", "absent"),
		s.DeleteStore("absent", "absent"),
		s.DeleteLayer("topp", "absent"),
		s.DeleteStyle("topp", "absent"),
	} {
		assert.Equal(t, Success, r.Status, r.Info)
	}
	assert.Empty(t, rec.Calls())
}

func TestDeleteWorkspaceCascades(t *testing.T) {
	s, rec, dir := newService(t)
	defer os.RemoveAll(dir)
	require.True(t, s.CreateWorkspace("topp").OK())
	tif := writeFile(t, filepath.Join(dir, "dem.tif"), []byte("II*\x00"))
	require.True(t, s.CreateTiffLayer("topp", "dem", tif).OK())
	require.True(t, s.CreateStyle("topp", "red", "line", map[string]interface{}{"color": "#FF0000"}).OK())
	rec.Reset()

	r := s.DeleteWorkspace("topp")
	assert.Equal(t, Success, r.Status, r.Info)
	assert.Equal(t, []string{"DeleteWorkspace"}, rec.Calls())
	exists, err := s.WorkspaceExists("topp")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateShapeLayer(t *testing.T) {
	s, rec, dir := newService(t)
	defer os.RemoveAll(dir)
	shp := writeShapefile(t, dir, "roads", 3)

	r := s.CreateShapeLayer("absent", "roads", filepath.Join(dir, "missing.shp"), "UTF-8")
	assert.Equal(t, Fail, r.Status)
	assert.Equal(t, "workspace does not exist: absent", r.Info)
	assert.Nil(t, r.Err)
	assert.Empty(t, rec.Calls())

	require.True(t, s.CreateWorkspace("topp").OK())
	r = s.CreateShapeLayer("topp", "roads", shp, "UTF-8")
	if assert.Equal(t, Success, r.Status, r.Info) {
		data := r.Data.(LayerData)
		assert.Equal(t, "roads", data.Layer.Name)
		assert.Equal(t, catalog.VectorLayer, data.Layer.Type)
		assert.Equal(t, "line", data.DefaultStyle)
	}

	r = s.CreateShapeLayer("topp", "roads", shp, "UTF-8")
	assert.Equal(t, Fail, r.Status)
	assert.Equal(t, "layer already exists: roads", r.Info)

	exists, err := s.StoreExists("topp", "roads")
	assert.NoError(t, err)
	assert.True(t, exists)
	r = s.DeleteStore("topp", "roads")
	assert.Equal(t, Success, r.Status, r.Info)
	exists, err = s.LayerExists("topp", "roads")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateShapeLayerParseError(t *testing.T) {
	s, rec, dir := newService(t)
	defer os.RemoveAll(dir)
	require.True(t, s.CreateWorkspace("topp").OK())
	writeFile(t, filepath.Join(dir, "lonely.shp"), shapefile.Header(1))
	rec.Reset()

	r := s.CreateShapeLayer("topp", "lonely", filepath.Join(dir, "lonely.shp"), "UTF-8")
	assert.Equal(t, Fail, r.Status)
	assert.True(t, strings.HasPrefix(r.Info, "file parse error: "), r.Info)
	assert.IsType(t, shapefile.ErrMissingComponent{}, r.Err)
	assert.Empty(t, rec.Calls())
}

// TestPublishTiffScenario walks through publishing a raster into a
// new workspace.
func TestPublishTiffScenario(t *testing.T) {
	s, rec, dir := newService(t)
	defer os.RemoveAll(dir)
	tif := writeFile(t, filepath.Join(dir, "elevation.tif"), []byte("II*\x00"))

	exists, err := s.WorkspaceExists("gis")
	require.NoError(t, err)
	require.False(t, exists)
	require.True(t, s.CreateWorkspace("gis").OK())
	exists, err = s.WorkspaceExists("gis")
	require.NoError(t, err)
	require.True(t, exists)

	rec.Reset()
	r := s.CreateTiffLayer("gis", "dem", tif)
	if assert.Equal(t, Success, r.Status, r.Info) {
		data := r.Data.(LayerData)
		if assert.NotNil(t, data.Layer) {
			assert.Equal(t, "dem", data.Layer.Name)
			assert.Equal(t, catalog.RasterLayer, data.Layer.Type)
			assert.Equal(t, data.Layer.DefaultStyle, data.DefaultStyle)
		}
	}
	assert.Equal(t, []string{"CreateCoverageStore:GeoTIFF"}, rec.Calls())

	store, err := s.GetStore("gis", "dem")
	if assert.NoError(t, err) && assert.NotNil(t, store) {
		assert.Equal(t, "file:"+tif, store.URL)
	}

	r = s.DeleteLayer("gis", "dem")
	assert.Equal(t, Success, r.Status, r.Info)
	layer, err := s.GetLayer("gis", "dem")
	assert.NoError(t, err)
	assert.Nil(t, layer)
}

func TestCreateTiffLayerMissingFile(t *testing.T) {
	s, _, dir := newService(t)
	defer os.RemoveAll(dir)
	require.True(t, s.CreateWorkspace("gis").OK())

	r := s.CreateTiffLayer("gis", "dem", filepath.Join(dir, "nothing.tif"))
	assert.Equal(t, Fail, r.Status)
	assert.True(t, strings.HasPrefix(r.Info, "file parse error: "), r.Info)
	assert.Error(t, r.Err)
}

func TestCreatePyramidTiffLayer(t *testing.T) {
	s, rec, dir := newService(t)
	defer os.RemoveAll(dir)
	require.True(t, s.CreateWorkspace("gis").OK())
	tif := writeFile(t, filepath.Join(dir, "big.tif"), []byte("II*\x00"))
	outDir := filepath.Join(dir, "pyramid")
	require.NoError(t, os.MkdirAll(outDir, 0755))
	stale := writeFile(t, filepath.Join(outDir, "stale.tif"), []byte("old"))
	rec.Reset()

	opts := tiler.Options{Command: []string{"sh", "-c", "exit 0", "retile"}}
	r := s.CreatePyramidTiffLayer(context.Background(), "gis", "big", tif, outDir, opts)
	if assert.Equal(t, Success, r.Status, r.Info) {
		assert.Equal(t, "big", r.Data.(LayerData).Layer.Name)
	}
	assert.Equal(t, []string{"CreateCoverageStore:ImagePyramid"}, rec.Calls())
	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "target directory not cleared")

	store, err := s.GetStore("gis", "big")
	if assert.NoError(t, err) && assert.NotNil(t, store) {
		assert.Equal(t, string(catalog.ImagePyramid), store.Type)
		assert.Equal(t, "file:"+outDir, store.URL)
	}
}

func TestCreatePyramidSlicingError(t *testing.T) {
	s, rec, dir := newService(t)
	defer os.RemoveAll(dir)
	require.True(t, s.CreateWorkspace("gis").OK())
	rec.Reset()

	opts := tiler.Options{Command: []string{"sh", "-c", "echo cannot open raster >&2; exit 2", "retile"}}
	r := s.CreatePyramidTiffLayer(context.Background(), "gis", "big", filepath.Join(dir, "big.tif"), filepath.Join(dir, "out"), opts)
	assert.Equal(t, Fail, r.Status)
	assert.True(t, strings.HasPrefix(r.Info, "slicing error: "), r.Info)
	assert.Contains(t, r.Info, "cannot open raster")
	if assert.IsType(t, tiler.ErrRetileFailed{}, r.Err) {
		assert.Equal(t, 2, r.Err.(tiler.ErrRetileFailed).ExitCode)
	}
	assert.Empty(t, rec.Calls())
}

func TestPyramidTilerDefaults(t *testing.T) {
	s, _, dir := newService(t)
	defer os.RemoveAll(dir)
	s.Tiler = tiler.New(tiler.Options{Levels: 6, Command: []string{"retile.py"}})

	tl := s.pyramidTiler(tiler.Options{BlockWidth: 256})
	assert.Equal(t, 6, tl.Levels)
	assert.Equal(t, 256, tl.BlockWidth)
	assert.Equal(t, 2048, tl.BlockHeight)
	assert.Equal(t, []string{"retile.py"}, tl.Command)
}

func TestCreateStylePointDefaults(t *testing.T) {
	s, _, dir := newService(t)
	defer os.RemoveAll(dir)
	require.True(t, s.CreateWorkspace("topp").OK())

	r := s.CreateStyle("topp", "wells", "point", map[string]interface{}{"transparency": 0.3})
	if assert.Equal(t, Success, r.Status, r.Info) {
		assert.Equal(t, "wells", r.Data.(*catalog.Style).Name)
	}
	body, err := s.Catalog.StyleBody("topp", "wells")
	require.NoError(t, err)
	assert.Contains(t, string(body), `<CssParameter name="fill-opacity">0.7</CssParameter>`)

	sym, err := s.StyleSymbolizer("topp", "wells")
	if assert.NoError(t, err) {
		assert.Equal(t, sld.PointStyle{Mark: "circle", Color: "#000000", Transparency: 0.3, Size: 1}, sym)
	}
}

func TestCreateStylePolygonRoundTrip(t *testing.T) {
	s, _, dir := newService(t)
	defer os.RemoveAll(dir)
	require.True(t, s.CreateWorkspace("topp").OK())

	r := s.CreateStyle("topp", "s1", "polygon", map[string]interface{}{"fill_color": "#FFFFFF"})
	require.Equal(t, Success, r.Status, r.Info)

	style, err := s.GetStyle("topp", "s1")
	if assert.NoError(t, err) && assert.NotNil(t, style) {
		assert.Equal(t, "s1", style.Name)
	}
	sym, err := s.StyleSymbolizer("topp", "s1")
	if assert.NoError(t, err) {
		assert.Equal(t, sld.PolygonStyle{FillColor: "#FFFFFF", OutlineColor: "#000000", OutlineWidth: 1}, sym)
	}

	// Creating again replaces the style
	r = s.CreateStyle("topp", "s1", "polyline", map[string]interface{}{"width": 3})
	require.Equal(t, Success, r.Status, r.Info)
	sym, err = s.StyleSymbolizer("topp", "s1")
	if assert.NoError(t, err) {
		assert.Equal(t, sld.LineStyle{Color: "#000000", Width: 3}, sym)
	}
}

func TestCreateStyleUnsupported(t *testing.T) {
	s, rec, dir := newService(t)
	defer os.RemoveAll(dir)
	require.True(t, s.CreateWorkspace("topp").OK())
	rec.Reset()

	r := s.CreateStyle("topp", "s1", "hexagon", nil)
	assert.Equal(t, Fail, r.Status)
	assert.True(t, strings.HasPrefix(r.Info, "unsupported style type"), r.Info)
	assert.Equal(t, sld.ErrUnsupportedStyleType{Kind: "hexagon"}, r.Err)

	r = s.CreateStyle("topp", "s1", "point", map[string]interface{}{"transparency": 2})
	assert.Equal(t, Fail, r.Status)
	assert.True(t, strings.HasPrefix(r.Info, "invalid style parameters"), r.Info)
	assert.Empty(t, rec.Calls())
}

func TestUpdateStyle(t *testing.T) {
	s, rec, dir := newService(t)
	defer os.RemoveAll(dir)
	require.True(t, s.CreateWorkspace("topp").OK())
	rec.Reset()

	r := s.UpdateStyle("topp", "ghost", "line", nil)
	assert.Equal(t, Fail, r.Status)
	assert.Equal(t, "style does not exist: ghost", r.Info)
	assert.Empty(t, rec.Calls())

	require.True(t, s.CreateStyle("topp", "roads", "line", nil).OK())
	rec.Reset()

	r = s.UpdateStyle("topp", "roads", "hexagon", nil)
	assert.Equal(t, Fail, r.Status)
	assert.Empty(t, rec.Calls())

	r = s.UpdateStyle("topp", "roads", "line", map[string]interface{}{"color": "#00FF00", "width": 2.5})
	assert.Equal(t, Success, r.Status, r.Info)
	assert.Equal(t, []string{"UpdateStyle"}, rec.Calls())
	sym, err := s.StyleSymbolizer("topp", "roads")
	if assert.NoError(t, err) {
		assert.Equal(t, sld.LineStyle{Color: "#00FF00", Width: 2.5}, sym)
	}

	r = s.DeleteStyle("topp", "roads")
	assert.Equal(t, Success, r.Status, r.Info)
	exists, err := s.StyleExists("topp", "roads")
	assert.NoError(t, err)
	assert.False(t, exists)
}
