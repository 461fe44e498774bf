// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/memory"
	"github.com/diffeo/go-geoserver/restdata"
	"github.com/diffeo/go-geoserver/sld"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ServerSuite struct {
	suite.Suite
	Catalog catalog.Catalog
	Handler http.Handler
}

func (s *ServerSuite) SetupTest() {
	s.Catalog = memory.New()
	s.Handler = NewRouter(s.Catalog)
	_, err := s.Catalog.CreateWorkspace("topp", "http://topp.com")
	s.Require().NoError(err)
}

func (s *ServerSuite) do(method, path, contentType string, body io.Reader, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func (s *ServerSuite) TestEmptyList() {
	rec := s.do(http.MethodGet, "/workspaces/topp/layers", "", nil, "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(restdata.JSONMediaType, rec.Header().Get("Content-Type"))
	s.JSONEq(`{"layers": ""}`, rec.Body.String())
}

func (s *ServerSuite) TestWorkspaceList() {
	rec := s.do(http.MethodGet, "/workspaces", "", nil, "application/json")
	s.Equal(http.StatusOK, rec.Code)
	links, err := restdata.DecodeList(rec.Header().Get("Content-Type"), rec.Body, "workspaces", "workspace")
	if s.NoError(err) && s.Len(links, 1) {
		s.Equal("topp", links[0].Name)
		s.Equal("/workspaces/topp", links[0].Href)
	}
}

func (s *ServerSuite) TestNamespacePost() {
	body := `<namespace><prefix>sf</prefix><uri>http://sf.com</uri></namespace>`
	rec := s.do(http.MethodPost, "/namespaces", restdata.XMLMediaType, strings.NewReader(body), "")
	s.Equal(http.StatusCreated, rec.Code)
	s.Equal("/workspaces/sf", rec.Header().Get("Location"))

	rec = s.do(http.MethodGet, "/namespaces/sf", "", nil, "")
	var ns restdata.Namespace
	if s.NoError(restdata.DecodeEnvelope(rec.Header().Get("Content-Type"), rec.Body, "namespace", &ns)) {
		s.Equal("http://sf.com", ns.URI)
	}

	rec = s.do(http.MethodPost, "/namespaces", restdata.XMLMediaType, strings.NewReader(body), "")
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *ServerSuite) TestWorkspacePostJSON() {
	rec := s.do(http.MethodPost, "/workspaces", restdata.JSONMediaType, strings.NewReader(`{"workspace": {"name": "nurc"}}`), "")
	s.Equal(http.StatusCreated, rec.Code)
	ws, err := s.Catalog.Workspace("nurc")
	if s.NoError(err) {
		s.Equal("http://nurc", ws.NamespaceURI)
	}
}

func (s *ServerSuite) TestBadBody() {
	rec := s.do(http.MethodPost, "/workspaces", restdata.JSONMediaType, strings.NewReader(`{"other": {}}`), "")
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/workspaces", "image/png", strings.NewReader(`x`), "")
	s.Equal(http.StatusUnsupportedMediaType, rec.Code)
}

func (s *ServerSuite) TestNotFound() {
	rec := s.do(http.MethodGet, "/workspaces/absent", "", nil, "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "absent")
	s.True(strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))

	rec = s.do(http.MethodGet, "/workspaces/topp/datastores/absent", "", nil, "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerSuite) TestMethodNotAllowed() {
	rec := s.do(http.MethodPut, "/workspaces", restdata.XMLMediaType, strings.NewReader("<workspace/>"), "")
	s.Equal(http.StatusMethodNotAllowed, rec.Code)
}

func (s *ServerSuite) TestNotAcceptable() {
	rec := s.do(http.MethodGet, "/workspaces", "", nil, "image/png")
	s.Equal(http.StatusNotAcceptable, rec.Code)
}

func (s *ServerSuite) TestDeleteNotEmpty() {
	body, err := sld.Render(sld.Point, nil)
	s.Require().NoError(err)
	_, err = s.Catalog.CreateStyle("topp", "dots", body, false)
	s.Require().NoError(err)

	rec := s.do(http.MethodDelete, "/workspaces/topp", "", nil, "")
	s.Equal(http.StatusForbidden, rec.Code)
	rec = s.do(http.MethodDelete, "/workspaces/topp?recurse=true", "", nil, "")
	s.Equal(http.StatusOK, rec.Code)
	_, err = s.Catalog.Workspace("topp")
	s.True(catalog.IsNotFound(err))
}

func (s *ServerSuite) TestStyleRepresentations() {
	body, err := sld.Render(sld.Polygon, map[string]interface{}{"fill_color": "#00FF00"})
	s.Require().NoError(err)

	rec := s.do(http.MethodPost, "/workspaces/topp/styles?name=green", sld.ContentType, bytes.NewReader(body), "")
	s.Equal(http.StatusCreated, rec.Code)
	s.Equal("/workspaces/topp/styles/green", rec.Header().Get("Location"))

	rec = s.do(http.MethodGet, "/workspaces/topp/styles/green", "", nil, sld.ContentType)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(sld.ContentType, rec.Header().Get("Content-Type"))
	s.Equal(string(body), rec.Body.String())

	rec = s.do(http.MethodGet, "/workspaces/topp/styles/green", "", nil, "")
	var style restdata.Style
	if s.NoError(restdata.DecodeEnvelope(rec.Header().Get("Content-Type"), rec.Body, "style", &style)) {
		s.Equal("green", style.Name)
		s.Equal("topp", style.Workspace.Name)
		s.Equal("green.sld", style.Filename)
	}

	rec = s.do(http.MethodPost, "/workspaces/topp/styles?name=plain", "text/plain", bytes.NewReader(body), "")
	s.Equal(http.StatusUnsupportedMediaType, rec.Code)
	rec = s.do(http.MethodPost, "/workspaces/topp/styles", sld.ContentType, bytes.NewReader(body), "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerSuite) TestCoverageStoreUpload() {
	rec := s.do(http.MethodPut, "/workspaces/topp/coveragestores/dem/file.geotiff?configure=first&coverageName=elev",
		"image/tiff", strings.NewReader("II*\x00"), "")
	s.Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/workspaces/topp/layers/elev", "", nil, "")
	var layer restdata.Layer
	if s.NoError(restdata.DecodeEnvelope(rec.Header().Get("Content-Type"), rec.Body, "layer", &layer)) {
		s.Equal("RASTER", layer.Type)
		s.Equal("raster", layer.DefaultStyle.Name)
		s.Equal("coverage", layer.Resource.Class)
		s.Equal("topp:elev", layer.Resource.Name)
		store, ok := restdata.StoreFromHref(layer.Resource.Href)
		s.True(ok)
		s.Equal("dem", store)
	}

	rec = s.do(http.MethodPut, "/workspaces/topp/coveragestores/dem/file.png", "image/png", strings.NewReader("x"), "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerSuite) TestRequestCounter() {
	before := testutil.ToFloat64(requestCount.WithLabelValues("workspace", http.MethodGet, "404"))
	s.do(http.MethodGet, "/workspaces/absent", "", nil, "")
	after := testutil.ToFloat64(requestCount.WithLabelValues("workspace", http.MethodGet, "404"))
	s.Equal(before+1, after)
}

func TestServer(t *testing.T) {
	suite.Run(t, &ServerSuite{})
}

// TestSubrouter checks that hrefs include a router's path prefix.
func TestSubrouter(t *testing.T) {
	c := memory.New()
	_, err := c.CreateWorkspace("topp", "")
	require.NoError(t, err)
	h := NewPrefixRouter("/geoserver/rest", c)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/geoserver/rest/workspaces", nil))
	links, err := restdata.DecodeList(rec.Header().Get("Content-Type"), rec.Body, "workspaces", "workspace")
	if assert.NoError(t, err) && assert.Len(t, links, 1) {
		assert.Equal(t, "/geoserver/rest/workspaces/topp", links[0].Href)
	}
}
