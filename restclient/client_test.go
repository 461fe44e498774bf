// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"bytes"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/memory"
	"github.com/diffeo/go-geoserver/restserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyURL(t *testing.T) {
	_, err := New(Config{})
	assert.Equal(t, ErrMissingURL, err)
}

func TestBadScheme(t *testing.T) {
	_, err := New(Config{URL: "ftp://example.com/geoserver/rest"})
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	c, err := New(Config{URL: "http://localhost:8080/geoserver/rest"})
	require.NoError(t, err)
	assert.Equal(t, "/geoserver/rest/", c.URL.Path)
	assert.Equal(t, DefaultRetries, c.Config.Retries)
	assert.Equal(t, DefaultBackoffFactor, c.Config.BackoffFactor)
	assert.Equal(t, DefaultTimeout, c.Config.Timeout)
	assert.Equal(t, DefaultUsername, c.Config.Username)
	assert.Equal(t, DefaultPassword, c.Config.Password)
	assert.Equal(t, DefaultTimeout, c.HTTP.Timeout)

	transport, ok := c.HTTP.Transport.(*retryTransport)
	if assert.True(t, ok) {
		assert.Equal(t, DefaultRetries, transport.Retries)
	}

	c.SetupConnection(5, 0.1)
	transport, ok = c.HTTP.Transport.(*retryTransport)
	if assert.True(t, ok) {
		assert.Equal(t, 5, transport.Retries)
		assert.Equal(t, 0.1, transport.BackoffFactor)
	}
}

// recorder wraps a handler, keeping the requests it sees.
type recorder struct {
	Handler  http.Handler
	mu       sync.Mutex
	Requests []*http.Request
	Bodies   [][]byte
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := ioutil.ReadAll(req.Body)
	r.mu.Lock()
	r.Requests = append(r.Requests, req)
	r.Bodies = append(r.Bodies, body)
	r.mu.Unlock()
	req.Body = ioutil.NopCloser(bytes.NewReader(body))
	r.Handler.ServeHTTP(w, req)
}

// find returns the first recorded request with method whose path
// ends with suffix, and its body.
func (r *recorder) find(method, suffix string) (*http.Request, []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, req := range r.Requests {
		if req.Method == method && strings.HasSuffix(req.URL.Path, suffix) {
			return req, r.Bodies[i]
		}
	}
	return nil, nil
}

func newRecorded(t *testing.T, config Config) (*Client, *recorder, func()) {
	rec := &recorder{Handler: restserver.NewRouter(memory.New())}
	server := httptest.NewServer(rec)
	config.URL = server.URL
	c, err := New(config)
	require.NoError(t, err)
	return c, rec, server.Close
}

func TestBasicAuth(t *testing.T) {
	c, rec, done := newRecorded(t, Config{})
	defer done()
	_, err := c.Workspaces()
	require.NoError(t, err)

	req, _ := rec.find(http.MethodGet, "/workspaces")
	if assert.NotNil(t, req) {
		user, pass, ok := req.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "geoserver", pass)
		assert.NotEmpty(t, req.Header.Get(RequestIDHeader))
	}
}

func TestAccessToken(t *testing.T) {
	c, rec, done := newRecorded(t, Config{AccessToken: "sekrit"})
	defer done()
	_, err := c.Workspaces()
	require.NoError(t, err)

	req, _ := rec.find(http.MethodGet, "/workspaces")
	if assert.NotNil(t, req) {
		assert.Equal(t, "Bearer sekrit", req.Header.Get("Authorization"))
		_, _, ok := req.BasicAuth()
		assert.False(t, ok)
	}
}

func TestFailedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()
	c, err := New(Config{URL: server.URL})
	require.NoError(t, err)

	_, err = c.Workspace("topp")
	assert.Equal(t, catalog.ErrFailedRequest{
		Message:    "Failed to get workspace",
		StatusCode: http.StatusInternalServerError,
		Body:       "boom",
	}, err)
}

func TestReferenceModeRequests(t *testing.T) {
	c, rec, done := newRecorded(t, Config{})
	defer done()
	dir, err := ioutil.TempDir("", "restclient")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "dem.tif")
	require.NoError(t, ioutil.WriteFile(path, []byte("II*\x00"), 0644))

	_, err = c.CreateWorkspace("topp", "http://topp.com")
	require.NoError(t, err)
	opts := catalog.DefaultCoverageStoreOptions()
	opts.Type = catalog.ImagePyramid
	opts.LayerName = "topp:elevation"
	_, _, err = c.CreateCoverageStore("topp", "dem", path, opts)
	require.NoError(t, err)

	req, body := rec.find(http.MethodPost, "/workspaces/topp/coveragestores")
	if assert.NotNil(t, req) {
		assert.Equal(t, "application/xml", req.Header.Get("Content-Type"))
		assert.Contains(t, string(body), "<type>ImagePyramid</type>")
		assert.Contains(t, string(body), "<url>file:"+path+"</url>")
	}
	req, body = rec.find(http.MethodPost, "/coveragestores/dem/coverages")
	if assert.NotNil(t, req) {
		assert.Equal(t, "<coverage><name>elevation</name><nativeName>dem</nativeName></coverage>", string(body))
	}
}

func TestUploadModeRequests(t *testing.T) {
	c, rec, done := newRecorded(t, Config{})
	defer done()
	dir, err := ioutil.TempDir("", "restclient")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "ortho.tif")
	require.NoError(t, ioutil.WriteFile(path, []byte("II*\x00ortho"), 0644))

	_, err = c.CreateWorkspace("topp", "http://topp.com")
	require.NoError(t, err)
	opts := catalog.DefaultCoverageStoreOptions()
	opts.UploadData = true
	_, _, err = c.CreateCoverageStore("topp", "imagery", "file:"+path, opts)
	require.NoError(t, err)

	req, body := rec.find(http.MethodPut, "/coveragestores/imagery/file.geotiff")
	if assert.NotNil(t, req) {
		assert.Equal(t, "first", req.URL.Query().Get("configure"))
		assert.Equal(t, "imagery", req.URL.Query().Get("coverageName"))
		assert.Equal(t, "image/tiff", req.Header.Get("Content-Type"))
		assert.Equal(t, "II*\x00ortho", string(body))
	}

	layer, err := c.Layer("topp", "imagery")
	if assert.NoError(t, err) {
		assert.Equal(t, "imagery", layer.Store)
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	c, err := New(Config{URL: server.URL, Timeout: 50 * time.Millisecond, Retries: -1})
	require.NoError(t, err)
	_, err = c.Workspaces()
	assert.Error(t, err)
}
