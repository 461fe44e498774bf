// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Regression tests for rest.go.
//
// Main tests are really by running the end-to-end path, using the
// catalogtest tests driven from restclient.  This only contains
// special-case tests.
//
// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/diffeo/go-geoserver/memory"
	"github.com/diffeo/go-geoserver/restdata"
	"github.com/diffeo/go-geoserver/sld"
	"github.com/stretchr/testify/assert"
)

type failResponseWriter struct {
	Headers    http.Header
	StatusCode int
}

func (rw *failResponseWriter) Header() http.Header {
	if rw.Headers == nil {
		rw.Headers = make(http.Header)
	}
	return rw.Headers
}

func (rw *failResponseWriter) Write([]byte) (int, error) {
	return 0, errors.New("foo")
}

func (rw *failResponseWriter) WriteHeader(code int) {
	rw.StatusCode = code
}

// TestDoubleFault checks that, if there is an error serializing a JSON
// response, it doesn't actually panic the process.
func TestDoubleFault(t *testing.T) {
	backend := memory.New()
	_, err := backend.CreateWorkspace("topp", "http://topp.com")
	if !assert.NoError(t, err) {
		return
	}

	router := NewRouter(backend)
	req := &http.Request{
		Method: http.MethodGet,
		URL: &url.URL{
			Path: "/workspaces/topp",
		},
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
		Close:      true,
		Host:       "localhost",
	}
	resp := &failResponseWriter{}
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestPanic checks that a panicking handler produces a 500 error.
func TestPanic(t *testing.T) {
	h := &resourceHandler{
		Context: func(req *http.Request) (*context, error) {
			return &context{Request: req}, nil
		},
		Get: func(*context) (interface{}, error) {
			panic("boom")
		},
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "panic: boom")
}

func TestNegotiateResponse(t *testing.T) {
	for _, tc := range []struct {
		Accept   string
		Expected string
		Status   int
	}{
		{"", restdata.JSONMediaType, 0},
		{"*/*", restdata.JSONMediaType, 0},
		{"application/json", restdata.JSONMediaType, 0},
		{"text/json", restdata.JSONMediaType, 0},
		{"application/*", restdata.JSONMediaType, 0},
		{sld.ContentType, sld.ContentType, 0},
		{"application/json;q=0.5, " + sld.ContentType, sld.ContentType, 0},
		{"*/*;q=0.1, application/json", restdata.JSONMediaType, 0},
		{"image/png", "", http.StatusNotAcceptable},
		{"application/json;q=2", "", http.StatusBadRequest},
		{"application/json;q=x", "", http.StatusBadRequest},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.Accept != "" {
			req.Header.Set("Accept", tc.Accept)
		}
		actual, err := negotiateResponse(req)
		if tc.Status == 0 {
			if assert.NoError(t, err, tc.Accept) {
				assert.Equal(t, tc.Expected, actual, tc.Accept)
			}
		} else {
			assert.Equal(t, tc.Status, restdata.StatusFor(err), tc.Accept)
		}
	}
}

func TestBoolParam(t *testing.T) {
	ctx := &context{QueryParams: url.Values{
		"yes":   []string{"true"},
		"no":    []string{"0"},
		"maybe": []string{"perhaps"},
	}}
	assert.True(t, ctx.BoolParam("yes", false))
	assert.False(t, ctx.BoolParam("no", true))
	assert.True(t, ctx.BoolParam("maybe", true))
	assert.False(t, ctx.BoolParam("absent", false))
}
