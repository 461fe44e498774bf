// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/restdata"
	"github.com/gorilla/mux"
)

// maxBodySize bounds how much of a request body a handler will read.
const maxBodySize = 1 << 30

// context holds all of the information and objects that can be extracted
// from URL parameters.
type context struct {
	Workspace    *catalog.Workspace
	Vars         map[string]string
	QueryParams  url.Values
	Request      *http.Request
	ResponseType string
}

func (api *restAPI) Context(req *http.Request) (ctx *context, err error) {
	ctx = &context{
		Vars:        mux.Vars(req),
		QueryParams: req.URL.Query(),
		Request:     req,
	}
	if name, present := ctx.Vars["workspace"]; present {
		ctx.Workspace, err = api.Catalog.Workspace(name)
	}
	return
}

// Var returns a URL path variable, or "" if the route has none.
func (ctx *context) Var(name string) string {
	return ctx.Vars[name]
}

// BoolParam looks at ctx.QueryParams for a parameter named name.  If
// it has a normally-truthy value (1, on, false, no, ...) then return
// that value.  Otherwise (empty string, foo, ...) return def.
func (ctx *context) BoolParam(name string, def bool) bool {
	switch strings.ToLower(ctx.QueryParams.Get(name)) {
	case "0", "f", "n", "false", "off", "no":
		return false
	case "1", "t", "y", "true", "on", "yes":
		return true
	default:
		return def
	}
}

// ContentType returns the request's Content-Type: header.
func (ctx *context) ContentType() string {
	return ctx.Request.Header.Get("Content-Type")
}

// Decode decodes a JSON or XML request body.  JSON bodies carry an
// envelope named by key; XML bodies have it as their root element.
func (ctx *context) Decode(key string, out interface{}) error {
	var err error
	body := http.MaxBytesReader(nil, ctx.Request.Body, maxBodySize)
	if ctx.ContentType() == "" {
		err = restdata.ErrUnsupportedMediaType{Type: ""}
	} else {
		err = restdata.DecodeEnvelope(ctx.ContentType(), body, key, out)
		if _, notJSON := err.(restdata.ErrUnsupportedMediaType); notJSON {
			err = restdata.Decode(ctx.ContentType(), body, out)
		}
	}
	if err == nil {
		return nil
	}
	if _, isStatus := err.(restdata.ErrorStatus); isStatus {
		return err
	}
	return restdata.ErrBadRequest{Err: err}
}

// Body reads the entire raw request body.
func (ctx *context) Body() ([]byte, error) {
	body, err := ioutil.ReadAll(http.MaxBytesReader(nil, ctx.Request.Body, maxBodySize))
	if err != nil {
		return nil, restdata.ErrBadRequest{Err: err}
	}
	return body, nil
}
