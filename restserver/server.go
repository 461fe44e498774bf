// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"net/http"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/gorilla/mux"
)

// NewRouter creates a new HTTP handler that processes all catalog
// requests.  All resources are under the URL path root, e.g.
// /workspaces/foo.  For more control over this setup, create a
// mux.Router and call PopulateRouter instead.
func NewRouter(c catalog.Catalog) http.Handler {
	r := mux.NewRouter()
	PopulateRouter(r, c)
	return r
}

// NewPrefixRouter creates a new HTTP handler with all resources
// under prefix, as in GeoServer's own /geoserver/rest.
func NewPrefixRouter(prefix string, c catalog.Catalog) http.Handler {
	r := mux.NewRouter()
	PopulateRouter(r.PathPrefix(prefix).Subrouter(), c)
	return r
}

// PopulateRouter adds catalog routes to an existing
// github.com/gorilla/mux router object.  This can be used, for
// instance, to place the interface under GeoServer's usual subpath:
//
//     import "github.com/diffeo/go-geoserver/memory"
//     import "github.com/gorilla/mux"
//     r := mux.NewRouter()
//     s := r.PathPrefix("/geoserver/rest").Subrouter()
//     c := memory.New()
//     PopulateRouter(s, c)
func PopulateRouter(r *mux.Router, c catalog.Catalog) {
	api := &restAPI{Catalog: c, Router: r}
	api.PopulateRouter(r)
}

// restAPI holds the persistent state for the REST API.
type restAPI struct {
	Catalog catalog.Catalog
	Router  *mux.Router
}

// PopulateRouter adds all URL paths to a router.
func (api *restAPI) PopulateRouter(r *mux.Router) {
	api.PopulateWorkspace(r)
	api.PopulateStore(r)
	api.PopulateLayer(r)
	api.PopulateStyle(r)
}
