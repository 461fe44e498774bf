// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"bytes"
	"strings"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/restdata"
	"github.com/diffeo/go-geoserver/shapefile"
	"github.com/gorilla/mux"
)

// store finds the store named in the URL, which must be of kind.
func (api *restAPI) store(ctx *context, kind catalog.StoreKind) (*catalog.Store, error) {
	store, err := api.Catalog.Store(ctx.Workspace.Name, ctx.Var("store"))
	if err == nil && store.Kind != kind {
		err = catalog.ErrNoSuchStore{Workspace: ctx.Workspace.Name, Name: ctx.Var("store")}
	}
	return store, err
}

// storeLinks lists the stores of one kind in the workspace named in
// the URL.
func (api *restAPI) storeLinks(ctx *context, kind catalog.StoreKind, route string) ([]restdata.Link, error) {
	stores, err := api.Catalog.Stores(ctx.Workspace.Name)
	if err != nil {
		return nil, err
	}
	var links []restdata.Link
	builder := buildURLs(api.Router, "workspace", ctx.Workspace.Name)
	for _, store := range stores {
		if store.Kind != kind {
			continue
		}
		link := restdata.Link{Name: store.Name}
		builder.Link(&link.Href, route, "store", store.Name)
		links = append(links, link)
	}
	return links, builder.Error
}

func (api *restAPI) created(route string, params ...string) (interface{}, error) {
	var location string
	err := buildURLs(api.Router, params...).URL(&location, route).Error
	if err != nil {
		return nil, err
	}
	return responseCreated{Location: location}, nil
}

// DataStoreList gets the vector stores in a workspace.
func (api *restAPI) DataStoreList(ctx *context) (interface{}, error) {
	links, err := api.storeLinks(ctx, catalog.DataStore, "dataStore")
	if err != nil {
		return nil, err
	}
	return restdata.ListEnvelope("dataStores", "dataStore", links), nil
}

// DataStoreGet returns a single vector store.
func (api *restAPI) DataStoreGet(ctx *context) (interface{}, error) {
	store, err := api.store(ctx, catalog.DataStore)
	if err != nil {
		return nil, err
	}
	result := restdata.DataStore{
		Name:      store.Name,
		Type:      store.Type,
		Enabled:   store.Enabled,
		Workspace: restdata.Link{Name: store.Workspace},
	}
	result.ConnectionParameters.Entry = append(result.ConnectionParameters.Entry,
		restdata.Entry{Key: "namespace", Value: ctx.Workspace.NamespaceURI})
	if store.URL != "" {
		result.ConnectionParameters.Entry = append(result.ConnectionParameters.Entry,
			restdata.Entry{Key: "url", Value: store.URL})
	}
	err = buildURLs(api.Router, "workspace", store.Workspace, "store", store.Name).
		URL(&result.Workspace.Href, "workspace").
		URL(&result.FeatureTypes, "featureTypes").
		Error
	if err != nil {
		return nil, err
	}
	return restdata.Envelope("dataStore", result), nil
}

// DataStoreDelete deletes a vector store.
func (api *restAPI) DataStoreDelete(ctx *context) (interface{}, error) {
	if _, err := api.store(ctx, catalog.DataStore); err != nil {
		return nil, err
	}
	return nil, api.Catalog.DeleteStore(ctx.Workspace.Name, ctx.Var("store"), ctx.BoolParam("recurse", false))
}

// DataStoreUpload creates or replaces a vector store from a zipped
// shapefile.
func (api *restAPI) DataStoreUpload(ctx *context) (interface{}, error) {
	if ctx.Var("format") != "shp" {
		return nil, catalog.ErrInvalidArgument{Argument: "format", Reason: "only shapefile uploads are supported"}
	}
	if mt := ctx.ContentType(); !strings.HasPrefix(mt, restdata.ZipMediaType) {
		return nil, restdata.ErrUnsupportedMediaType{Type: mt}
	}
	body, err := ctx.Body()
	if err != nil {
		return nil, err
	}
	bundle, err := shapefile.FromZip(body)
	if err != nil {
		return nil, restdata.ErrBadRequest{Err: err}
	}
	charset := ctx.QueryParams.Get("charset")
	store, err := api.Catalog.CreateFeatureStore(ctx.Workspace.Name, ctx.Var("store"), bundle, charset, true)
	if err != nil {
		return nil, err
	}
	return api.created("dataStore", "workspace", store.Workspace, "store", store.Name)
}

// FeatureTypeList gets the feature types published from a vector
// store.
func (api *restAPI) FeatureTypeList(ctx *context) (interface{}, error) {
	store, err := api.store(ctx, catalog.DataStore)
	if err != nil {
		return nil, err
	}
	layers, err := api.Catalog.Layers(store.Workspace)
	if err != nil {
		return nil, err
	}
	var links []restdata.Link
	builder := buildURLs(api.Router, "workspace", store.Workspace, "store", store.Name)
	for _, layer := range layers {
		if layer.Store != store.Name || layer.Type != catalog.VectorLayer {
			continue
		}
		link := restdata.Link{Name: layer.Name}
		builder.Link(&link.Href, "featureType", "featuretype", layer.Name)
		links = append(links, link)
	}
	if builder.Error != nil {
		return nil, builder.Error
	}
	return restdata.ListEnvelope("featureTypes", "featureType", links), nil
}

// FeatureTypeGet returns a feature type, as the resource of a vector
// layer.
func (api *restAPI) FeatureTypeGet(ctx *context) (interface{}, error) {
	store, err := api.store(ctx, catalog.DataStore)
	if err != nil {
		return nil, err
	}
	layer, err := api.Catalog.Layer(store.Workspace, ctx.Var("featuretype"))
	if err == nil && layer.Store != store.Name {
		err = catalog.ErrNoSuchLayer{Workspace: store.Workspace, Name: ctx.Var("featuretype")}
	}
	if err != nil {
		return nil, err
	}
	return restdata.Envelope("featureType", restdata.FeatureType{
		Name:       layer.Name,
		NativeName: layer.Name,
		Namespace:  restdata.Link{Name: store.Workspace},
		Store:      restdata.Link{Name: restdata.QualifiedName(store.Workspace, store.Name)},
		Enabled:    true,
	}), nil
}

// CoverageStoreList gets the raster stores in a workspace.
func (api *restAPI) CoverageStoreList(ctx *context) (interface{}, error) {
	links, err := api.storeLinks(ctx, catalog.CoverageStore, "coverageStore")
	if err != nil {
		return nil, err
	}
	return restdata.ListEnvelope("coverageStores", "coverageStore", links), nil
}

// CoverageStoreGet returns a single raster store.
func (api *restAPI) CoverageStoreGet(ctx *context) (interface{}, error) {
	store, err := api.store(ctx, catalog.CoverageStore)
	if err != nil {
		return nil, err
	}
	result := restdata.CoverageStore{
		Name:      store.Name,
		Type:      store.Type,
		Enabled:   store.Enabled,
		Workspace: restdata.Link{Name: store.Workspace},
		URL:       store.URL,
	}
	err = buildURLs(api.Router, "workspace", store.Workspace, "store", store.Name).
		URL(&result.Workspace.Href, "workspace").
		URL(&result.Coverages, "coverages").
		Error
	if err != nil {
		return nil, err
	}
	return restdata.Envelope("coverageStore", result), nil
}

// coverageStoreRef decodes a coverage store body and registers it
// in reference mode.
func (api *restAPI) coverageStoreRef(ctx *context, name string, overwrite bool) (*catalog.Store, error) {
	var in restdata.CoverageStore
	if err := ctx.Decode("coverageStore", &in); err != nil {
		return nil, err
	}
	if name == "" {
		name = in.Name
	} else if in.Name != "" && in.Name != name {
		return nil, catalog.ErrInvalidArgument{Argument: "name", Reason: "body does not match URL"}
	}
	opts := catalog.CoverageStoreOptions{
		Type:      catalog.CoverageStoreType(in.Type),
		Overwrite: overwrite,
	}
	store, _, err := api.Catalog.CreateCoverageStore(ctx.Workspace.Name, name, in.URL, opts)
	return store, err
}

// CoverageStorePost creates a raster store referring to a file on
// the server.
func (api *restAPI) CoverageStorePost(ctx *context) (interface{}, error) {
	store, err := api.coverageStoreRef(ctx, "", false)
	if err != nil {
		return nil, err
	}
	return api.created("coverageStore", "workspace", store.Workspace, "store", store.Name)
}

// CoverageStorePut replaces an existing raster store.
func (api *restAPI) CoverageStorePut(ctx *context) (interface{}, error) {
	if _, err := api.store(ctx, catalog.CoverageStore); err != nil {
		return nil, err
	}
	_, err := api.coverageStoreRef(ctx, ctx.Var("store"), true)
	return nil, err
}

// CoverageStoreDelete deletes a raster store.
func (api *restAPI) CoverageStoreDelete(ctx *context) (interface{}, error) {
	if _, err := api.store(ctx, catalog.CoverageStore); err != nil {
		return nil, err
	}
	return nil, api.Catalog.DeleteStore(ctx.Workspace.Name, ctx.Var("store"), ctx.BoolParam("recurse", false))
}

// CoverageStoreUpload creates or replaces a raster store from the
// raw file in the request body.
func (api *restAPI) CoverageStoreUpload(ctx *context) (interface{}, error) {
	storeType, ok := catalog.CoverageStoreTypeForExtension(ctx.Var("format"))
	if !ok {
		return nil, catalog.ErrInvalidArgument{Argument: "format", Reason: "unknown coverage store type " + ctx.Var("format")}
	}
	body, err := ctx.Body()
	if err != nil {
		return nil, err
	}
	store, err := api.Catalog.UploadCoverageStore(ctx.Workspace.Name, ctx.Var("store"), storeType,
		ctx.ContentType(), bytes.NewReader(body), ctx.QueryParams.Get("coverageName"))
	if err != nil {
		return nil, err
	}
	return api.created("coverageStore", "workspace", store.Workspace, "store", store.Name)
}

// CoverageList gets the coverages published from a raster store.
func (api *restAPI) CoverageList(ctx *context) (interface{}, error) {
	store, err := api.store(ctx, catalog.CoverageStore)
	if err != nil {
		return nil, err
	}
	layers, err := api.Catalog.Layers(store.Workspace)
	if err != nil {
		return nil, err
	}
	var links []restdata.Link
	builder := buildURLs(api.Router, "workspace", store.Workspace, "store", store.Name)
	for _, layer := range layers {
		if layer.Store != store.Name || layer.Type != catalog.RasterLayer {
			continue
		}
		link := restdata.Link{Name: layer.Name}
		builder.Link(&link.Href, "coverage", "coverage", layer.Name)
		links = append(links, link)
	}
	if builder.Error != nil {
		return nil, builder.Error
	}
	return restdata.ListEnvelope("coverages", "coverage", links), nil
}

// CoveragePost publishes a coverage from a raster store.
func (api *restAPI) CoveragePost(ctx *context) (interface{}, error) {
	var in restdata.Coverage
	if err := ctx.Decode("coverage", &in); err != nil {
		return nil, err
	}
	coverage, err := api.Catalog.CreateCoverage(ctx.Workspace.Name, ctx.Var("store"), in.Name, in.NativeName)
	if err != nil {
		return nil, err
	}
	return api.created("coverage", "workspace", coverage.Workspace, "store", coverage.Store, "coverage", coverage.Name)
}

// CoverageGet returns a single coverage.
func (api *restAPI) CoverageGet(ctx *context) (interface{}, error) {
	coverage, err := api.Catalog.Coverage(ctx.Workspace.Name, ctx.Var("store"), ctx.Var("coverage"))
	if err != nil {
		return nil, err
	}
	return restdata.Envelope("coverage", restdata.Coverage{
		Name:       coverage.Name,
		NativeName: coverage.NativeName,
		Namespace:  restdata.Link{Name: coverage.Workspace},
		Store:      restdata.Link{Name: restdata.QualifiedName(coverage.Workspace, coverage.Store)},
		Enabled:    true,
	}), nil
}

// PopulateStore adds data and coverage store routes to a router.
// r should be rooted at the root of the REST API.
func (api *restAPI) PopulateStore(r *mux.Router) {
	r.Path("/workspaces/{workspace}/datastores").Name("dataStores").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.DataStoreList,
	})
	r.Path("/workspaces/{workspace}/datastores/{store}").Name("dataStore").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.DataStoreGet,
		Delete:  api.DataStoreDelete,
	})
	r.Path("/workspaces/{workspace}/datastores/{store}/file.{format}").Name("dataStoreFile").Handler(&resourceHandler{
		Context: api.Context,
		Put:     api.DataStoreUpload,
	})
	r.Path("/workspaces/{workspace}/datastores/{store}/featuretypes").Name("featureTypes").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.FeatureTypeList,
	})
	r.Path("/workspaces/{workspace}/datastores/{store}/featuretypes/{featuretype}").Name("featureType").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.FeatureTypeGet,
	})

	r.Path("/workspaces/{workspace}/coveragestores").Name("coverageStores").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.CoverageStoreList,
		Post:    api.CoverageStorePost,
	})
	r.Path("/workspaces/{workspace}/coveragestores/{store}").Name("coverageStore").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.CoverageStoreGet,
		Put:     api.CoverageStorePut,
		Delete:  api.CoverageStoreDelete,
	})
	r.Path("/workspaces/{workspace}/coveragestores/{store}/file.{format}").Name("coverageStoreFile").Handler(&resourceHandler{
		Context: api.Context,
		Put:     api.CoverageStoreUpload,
	})
	r.Path("/workspaces/{workspace}/coveragestores/{store}/coverages").Name("coverages").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.CoverageList,
		Post:    api.CoveragePost,
	})
	r.Path("/workspaces/{workspace}/coveragestores/{store}/coverages/{coverage}").Name("coverage").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.CoverageGet,
	})
}
