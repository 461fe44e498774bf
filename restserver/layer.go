// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/restdata"
	"github.com/gorilla/mux"
)

func (api *restAPI) fillLayer(layer catalog.Layer) (result restdata.Layer, err error) {
	result.Name = layer.Name
	result.Type = string(layer.Type)
	result.DefaultStyle.Name = layer.DefaultStyle
	result.Resource.Name = restdata.QualifiedName(layer.Workspace, layer.Name)
	builder := buildURLs(api.Router, "workspace", layer.Workspace, "store", layer.Store)
	switch layer.Type {
	case catalog.VectorLayer:
		result.Resource.Class = "featureType"
		builder.Link(&result.Resource.Href, "featureType", "featuretype", layer.Name)
	case catalog.RasterLayer:
		result.Resource.Class = "coverage"
		builder.Link(&result.Resource.Href, "coverage", "coverage", layer.Name)
	}
	err = builder.Error
	return
}

// LayerList gets the layers in a workspace.
func (api *restAPI) LayerList(ctx *context) (interface{}, error) {
	layers, err := api.Catalog.Layers(ctx.Workspace.Name)
	if err != nil {
		return nil, err
	}
	links := make([]restdata.Link, len(layers))
	builder := buildURLs(api.Router, "workspace", ctx.Workspace.Name)
	for i, layer := range layers {
		links[i].Name = layer.Name
		builder.Link(&links[i].Href, "layer", "layer", layer.Name)
	}
	if builder.Error != nil {
		return nil, builder.Error
	}
	return restdata.ListEnvelope("layers", "layer", links), nil
}

// LayerGet returns a single layer.
func (api *restAPI) LayerGet(ctx *context) (interface{}, error) {
	layer, err := api.Catalog.Layer(ctx.Workspace.Name, ctx.Var("layer"))
	if err != nil {
		return nil, err
	}
	result, err := api.fillLayer(*layer)
	if err != nil {
		return nil, err
	}
	return restdata.Envelope("layer", result), nil
}

// LayerDelete deletes a layer, and its resource if recurse is set.
func (api *restAPI) LayerDelete(ctx *context) (interface{}, error) {
	return nil, api.Catalog.DeleteLayer(ctx.Workspace.Name, ctx.Var("layer"), ctx.BoolParam("recurse", false))
}

// PopulateLayer adds layer routes to a router.  r should be rooted
// at the root of the REST API.
func (api *restAPI) PopulateLayer(r *mux.Router) {
	r.Path("/workspaces/{workspace}/layers").Name("layers").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.LayerList,
	})
	r.Path("/workspaces/{workspace}/layers/{layer}").Name("layer").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.LayerGet,
		Delete:  api.LayerDelete,
	})
}
