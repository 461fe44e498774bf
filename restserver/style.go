// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"mime"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/restdata"
	"github.com/diffeo/go-geoserver/sld"
	"github.com/gorilla/mux"
)

// sldBody reads an SLD request body.
func (ctx *context) sldBody() ([]byte, error) {
	mt, _, err := mime.ParseMediaType(ctx.ContentType())
	if err != nil || mt != sld.ContentType {
		return nil, restdata.ErrUnsupportedMediaType{Type: ctx.ContentType()}
	}
	return ctx.Body()
}

// StyleList gets the styles in a workspace.
func (api *restAPI) StyleList(ctx *context) (interface{}, error) {
	styles, err := api.Catalog.Styles(ctx.Workspace.Name)
	if err != nil {
		return nil, err
	}
	links := make([]restdata.Link, len(styles))
	builder := buildURLs(api.Router, "workspace", ctx.Workspace.Name)
	for i, style := range styles {
		links[i].Name = style.Name
		builder.Link(&links[i].Href, "style", "style", style.Name)
	}
	if builder.Error != nil {
		return nil, builder.Error
	}
	return restdata.ListEnvelope("styles", "style", links), nil
}

// StylePost creates a style from an SLD body, named by the "name"
// query parameter.
func (api *restAPI) StylePost(ctx *context) (interface{}, error) {
	name := ctx.QueryParams.Get("name")
	if name == "" {
		return nil, catalog.ErrInvalidArgument{Argument: "name", Reason: "style name is required"}
	}
	body, err := ctx.sldBody()
	if err != nil {
		return nil, err
	}
	style, err := api.Catalog.CreateStyle(ctx.Workspace.Name, name, body, false)
	if err != nil {
		return nil, err
	}
	return api.created("style", "workspace", style.Workspace, "style", style.Name)
}

// StyleGet returns a style's metadata as JSON, or its SLD document
// if that is what the client accepts.
func (api *restAPI) StyleGet(ctx *context) (interface{}, error) {
	name := ctx.Var("style")
	if ctx.ResponseType == sld.ContentType {
		body, err := api.Catalog.StyleBody(ctx.Workspace.Name, name)
		if err != nil {
			return nil, err
		}
		return rawResponse{ContentType: sld.ContentType, Body: body}, nil
	}
	style, err := api.Catalog.Style(ctx.Workspace.Name, name)
	if err != nil {
		return nil, err
	}
	result := restdata.Style{
		Name:            style.Name,
		Workspace:       restdata.Link{Name: style.Workspace},
		Format:          style.Format,
		LanguageVersion: restdata.LanguageVersion{Version: "1.0.0"},
		Filename:        style.Filename,
	}
	return restdata.Envelope("style", result), nil
}

// StylePut replaces an existing style's SLD document.
func (api *restAPI) StylePut(ctx *context) (interface{}, error) {
	body, err := ctx.sldBody()
	if err != nil {
		return nil, err
	}
	return nil, api.Catalog.UpdateStyle(ctx.Workspace.Name, ctx.Var("style"), body)
}

// StyleDelete deletes a style.
func (api *restAPI) StyleDelete(ctx *context) (interface{}, error) {
	return nil, api.Catalog.DeleteStyle(ctx.Workspace.Name, ctx.Var("style"), ctx.BoolParam("purge", false))
}

// PopulateStyle adds style routes to a router.  r should be rooted
// at the root of the REST API.
func (api *restAPI) PopulateStyle(r *mux.Router) {
	r.Path("/workspaces/{workspace}/styles").Name("styles").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.StyleList,
		Post:    api.StylePost,
	})
	r.Path("/workspaces/{workspace}/styles/{style}").Name("style").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.StyleGet,
		Put:     api.StylePut,
		Delete:  api.StyleDelete,
	})
}
