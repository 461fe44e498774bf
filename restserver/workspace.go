// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/restdata"
	"github.com/gorilla/mux"
)

func (api *restAPI) fillWorkspace(ws catalog.Workspace) (result restdata.Workspace, err error) {
	result.Name = ws.Name
	err = buildURLs(api.Router, "workspace", ws.Name).
		URL(&result.DataStores, "dataStores").
		URL(&result.CoverageStores, "coverageStores").
		Error
	return
}

// WorkspaceList gets a list of all workspaces.
func (api *restAPI) WorkspaceList(ctx *context) (interface{}, error) {
	workspaces, err := api.Catalog.Workspaces()
	if err != nil {
		return nil, err
	}
	links := make([]restdata.Link, len(workspaces))
	builder := buildURLs(api.Router)
	for i, ws := range workspaces {
		links[i].Name = ws.Name
		builder.Link(&links[i].Href, "workspace", "workspace", ws.Name)
	}
	if builder.Error != nil {
		return nil, builder.Error
	}
	return restdata.ListEnvelope("workspaces", "workspace", links), nil
}

// WorkspacePost creates a workspace with a default namespace URI.
func (api *restAPI) WorkspacePost(ctx *context) (interface{}, error) {
	var in restdata.Workspace
	if err := ctx.Decode("workspace", &in); err != nil {
		return nil, err
	}
	return api.createWorkspace(in.Name, "http://"+in.Name)
}

// NamespacePost creates a workspace with an explicit namespace URI.
func (api *restAPI) NamespacePost(ctx *context) (interface{}, error) {
	var in restdata.Namespace
	if err := ctx.Decode("namespace", &in); err != nil {
		return nil, err
	}
	return api.createWorkspace(in.Prefix, in.URI)
}

func (api *restAPI) createWorkspace(name, uri string) (interface{}, error) {
	ws, err := api.Catalog.CreateWorkspace(name, uri)
	if err != nil {
		return nil, err
	}
	var location string
	err = buildURLs(api.Router, "workspace", ws.Name).URL(&location, "workspace").Error
	if err != nil {
		return nil, err
	}
	return responseCreated{Location: location}, nil
}

// WorkspaceGet returns the workspace named in the URL.
func (api *restAPI) WorkspaceGet(ctx *context) (interface{}, error) {
	result, err := api.fillWorkspace(*ctx.Workspace)
	if err != nil {
		return nil, err
	}
	return restdata.Envelope("workspace", result), nil
}

// NamespaceGet returns the namespace of the workspace named in the
// URL.
func (api *restAPI) NamespaceGet(ctx *context) (interface{}, error) {
	return restdata.Envelope("namespace", restdata.Namespace{
		Prefix: ctx.Workspace.Name,
		URI:    ctx.Workspace.NamespaceURI,
	}), nil
}

// WorkspaceDelete deletes the workspace named in the URL.
func (api *restAPI) WorkspaceDelete(ctx *context) (interface{}, error) {
	return nil, api.Catalog.DeleteWorkspace(ctx.Workspace.Name, ctx.BoolParam("recurse", false))
}

// PopulateWorkspace adds workspace-specific routes to a router.
// r should be rooted at the root of the REST API.
func (api *restAPI) PopulateWorkspace(r *mux.Router) {
	r.Path("/workspaces").Name("workspaces").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.WorkspaceList,
		Post:    api.WorkspacePost,
	})
	r.Path("/workspaces/{workspace}").Name("workspace").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.WorkspaceGet,
		Delete:  api.WorkspaceDelete,
	})
	r.Path("/namespaces").Name("namespaces").Handler(&resourceHandler{
		Context: api.Context,
		Post:    api.NamespacePost,
	})
	r.Path("/namespaces/{workspace}").Name("namespace").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.NamespaceGet,
	})
}
