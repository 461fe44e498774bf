// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"net/http"
	"sort"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/restdata"
)

func (c *Client) Workspace(name string) (*catalog.Workspace, error) {
	vars := map[string]interface{}{"workspace": name}
	notFound := statusErrors{http.StatusNotFound: catalog.ErrNoSuchWorkspace{Name: name}}

	resp, err := c.get("workspaces/{workspace}", vars)
	if err == nil {
		err = resp.check(http.StatusOK, "Failed to get workspace", notFound)
	}
	var ws restdata.Workspace
	if err == nil {
		err = resp.Decode("workspace", &ws)
	}
	if err != nil {
		return nil, err
	}

	resp, err = c.get("namespaces/{workspace}", vars)
	if err == nil {
		err = resp.check(http.StatusOK, "Failed to get namespace", notFound)
	}
	var ns restdata.Namespace
	if err == nil {
		err = resp.Decode("namespace", &ns)
	}
	if err != nil {
		return nil, err
	}
	return &catalog.Workspace{Name: ws.Name, NamespaceURI: ns.URI}, nil
}

// Workspaces lists all workspaces.  The list response only carries
// names, so NamespaceURI is not filled in.
func (c *Client) Workspaces() ([]catalog.Workspace, error) {
	resp, err := c.get("workspaces", nil)
	if err == nil {
		err = resp.check(http.StatusOK, "Failed to list workspaces", nil)
	}
	var links []restdata.Link
	if err == nil {
		links, err = resp.List("workspaces", "workspace")
	}
	if err != nil {
		return nil, err
	}
	result := make([]catalog.Workspace, len(links))
	for i, link := range links {
		result[i].Name = link.Name
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// CreateWorkspace creates a workspace by creating its namespace,
// which lets the caller choose the namespace URI.
func (c *Client) CreateWorkspace(name, namespaceURI string) (*catalog.Workspace, error) {
	in, err := xmlPayload(restdata.Namespace{Prefix: name, URI: namespaceURI})
	if err != nil {
		return nil, err
	}
	resp, err := c.send(http.MethodPost, "namespaces", nil, in)
	if err == nil {
		err = resp.check(http.StatusCreated, "Failed to create workspace", statusErrors{
			http.StatusConflict: catalog.ErrConflictingData{Kind: "workspace", Name: name},
		})
	}
	if err != nil {
		return nil, err
	}
	return &catalog.Workspace{Name: name, NamespaceURI: namespaceURI}, nil
}

func (c *Client) DeleteWorkspace(name string, recurse bool) error {
	resp, err := c.send(http.MethodDelete, "workspaces/{workspace}{?recurse}", map[string]interface{}{
		"workspace": name,
		"recurse":   boolParam(recurse),
	}, nil)
	if err != nil {
		return err
	}
	return resp.check(0, "Failed to delete workspace", statusErrors{
		http.StatusNotFound:  catalog.ErrNoSuchWorkspace{Name: name},
		http.StatusForbidden: catalog.ErrNotEmpty{Kind: "workspace", Name: name},
	})
}
