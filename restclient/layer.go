// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"net/http"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/restdata"
)

func (c *Client) Layer(ws, name string) (*catalog.Layer, error) {
	resp, err := c.get("workspaces/{workspace}/layers/{layer}", map[string]interface{}{
		"workspace": ws,
		"layer":     name,
	})
	if err == nil {
		err = resp.check(http.StatusOK, "Failed to get layer", statusErrors{
			http.StatusNotFound: catalog.ErrNoSuchLayer{Workspace: ws, Name: name},
		})
	}
	var repr restdata.Layer
	if err == nil {
		err = resp.Decode("layer", &repr)
	}
	if err != nil {
		return nil, err
	}
	store, _ := restdata.StoreFromHref(repr.Resource.Href)
	return &catalog.Layer{
		Name:         repr.Name,
		Workspace:    ws,
		Type:         catalog.LayerType(repr.Type),
		Store:        store,
		DefaultStyle: repr.DefaultStyle.Name,
	}, nil
}

// Layers lists the layers in a workspace, fetching each one.
func (c *Client) Layers(ws string) ([]catalog.Layer, error) {
	resp, err := c.get("workspaces/{workspace}/layers", map[string]interface{}{"workspace": ws})
	if err == nil {
		err = resp.check(http.StatusOK, "Failed to list layers", statusErrors{
			http.StatusNotFound: catalog.ErrNoSuchWorkspace{Name: ws},
		})
	}
	var links []restdata.Link
	if err == nil {
		links, err = resp.List("layers", "layer")
	}
	if err != nil {
		return nil, err
	}
	result := make([]catalog.Layer, 0, len(links))
	for _, link := range links {
		layer, err := c.Layer(ws, link.Name)
		if err != nil {
			return nil, err
		}
		result = append(result, *layer)
	}
	return result, nil
}

func (c *Client) DeleteLayer(ws, name string, recurse bool) error {
	resp, err := c.send(http.MethodDelete, "workspaces/{workspace}/layers/{layer}{?recurse}", map[string]interface{}{
		"workspace": ws,
		"layer":     name,
		"recurse":   boolParam(recurse),
	}, nil)
	if err != nil {
		return err
	}
	return resp.check(0, "Failed to delete layer", statusErrors{
		http.StatusNotFound: catalog.ErrNoSuchLayer{Workspace: ws, Name: name},
	})
}
