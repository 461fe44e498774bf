// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"net/http"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/restdata"
	"github.com/diffeo/go-geoserver/sld"
)

func styleVars(ws, name string) map[string]interface{} {
	return map[string]interface{}{"workspace": ws, "style": name}
}

func (c *Client) Style(ws, name string) (*catalog.Style, error) {
	resp, err := c.get("workspaces/{workspace}/styles/{style}", styleVars(ws, name))
	if err == nil {
		err = resp.check(http.StatusOK, "Failed to get style", statusErrors{
			http.StatusNotFound: catalog.ErrNoSuchStyle{Workspace: ws, Name: name},
		})
	}
	var repr restdata.Style
	if err == nil {
		err = resp.Decode("style", &repr)
	}
	if err != nil {
		return nil, err
	}
	return &catalog.Style{
		Name:      repr.Name,
		Workspace: ws,
		Format:    repr.Format,
		Filename:  repr.Filename,
	}, nil
}

func (c *Client) StyleBody(ws, name string) ([]byte, error) {
	u, err := c.Template("workspaces/{workspace}/styles/{style}", styleVars(ws, name))
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(http.MethodGet, u, nil, sld.ContentType)
	if err == nil {
		err = resp.check(http.StatusOK, "Failed to get style body", statusErrors{
			http.StatusNotFound: catalog.ErrNoSuchStyle{Workspace: ws, Name: name},
		})
	}
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Styles lists the styles in a workspace, fetching each one.
func (c *Client) Styles(ws string) ([]catalog.Style, error) {
	resp, err := c.get("workspaces/{workspace}/styles", map[string]interface{}{"workspace": ws})
	if err == nil {
		err = resp.check(http.StatusOK, "Failed to list styles", statusErrors{
			http.StatusNotFound: catalog.ErrNoSuchWorkspace{Name: ws},
		})
	}
	var links []restdata.Link
	if err == nil {
		links, err = resp.List("styles", "style")
	}
	if err != nil {
		return nil, err
	}
	result := make([]catalog.Style, 0, len(links))
	for _, link := range links {
		style, err := c.Style(ws, link.Name)
		if err != nil {
			return nil, err
		}
		result = append(result, *style)
	}
	return result, nil
}

// CreateStyle creates a style, or with overwrite replaces the body of
// an existing one.
func (c *Client) CreateStyle(ws, name string, body []byte, overwrite bool) (*catalog.Style, error) {
	_, err := c.Style(ws, name)
	switch {
	case err == nil && !overwrite:
		return nil, catalog.ErrConflictingData{Kind: "style", Name: name, Workspace: ws}
	case err == nil:
		err = c.UpdateStyle(ws, name, body)
	case catalog.IsNotFound(err):
		var resp *response
		resp, err = c.send(http.MethodPost, "workspaces/{workspace}/styles{?name}", map[string]interface{}{
			"workspace": ws,
			"name":      name,
		}, &payload{ContentType: sld.ContentType, Data: body})
		if err == nil {
			err = resp.check(http.StatusCreated, "Failed to create style "+name, statusErrors{
				http.StatusNotFound: catalog.ErrNoSuchWorkspace{Name: ws},
				http.StatusConflict: catalog.ErrConflictingData{Kind: "style", Name: name, Workspace: ws},
			})
		}
	}
	if err != nil {
		return nil, err
	}
	return c.Style(ws, name)
}

func (c *Client) UpdateStyle(ws, name string, body []byte) error {
	resp, err := c.send(http.MethodPut, "workspaces/{workspace}/styles/{style}", styleVars(ws, name),
		&payload{ContentType: sld.ContentType, Data: body})
	if err != nil {
		return err
	}
	return resp.check(0, "Failed to update style "+name, statusErrors{
		http.StatusNotFound: catalog.ErrNoSuchStyle{Workspace: ws, Name: name},
	})
}

func (c *Client) DeleteStyle(ws, name string, purge bool) error {
	vars := styleVars(ws, name)
	vars["purge"] = boolParam(purge)
	resp, err := c.send(http.MethodDelete, "workspaces/{workspace}/styles/{style}{?purge}", vars, nil)
	if err != nil {
		return err
	}
	return resp.check(0, "Failed to delete style", statusErrors{
		http.StatusNotFound: catalog.ErrNoSuchStyle{Workspace: ws, Name: name},
	})
}
