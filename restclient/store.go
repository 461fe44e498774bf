// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"io"
	"io/ioutil"
	"net/http"
	"sort"
	"strings"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/restdata"
	"github.com/diffeo/go-geoserver/shapefile"
)

// defaultRasterContentType is sent with raster uploads that do not
// name their own content type.
const defaultRasterContentType = "image/tiff"

func (c *Client) dataStore(ws, name string) (*catalog.Store, error) {
	resp, err := c.get("workspaces/{workspace}/datastores/{store}", map[string]interface{}{
		"workspace": ws,
		"store":     name,
	})
	if err == nil {
		err = resp.check(http.StatusOK, "Failed to get data store", statusErrors{
			http.StatusNotFound: catalog.ErrNoSuchStore{Workspace: ws, Name: name},
		})
	}
	var repr restdata.DataStore
	if err == nil {
		err = resp.Decode("dataStore", &repr)
	}
	if err != nil {
		return nil, err
	}
	return &catalog.Store{
		Name:      repr.Name,
		Workspace: ws,
		Kind:      catalog.DataStore,
		Type:      repr.Type,
		URL:       repr.ConnectionParameters.Get("url"),
		Enabled:   repr.Enabled,
	}, nil
}

func (c *Client) coverageStore(ws, name string) (*catalog.Store, error) {
	resp, err := c.get("workspaces/{workspace}/coveragestores/{store}", map[string]interface{}{
		"workspace": ws,
		"store":     name,
	})
	if err == nil {
		err = resp.check(http.StatusOK, "Failed to get coverage store", statusErrors{
			http.StatusNotFound: catalog.ErrNoSuchStore{Workspace: ws, Name: name},
		})
	}
	var repr restdata.CoverageStore
	if err == nil {
		err = resp.Decode("coverageStore", &repr)
	}
	if err != nil {
		return nil, err
	}
	return &catalog.Store{
		Name:      repr.Name,
		Workspace: ws,
		Kind:      catalog.CoverageStore,
		Type:      repr.Type,
		URL:       repr.URL,
		Enabled:   repr.Enabled,
	}, nil
}

// Store finds a store of either kind, looking first for a data
// store and then for a coverage store.
func (c *Client) Store(ws, name string) (*catalog.Store, error) {
	store, err := c.dataStore(ws, name)
	if catalog.IsNotFound(err) {
		store, err = c.coverageStore(ws, name)
	}
	return store, err
}

// storeNames lists the names of one kind of store.
func (c *Client) storeNames(ws, collection, outer, inner string) ([]string, error) {
	resp, err := c.get("workspaces/{workspace}/{collection}", map[string]interface{}{
		"workspace":  ws,
		"collection": collection,
	})
	if err == nil {
		err = resp.check(http.StatusOK, "Failed to list stores", statusErrors{
			http.StatusNotFound: catalog.ErrNoSuchWorkspace{Name: ws},
		})
	}
	var links []restdata.Link
	if err == nil {
		links, err = resp.List(outer, inner)
	}
	names := make([]string, len(links))
	for i, link := range links {
		names[i] = link.Name
	}
	return names, err
}

// Stores lists the stores of both kinds in a workspace, fetching
// each one.
func (c *Client) Stores(ws string) ([]catalog.Store, error) {
	dataNames, err := c.storeNames(ws, "datastores", "dataStores", "dataStore")
	if err != nil {
		return nil, err
	}
	coverageNames, err := c.storeNames(ws, "coveragestores", "coverageStores", "coverageStore")
	if err != nil {
		return nil, err
	}
	result := make([]catalog.Store, 0, len(dataNames)+len(coverageNames))
	for _, name := range dataNames {
		store, err := c.dataStore(ws, name)
		if err != nil {
			return nil, err
		}
		result = append(result, *store)
	}
	for _, name := range coverageNames {
		store, err := c.coverageStore(ws, name)
		if err != nil {
			return nil, err
		}
		result = append(result, *store)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// DeleteStore deletes a store through the endpoint for its kind.
func (c *Client) DeleteStore(ws, name string, recurse bool) error {
	store, err := c.Store(ws, name)
	if err != nil {
		return err
	}
	collection := "datastores"
	if store.Kind == catalog.CoverageStore {
		collection = "coveragestores"
	}
	resp, err := c.send(http.MethodDelete, "workspaces/{workspace}/{collection}/{store}{?recurse}", map[string]interface{}{
		"workspace":  ws,
		"collection": collection,
		"store":      name,
		"recurse":    boolParam(recurse),
	}, nil)
	if err != nil {
		return err
	}
	return resp.check(0, "Failed to delete store", statusErrors{
		http.StatusNotFound:  catalog.ErrNoSuchStore{Workspace: ws, Name: name},
		http.StatusForbidden: catalog.ErrNotEmpty{Kind: "store", Name: name, Workspace: ws},
	})
}

// checkNoStore fails with ErrConflictingData if the store exists.
func (c *Client) checkNoStore(ws, name string) error {
	_, err := c.Store(ws, name)
	if err == nil {
		return catalog.ErrConflictingData{Kind: "store", Name: name, Workspace: ws}
	}
	if catalog.IsNotFound(err) {
		return nil
	}
	return err
}

// CreateFeatureStore uploads a zipped shapefile as the data store
// name.  The archive entries are renamed to match the store, since
// GeoServer names the feature type after the files.
func (c *Client) CreateFeatureStore(ws, name string, bundle *shapefile.Bundle, charset string, overwrite bool) (*catalog.Store, error) {
	if bundle == nil {
		return nil, catalog.ErrInvalidArgument{Argument: "bundle", Reason: "no shapefile given"}
	}
	if !overwrite {
		if err := c.checkNoStore(ws, name); err != nil {
			return nil, err
		}
	}
	renamed := *bundle
	renamed.Name = name
	data, err := renamed.Zip()
	if err != nil {
		return nil, err
	}
	resp, err := c.send(http.MethodPut, "workspaces/{workspace}/datastores/{store}/file.shp{?charset}", map[string]interface{}{
		"workspace": ws,
		"store":     name,
		"charset":   charset,
	}, &payload{ContentType: restdata.ZipMediaType, Data: data})
	if err == nil {
		err = resp.check(http.StatusCreated, "Failed to create feature store "+name, statusErrors{
			http.StatusNotFound: catalog.ErrNoSuchWorkspace{Name: ws},
			http.StatusConflict: catalog.ErrConflictingData{Kind: "store", Name: name, Workspace: ws},
		})
	}
	if err != nil {
		return nil, err
	}
	return c.dataStore(ws, name)
}

// CreateCoverageStore creates a raster store from a local path.  See
// catalog.CoverageStoreOptions for the two modes.
func (c *Client) CreateCoverageStore(ws, name, path string, opts catalog.CoverageStoreOptions) (*catalog.Store, *catalog.Coverage, error) {
	if err := opts.Validate(path); err != nil {
		return nil, nil, err
	}
	existing, err := c.Store(ws, name)
	if err != nil && !catalog.IsNotFound(err) {
		return nil, nil, err
	}
	if existing != nil && !opts.Overwrite {
		return nil, nil, catalog.ErrConflictingData{Kind: "store", Name: name, Workspace: ws}
	}

	if opts.UploadData {
		contentType := opts.ContentType
		if contentType == "" {
			contentType = defaultRasterContentType
		}
		store, err := c.uploadCoverageStore(ws, name, opts.Type, name,
			&payload{ContentType: contentType, Path: strings.TrimPrefix(path, "file:")})
		return store, nil, err
	}

	in, err := xmlPayload(restdata.CoverageStore{
		Name:      name,
		Type:      string(opts.Type),
		Enabled:   true,
		Workspace: restdata.Link{Name: ws},
		URL:       catalog.FileURL(path),
	})
	if err != nil {
		return nil, nil, err
	}
	vars := map[string]interface{}{"workspace": ws, "store": name}
	var resp *response
	if existing != nil && existing.Kind == catalog.CoverageStore {
		resp, err = c.send(http.MethodPut, "workspaces/{workspace}/coveragestores/{store}", vars, in)
		if err == nil {
			err = resp.check(0, "Failed to update coverage store "+name, nil)
		}
	} else {
		resp, err = c.send(http.MethodPost, "workspaces/{workspace}/coveragestores", vars, in)
		if err == nil {
			err = resp.check(http.StatusCreated, "Failed to create coverage store "+name, statusErrors{
				http.StatusNotFound: catalog.ErrNoSuchWorkspace{Name: ws},
				http.StatusConflict: catalog.ErrConflictingData{Kind: "store", Name: name, Workspace: ws},
			})
		}
	}
	if err != nil {
		return nil, nil, err
	}

	var coverage *catalog.Coverage
	if opts.CreateLayer {
		layerName, sourceName := opts.Names(path)
		coverage, err = c.CreateCoverage(ws, name, layerName, sourceName)
		if _, conflict := err.(catalog.ErrConflictingData); conflict && opts.Overwrite {
			// Replacing a store keeps its coverages
			if same, err2 := c.Coverage(ws, name, layerName); err2 == nil {
				coverage, err = same, nil
			}
		}
		if err != nil {
			return nil, nil, err
		}
	}
	store, err := c.coverageStore(ws, name)
	if err != nil {
		return nil, nil, err
	}
	return store, coverage, nil
}

// UploadCoverageStore creates a raster store from the data read from
// r.  The data is read entirely into memory so that it can be resent
// if the request is retried.
func (c *Client) UploadCoverageStore(ws, name string, storeType catalog.CoverageStoreType, contentType string, r io.Reader, coverageName string) (*catalog.Store, error) {
	if !storeType.Valid() {
		return nil, catalog.ErrInvalidArgument{Argument: "type", Reason: "unknown coverage store type " + string(storeType)}
	}
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = defaultRasterContentType
	}
	return c.uploadCoverageStore(ws, name, storeType, coverageName, &payload{ContentType: contentType, Data: data})
}

func (c *Client) uploadCoverageStore(ws, name string, storeType catalog.CoverageStoreType, coverageName string, in *payload) (*catalog.Store, error) {
	vars := map[string]interface{}{
		"workspace": ws,
		"store":     name,
		"ext":       storeType.FileExtension(),
		"configure": "first",
	}
	if coverageName != "" {
		vars["coverageName"] = coverageName
	}
	resp, err := c.send(http.MethodPut, "workspaces/{workspace}/coveragestores/{store}/file.{ext}{?configure,coverageName}", vars, in)
	if err == nil {
		err = resp.check(http.StatusCreated, "Failed to upload coverage store "+name, statusErrors{
			http.StatusNotFound: catalog.ErrNoSuchWorkspace{Name: ws},
			http.StatusConflict: catalog.ErrConflictingData{Kind: "store", Name: name, Workspace: ws},
		})
	}
	if err != nil {
		return nil, err
	}
	return c.coverageStore(ws, name)
}

func (c *Client) Coverage(ws, store, name string) (*catalog.Coverage, error) {
	resp, err := c.get("workspaces/{workspace}/coveragestores/{store}/coverages/{coverage}", map[string]interface{}{
		"workspace": ws,
		"store":     store,
		"coverage":  name,
	})
	if err == nil {
		err = resp.check(http.StatusOK, "Failed to get coverage", statusErrors{
			http.StatusNotFound: catalog.ErrNoSuchCoverage{Workspace: ws, Store: store, Name: name},
		})
	}
	var repr restdata.Coverage
	if err == nil {
		err = resp.Decode("coverage", &repr)
	}
	if err != nil {
		return nil, err
	}
	return &catalog.Coverage{
		Name:       repr.Name,
		NativeName: repr.NativeName,
		Workspace:  ws,
		Store:      store,
	}, nil
}

// CreateCoverage publishes a coverage, and so a raster layer, from
// an existing coverage store.
func (c *Client) CreateCoverage(ws, store, name, nativeName string) (*catalog.Coverage, error) {
	in, err := xmlPayload(restdata.Coverage{Name: name, NativeName: nativeName})
	if err != nil {
		return nil, err
	}
	resp, err := c.send(http.MethodPost, "workspaces/{workspace}/coveragestores/{store}/coverages", map[string]interface{}{
		"workspace": ws,
		"store":     store,
	}, in)
	if err == nil {
		err = resp.check(http.StatusCreated, "Failed to create coverage/layer "+name+" for "+store, statusErrors{
			http.StatusNotFound: catalog.ErrNoSuchStore{Workspace: ws, Name: store},
			http.StatusConflict: catalog.ErrConflictingData{Kind: "coverage", Name: name, Workspace: ws},
		})
	}
	if err != nil {
		return nil, err
	}
	return c.Coverage(ws, store, name)
}
