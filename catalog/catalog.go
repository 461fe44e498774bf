// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package catalog defines an abstract API to a GeoServer-style map
// catalog.
//
// A catalog holds workspaces.  Each workspace holds stores (vector
// data stores and raster coverage stores), layers published from
// those stores, and styles that control how layers render.  Names
// are unique per workspace and resource kind.
//
// In most cases, applications will know of specific implementations
// of this API, such as the REST client in the restclient package or
// the in-memory implementation in the memory package, and will get a
// Catalog from that implementation.
//
// Objects returned here are snapshots.  They do not track the remote
// resource, and holding one does not guarantee the resource still
// exists; re-fetch by name when in doubt.  Nothing in this API is
// transactional: checking for a resource and then creating it can
// race with another client doing the same.
package catalog

import (
	"io"

	"github.com/diffeo/go-geoserver/shapefile"
)

// Catalog is the principal interface to a map catalog.
type Catalog interface {
	// Workspace retrieves a workspace by name.  If no such
	// workspace exists, returns ErrNoSuchWorkspace.
	Workspace(name string) (*Workspace, error)

	// Workspaces lists all of the workspaces in the catalog.
	Workspaces() ([]Workspace, error)

	// CreateWorkspace creates a new workspace with an associated
	// namespace URI.  Returns ErrConflictingData if the workspace
	// already exists.
	CreateWorkspace(name, namespaceURI string) (*Workspace, error)

	// DeleteWorkspace deletes a workspace.  If recurse is true,
	// everything in the workspace is deleted along with it;
	// otherwise deleting a non-empty workspace fails.
	DeleteWorkspace(name string, recurse bool) error

	// Store retrieves a data or coverage store by name.  If no
	// such store exists in the workspace, returns ErrNoSuchStore.
	Store(workspace, name string) (*Store, error)

	// Stores lists all of the data and coverage stores in a
	// workspace.
	Stores(workspace string) ([]Store, error)

	// DeleteStore deletes a store.  If recurse is true, layers
	// published from the store are deleted too.
	DeleteStore(workspace, name string, recurse bool) error

	// CreateFeatureStore creates a vector data store from a
	// shapefile bundle, publishing one layer with the store's
	// name.  charset names the character encoding of the
	// attribute table.  Unless overwrite is set, fails with
	// ErrConflictingData if the store already exists.
	CreateFeatureStore(workspace, name string, bundle *shapefile.Bundle, charset string, overwrite bool) (*Store, error)

	// CreateCoverageStore creates a raster coverage store from
	// a local file or directory path.  See CoverageStoreOptions
	// for the available modes.  If opts.CreateLayer is set in
	// reference mode, the returned Coverage is the newly
	// published coverage; otherwise it is nil.
	CreateCoverageStore(workspace, name, path string, opts CoverageStoreOptions) (*Store, *Coverage, error)

	// UploadCoverageStore creates a coverage store from raster
	// data sent directly to the catalog, configuring the first
	// coverage found in it under coverageName.
	UploadCoverageStore(workspace, name string, storeType CoverageStoreType, contentType string, data io.Reader, coverageName string) (*Store, error)

	// Coverage retrieves a coverage published from a store.
	// Returns ErrNoSuchCoverage if absent.
	Coverage(workspace, store, name string) (*Coverage, error)

	// CreateCoverage publishes a coverage (and its layer) from
	// an existing coverage store.  nativeName names the source
	// raster within the store.
	CreateCoverage(workspace, store, name, nativeName string) (*Coverage, error)

	// Layer retrieves a published layer.  Returns ErrNoSuchLayer
	// if absent.
	Layer(workspace, name string) (*Layer, error)

	// Layers lists the layers in a workspace.
	Layers(workspace string) ([]Layer, error)

	// DeleteLayer deletes a layer.  If recurse is true, the
	// resource behind the layer is deleted too.
	DeleteLayer(workspace, name string, recurse bool) error

	// Style retrieves a workspace style's metadata.  Returns
	// ErrNoSuchStyle if absent.
	Style(workspace, name string) (*Style, error)

	// StyleBody retrieves the SLD document of a style.
	StyleBody(workspace, name string) ([]byte, error)

	// Styles lists the styles in a workspace.
	Styles(workspace string) ([]Style, error)

	// CreateStyle creates a style from an SLD document.  If the
	// style exists and overwrite is set, its body is replaced;
	// if overwrite is not set, fails with ErrConflictingData.
	CreateStyle(workspace, name string, body []byte, overwrite bool) (*Style, error)

	// UpdateStyle replaces the SLD document of an existing
	// style.  Returns ErrNoSuchStyle if absent.
	UpdateStyle(workspace, name string, body []byte) error

	// DeleteStyle deletes a style.  If purge is set, the
	// underlying style file is removed as well.
	DeleteStyle(workspace, name string, purge bool) error
}

// Workspace is a namespacing container for stores, layers, and
// styles.
type Workspace struct {
	// Name is the unique name of the workspace.
	Name string

	// NamespaceURI is the URI of the XML namespace paired with
	// the workspace.  It may be empty if the implementation does
	// not report it.
	NamespaceURI string
}

// StoreKind distinguishes vector data stores from raster coverage
// stores.
type StoreKind string

const (
	// DataStore is a vector data store.
	DataStore StoreKind = "dataStore"

	// CoverageStore is a raster coverage store.
	CoverageStore StoreKind = "coverageStore"
)

// Store is a registered data source within a workspace.
type Store struct {
	Name      string
	Workspace string
	Kind      StoreKind

	// Type is the driver type, such as "Shapefile" or "GeoTIFF".
	Type string

	// URL is the source location for coverage stores, generally
	// a "file:" URL.  It is empty for data stores.
	URL string

	Enabled bool
}

// Coverage is a raster resource published from a coverage store.
type Coverage struct {
	Name       string
	NativeName string
	Workspace  string
	Store      string
}

// LayerType is the kind of data behind a layer.
type LayerType string

const (
	// VectorLayer is a layer published from a data store.
	VectorLayer LayerType = "VECTOR"

	// RasterLayer is a layer published from a coverage store.
	RasterLayer LayerType = "RASTER"
)

// Layer is a published, renderable resource.
type Layer struct {
	Name      string
	Workspace string
	Type      LayerType

	// Store names the store backing the layer.
	Store string

	// DefaultStyle names the style used when a request does not
	// ask for one.
	DefaultStyle string
}

// Style is a symbology definition.  The SLD document itself is
// retrieved separately with Catalog.StyleBody.
type Style struct {
	Name      string
	Workspace string

	// Format is the style language, generally "sld".
	Format string

	// Filename is the file the catalog stores the body in.
	Filename string
}
