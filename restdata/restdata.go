// Copyright 2015-2016 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restdata defines the GeoServer REST representations shared
// between the restserver and restclient packages.
//
// Responses
//
// Single resources are returned as JSON objects wrapped in an
// envelope keyed by the resource kind:
//
//     {"workspace": {"name": "topp", "isolated": false}}
//
// Lists use a double envelope, the outer key being the plural and the
// inner key the singular:
//
//     {"workspaces": {"workspace": [{"name": "topp", "href": "..."}]}}
//
// GeoServer encodes an empty list as an empty string rather than an
// empty object, and may encode a one-element list as a bare object;
// DecodeList accepts all of these:
//
//     {"workspaces": ""}
//
// Requests
//
// Resource creation bodies are XML, as accepted by GeoServer:
//
//     <coverageStore>
//       <name>dem</name>
//       <workspace><name>topp</name></workspace>
//       <type>GeoTIFF</type>
//       <enabled>true</enabled>
//       <url>file:/data/dem.tif</url>
//     </coverageStore>
//
// Raw uploads (raster files, zipped shapefiles, SLD documents) are
// sent as the request body with their own content type.
//
// Errors
//
// Failing requests return a non-2xx HTTP status and a plain-text
// message body.
package restdata

import (
	"encoding/xml"
)

// JSONMediaType is the MIME type of JSON representations.
const JSONMediaType = "application/json"

// XMLMediaType is the MIME type of XML request bodies.
const XMLMediaType = "application/xml"

// ZipMediaType is the MIME type of zipped shapefile uploads.
const ZipMediaType = "application/zip"

// Link is a named reference to another resource, as found in lists
// and in fields such as a store's workspace.
type Link struct {
	Name string `json:"name" xml:"name"`
	Href string `json:"href,omitempty" xml:"-"`
}

// Workspace is the representation of a workspace.
type Workspace struct {
	XMLName        xml.Name `json:"-" xml:"workspace"`
	Name           string   `json:"name" xml:"name"`
	Isolated       bool     `json:"isolated" xml:"isolated,omitempty"`
	DataStores     string   `json:"dataStores,omitempty" xml:"-"`
	CoverageStores string   `json:"coverageStores,omitempty" xml:"-"`
}

// Namespace is the representation of a workspace's namespace.
// Creating a namespace creates the workspace with the same name.
type Namespace struct {
	XMLName xml.Name `json:"-" xml:"namespace"`
	Prefix  string   `json:"prefix" xml:"prefix"`
	URI     string   `json:"uri" xml:"uri"`
}

// Entry is one key/value pair of a data store's connection
// parameters.
type Entry struct {
	Key   string `json:"@key" xml:"key,attr"`
	Value string `json:"$" xml:",chardata"`
}

// ConnectionParameters holds a data store's connection parameters.
type ConnectionParameters struct {
	Entry []Entry `json:"entry,omitempty" xml:"entry"`
}

// Get returns the value of the entry with key, or "" if there is no
// such entry.
func (p ConnectionParameters) Get(key string) string {
	for _, entry := range p.Entry {
		if entry.Key == key {
			return entry.Value
		}
	}
	return ""
}

// DataStore is the representation of a vector data store.
type DataStore struct {
	XMLName              xml.Name             `json:"-" xml:"dataStore"`
	Name                 string               `json:"name" xml:"name"`
	Type                 string               `json:"type,omitempty" xml:"type,omitempty"`
	Enabled              bool                 `json:"enabled" xml:"enabled"`
	Workspace            Link                 `json:"workspace" xml:"workspace"`
	ConnectionParameters ConnectionParameters `json:"connectionParameters" xml:"connectionParameters"`
	FeatureTypes         string               `json:"featureTypes,omitempty" xml:"-"`
}

// CoverageStore is the representation of a raster coverage store.
type CoverageStore struct {
	XMLName   xml.Name `json:"-" xml:"coverageStore"`
	Name      string   `json:"name" xml:"name"`
	Type      string   `json:"type" xml:"type"`
	Enabled   bool     `json:"enabled" xml:"enabled"`
	Workspace Link     `json:"workspace" xml:"workspace"`
	URL       string   `json:"url" xml:"url"`
	Coverages string   `json:"coverages,omitempty" xml:"-"`
}

// Coverage is the representation of a raster resource.  Store is a
// qualified "workspace:store" name.
type Coverage struct {
	XMLName    xml.Name `json:"-" xml:"coverage"`
	Name       string   `json:"name" xml:"name"`
	NativeName string   `json:"nativeName" xml:"nativeName"`
	Namespace  Link     `json:"namespace" xml:"-"`
	Store      Link     `json:"store" xml:"-"`
	Enabled    bool     `json:"enabled" xml:"-"`
}

// FeatureType is the representation of a vector resource.  Store
// is a qualified "workspace:store" name.
type FeatureType struct {
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
	Namespace  Link   `json:"namespace"`
	Store      Link   `json:"store"`
	Enabled    bool   `json:"enabled"`
}

// LayerResource points from a layer to the feature type or coverage
// it publishes.  Class is "featureType" or "coverage".
type LayerResource struct {
	Class string `json:"@class"`
	Name  string `json:"name"`
	Href  string `json:"href"`
}

// Layer is the representation of a published layer.
type Layer struct {
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	DefaultStyle Link          `json:"defaultStyle"`
	Resource     LayerResource `json:"resource"`
}

// LanguageVersion is the version of a style's language.
type LanguageVersion struct {
	Version string `json:"version"`
}

// Style is the representation of a style's metadata.
type Style struct {
	Name            string          `json:"name"`
	Workspace       Link            `json:"workspace"`
	Format          string          `json:"format"`
	LanguageVersion LanguageVersion `json:"languageVersion"`
	Filename        string          `json:"filename"`
}
