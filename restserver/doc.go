// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restserver publishes a catalog.Catalog as a REST service
// shaped like GeoServer's REST configuration API.  The restclient
// package is a matching client, and also talks to a real GeoServer.
//
// The representations are defined in the restdata package.
//
// HTTP Considerations
//
// HTTP GET requests return JSON.  A GET of a style returns its SLD
// document instead if the Accept: header asks for
// application/vnd.ogc.sld+xml.  Request bodies are XML or JSON for
// resource descriptions, application/zip for shapefile uploads, the
// raster file itself for coverage store uploads, and SLD for styles.
//
// Errors are returned as plain text with an appropriate HTTP status:
// 404 for absent resources, 409 for name conflicts, 403 for deleting
// a non-empty container without recurse=true, and 400 for invalid
// arguments.
//
// This interface does not support HTTP caching or authentication
// headers.  Place it behind middleware if that matters.
//
// URL Scheme
//
// The following URLs are defined:
//
//     /workspaces
//     /workspaces/{workspace}
//     /namespaces
//     /namespaces/{workspace}
//     /workspaces/{workspace}/datastores
//     /workspaces/{workspace}/datastores/{store}
//     /workspaces/{workspace}/datastores/{store}/file.shp
//     /workspaces/{workspace}/datastores/{store}/featuretypes
//     /workspaces/{workspace}/datastores/{store}/featuretypes/{featuretype}
//     /workspaces/{workspace}/coveragestores
//     /workspaces/{workspace}/coveragestores/{store}
//     /workspaces/{workspace}/coveragestores/{store}/file.{format}
//     /workspaces/{workspace}/coveragestores/{store}/coverages
//     /workspaces/{workspace}/coveragestores/{store}/coverages/{coverage}
//     /workspaces/{workspace}/layers
//     /workspaces/{workspace}/layers/{layer}
//     /workspaces/{workspace}/styles
//     /workspaces/{workspace}/styles/{style}
package restserver
