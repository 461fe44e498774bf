// Copyright 2015 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"net/url"
	"strings"
)

// StoreFromHref extracts the store name from the href of a feature
// type or coverage, such as
//
//     http://host/geoserver/rest/workspaces/ws/coveragestores/dem/coverages/dem.json
//
// Layer representations do not name their store directly, only the
// resource behind them.  Returns false if href does not pass through
// a data store or coverage store.
func StoreFromHref(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if (part == "datastores" || part == "coveragestores") && i+1 < len(parts) {
			return strings.TrimSuffix(parts[i+1], ".json"), true
		}
	}
	return "", false
}

// QualifiedName joins a workspace and a resource name as
// "workspace:name".
func QualifiedName(workspace, name string) string {
	return workspace + ":" + name
}

// SplitQualifiedName splits "workspace:name" into its parts.  A
// name without a workspace prefix returns an empty workspace.
func SplitQualifiedName(qualified string) (workspace, name string) {
	if i := strings.Index(qualified, ":"); i >= 0 {
		return qualified[:i], qualified[i+1:]
	}
	return "", qualified
}
