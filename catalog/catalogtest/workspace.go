// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package catalogtest

import (
	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/sld"
)

// TestWorkspaceLifecycle creates, finds, lists, and deletes a
// workspace.
func (s *Suite) TestWorkspaceLifecycle() {
	name := "lifecycle"

	_, err := s.Catalog.Workspace(name)
	s.Equal(catalog.ErrNoSuchWorkspace{Name: name}, err)

	ws, err := s.Catalog.CreateWorkspace(name, "http://lifecycle.com")
	if s.NoError(err) {
		s.Equal(name, ws.Name)
		s.Equal("http://lifecycle.com", ws.NamespaceURI)
	}

	ws, err = s.Catalog.Workspace(name)
	if s.NoError(err) {
		s.Equal(name, ws.Name)
		s.Equal("http://lifecycle.com", ws.NamespaceURI)
	}

	all, err := s.Catalog.Workspaces()
	if s.NoError(err) {
		var names []string
		for _, ws := range all {
			names = append(names, ws.Name)
		}
		s.Contains(names, name)
	}

	_, err = s.Catalog.CreateWorkspace(name, "http://lifecycle.com")
	s.IsType(catalog.ErrConflictingData{}, err)

	s.NoError(s.Catalog.DeleteWorkspace(name, true))

	_, err = s.Catalog.Workspace(name)
	s.Equal(catalog.ErrNoSuchWorkspace{Name: name}, err)

	err = s.Catalog.DeleteWorkspace(name, true)
	s.True(catalog.IsNotFound(err), "%+v", err)
}

// TestDeleteWorkspaceNotEmpty checks that a non-recursive delete
// leaves a populated workspace alone, and a recursive one removes
// everything.
func (s *Suite) TestDeleteWorkspaceNotEmpty() {
	name := "notempty"
	s.Workspace(name)

	_, err := s.Catalog.CreateStyle(name, "dots", s.StyleBody(sld.Point, nil), false)
	s.Require().NoError(err)

	err = s.Catalog.DeleteWorkspace(name, false)
	s.IsType(catalog.ErrNotEmpty{}, err)
	_, err = s.Catalog.Workspace(name)
	s.NoError(err)

	s.NoError(s.Catalog.DeleteWorkspace(name, true))
	_, err = s.Catalog.Workspace(name)
	s.True(catalog.IsNotFound(err))

	// Recreating the workspace does not bring the style back
	s.Workspace(name)
	defer s.DropWorkspace(name)
	_, err = s.Catalog.Style(name, "dots")
	s.True(catalog.IsNotFound(err))
}

// TestEmptyWorkspace checks the listings of a new workspace.
func (s *Suite) TestEmptyWorkspace() {
	name := "empty"
	s.Workspace(name)
	defer s.DropWorkspace(name)

	stores, err := s.Catalog.Stores(name)
	if s.NoError(err) {
		s.Empty(stores)
	}
	layers, err := s.Catalog.Layers(name)
	if s.NoError(err) {
		s.Empty(layers)
	}
	styles, err := s.Catalog.Styles(name)
	if s.NoError(err) {
		s.Empty(styles)
	}
}

// TestMissingWorkspace checks that operations within an absent
// workspace report it as not found.
func (s *Suite) TestMissingWorkspace() {
	name := "missing"

	_, err := s.Catalog.Stores(name)
	s.True(catalog.IsNotFound(err), "%+v", err)
	_, err = s.Catalog.Layers(name)
	s.True(catalog.IsNotFound(err), "%+v", err)
	_, err = s.Catalog.Styles(name)
	s.True(catalog.IsNotFound(err), "%+v", err)
	_, err = s.Catalog.Store(name, "dem")
	s.True(catalog.IsNotFound(err), "%+v", err)
	_, err = s.Catalog.Layer(name, "dem")
	s.True(catalog.IsNotFound(err), "%+v", err)
	_, err = s.Catalog.CreateFeatureStore(name, "roads", s.Bundle("roads", 3), "UTF-8", false)
	s.Error(err)
}
