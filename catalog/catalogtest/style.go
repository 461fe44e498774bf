// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package catalogtest

import (
	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/sld"
)

// TestStyleLifecycle creates, reads, replaces, and deletes a style.
func (s *Suite) TestStyleLifecycle() {
	ws := "styles"
	s.Workspace(ws)
	defer s.DropWorkspace(ws)

	_, err := s.Catalog.Style(ws, "roads")
	s.Equal(catalog.ErrNoSuchStyle{Workspace: ws, Name: "roads"}, err)

	body := s.StyleBody(sld.Line, map[string]interface{}{"color": "#FF0000"})
	style, err := s.Catalog.CreateStyle(ws, "roads", body, false)
	if s.NoError(err) {
		s.Equal("roads", style.Name)
		s.Equal(ws, style.Workspace)
		s.Equal("sld", style.Format)
	}

	style, err = s.Catalog.Style(ws, "roads")
	if s.NoError(err) {
		s.Equal("roads", style.Name)
		s.Equal("roads.sld", style.Filename)
	}

	stored, err := s.Catalog.StyleBody(ws, "roads")
	if s.NoError(err) {
		doc, err := sld.Parse(stored)
		if s.NoError(err) {
			sym, err := doc.Symbolizer()
			if s.NoError(err) {
				s.Equal(sld.LineStyle{Color: "#FF0000", Width: 1}, sym)
			}
		}
	}

	_, err = s.Catalog.CreateStyle(ws, "roads", body, false)
	s.Equal(catalog.ErrConflictingData{Kind: "style", Name: "roads", Workspace: ws}, err)

	wide := s.StyleBody(sld.Line, map[string]interface{}{"width": 4})
	s.NoError(s.Catalog.UpdateStyle(ws, "roads", wide))
	stored, err = s.Catalog.StyleBody(ws, "roads")
	if s.NoError(err) {
		s.Equal(string(wide), string(stored))
	}

	thin := s.StyleBody(sld.Line, map[string]interface{}{"width": 0.5})
	_, err = s.Catalog.CreateStyle(ws, "roads", thin, true)
	s.NoError(err)
	stored, err = s.Catalog.StyleBody(ws, "roads")
	if s.NoError(err) {
		s.Equal(string(thin), string(stored))
	}

	styles, err := s.Catalog.Styles(ws)
	if s.NoError(err) && s.Len(styles, 1) {
		s.Equal("roads", styles[0].Name)
	}

	s.NoError(s.Catalog.DeleteStyle(ws, "roads", true))
	_, err = s.Catalog.Style(ws, "roads")
	s.Equal(catalog.ErrNoSuchStyle{Workspace: ws, Name: "roads"}, err)
	err = s.Catalog.DeleteStyle(ws, "roads", true)
	s.Equal(catalog.ErrNoSuchStyle{Workspace: ws, Name: "roads"}, err)
}

// TestUpdateMissingStyle checks that updating an absent style fails
// rather than creating it.
func (s *Suite) TestUpdateMissingStyle() {
	ws := "updatemissing"
	s.Workspace(ws)
	defer s.DropWorkspace(ws)

	err := s.Catalog.UpdateStyle(ws, "ghost", s.StyleBody(sld.Polygon, nil))
	s.Equal(catalog.ErrNoSuchStyle{Workspace: ws, Name: "ghost"}, err)
	_, err = s.Catalog.Style(ws, "ghost")
	s.True(catalog.IsNotFound(err))
}

// TestInvalidStyleBody checks that a style must be an SLD document.
func (s *Suite) TestInvalidStyleBody() {
	ws := "badbody"
	s.Workspace(ws)
	defer s.DropWorkspace(ws)

	_, err := s.Catalog.CreateStyle(ws, "bad", []byte("not xml at all <"), false)
	s.Error(err)
	_, err = s.Catalog.Style(ws, "bad")
	s.True(catalog.IsNotFound(err))
}
