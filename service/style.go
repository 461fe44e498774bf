// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package service

import (
	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/sld"
	"github.com/sirupsen/logrus"
)

// GetStyle retrieves a style's metadata, or nil if it does not
// exist.
func (s *Service) GetStyle(workspace, name string) (*catalog.Style, error) {
	style, err := s.Catalog.Style(workspace, name)
	if err != nil {
		return nil, absent(err)
	}
	return style, nil
}

// StyleExists checks whether a style exists.
func (s *Service) StyleExists(workspace, name string) (bool, error) {
	style, err := s.GetStyle(workspace, name)
	return style != nil, err
}

// StyleSymbolizer reads back the parameters of a style.
func (s *Service) StyleSymbolizer(workspace, name string) (sld.Symbolizer, error) {
	body, err := s.Catalog.StyleBody(workspace, name)
	if err != nil {
		return nil, err
	}
	doc, err := sld.Parse(body)
	if err != nil {
		return nil, err
	}
	return doc.Symbolizer()
}

// renderStyle builds a style document, returning a failing result if
// the kind or parameters are bad.
func renderStyle(kind string, params map[string]interface{}) ([]byte, Result, bool) {
	k, err := sld.ParseKind(kind)
	if err != nil {
		return nil, fail("unsupported style type", err), false
	}
	body, err := sld.Render(k, params)
	if err != nil {
		return nil, fail("invalid style parameters", err), false
	}
	return body, Result{}, true
}

// CreateStyle creates a style of kind "point", "line" (or
// "polyline"), or "polygon" from params, replacing any existing style
// of the same name.  Parameters not given take their defaults; see
// the sld package.  On success Data is the *catalog.Style.
func (s *Service) CreateStyle(workspace, name, kind string, params map[string]interface{}) Result {
	fields := logrus.Fields{"workspace": workspace, "style": name, "kind": kind}
	body, r, ok := renderStyle(kind, params)
	if !ok {
		return s.report("create style", fields, r)
	}
	style, err := s.Catalog.CreateStyle(workspace, name, body, true)
	if err != nil {
		return s.report("create style", fields, fail("cannot create style", err))
	}
	return s.report("create style", fields, succeed(style))
}

// UpdateStyle replaces an existing style with a newly generated one.
// It fails without changing anything if the style does not exist.
// On success Data is the *catalog.Style.
func (s *Service) UpdateStyle(workspace, name, kind string, params map[string]interface{}) Result {
	fields := logrus.Fields{"workspace": workspace, "style": name, "kind": kind}
	style, err := s.GetStyle(workspace, name)
	if err != nil {
		return s.report("update style", fields, fail("cannot check style", err))
	}
	if style == nil {
		return s.report("update style", fields, fail("style does not exist: "+name, nil))
	}
	body, r, ok := renderStyle(kind, params)
	if !ok {
		return s.report("update style", fields, r)
	}
	if err = s.Catalog.UpdateStyle(workspace, name, body); err != nil {
		return s.report("update style", fields, fail("cannot update style", err))
	}
	return s.report("update style", fields, succeed(style))
}

// DeleteStyle deletes a style and its file.  Deleting an absent style
// succeeds without doing anything.
func (s *Service) DeleteStyle(workspace, name string) Result {
	fields := logrus.Fields{"workspace": workspace, "style": name}
	exists, err := s.StyleExists(workspace, name)
	if err != nil {
		return s.report("delete style", fields, fail("cannot check style", err))
	}
	if !exists {
		return succeed(nil)
	}
	if err = s.Catalog.DeleteStyle(workspace, name, true); err != nil {
		return s.report("delete style", fields, fail("cannot delete style", err))
	}
	return s.report("delete style", fields, succeed(nil))
}
