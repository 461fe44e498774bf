// Copyright 2015-2016 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"sort"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/sld"
)

type style struct {
	meta catalog.Style
	body []byte
}

// checkBody rejects style bodies that are not SLD documents.
func checkBody(body []byte) error {
	if _, err := sld.Parse(body); err != nil {
		return catalog.ErrInvalidArgument{Argument: "body", Reason: err.Error()}
	}
	return nil
}

func (c *memCatalog) Style(wsName, name string) (result *catalog.Style, err error) {
	err = c.inWorkspace(wsName, func(ws *workspace) error {
		s, present := ws.styles[name]
		if !present {
			return catalog.ErrNoSuchStyle{Workspace: wsName, Name: name}
		}
		meta := s.meta
		result = &meta
		return nil
	})
	return
}

func (c *memCatalog) StyleBody(wsName, name string) (body []byte, err error) {
	err = c.inWorkspace(wsName, func(ws *workspace) error {
		s, present := ws.styles[name]
		if !present {
			return catalog.ErrNoSuchStyle{Workspace: wsName, Name: name}
		}
		body = append([]byte(nil), s.body...)
		return nil
	})
	return
}

func (c *memCatalog) Styles(wsName string) (result []catalog.Style, err error) {
	err = c.inWorkspace(wsName, func(ws *workspace) error {
		result = make([]catalog.Style, 0, len(ws.styles))
		for _, s := range ws.styles {
			result = append(result, s.meta)
		}
		sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
		return nil
	})
	return
}

func (c *memCatalog) CreateStyle(wsName, name string, body []byte, overwrite bool) (result *catalog.Style, err error) {
	if err = checkName("style", name); err != nil {
		return nil, err
	}
	if err = checkBody(body); err != nil {
		return nil, err
	}
	err = c.inWorkspace(wsName, func(ws *workspace) error {
		if _, present := ws.styles[name]; present && !overwrite {
			return catalog.ErrConflictingData{Kind: "style", Name: name, Workspace: wsName}
		}
		s := &style{
			meta: catalog.Style{
				Name:      name,
				Workspace: wsName,
				Format:    "sld",
				Filename:  name + ".sld",
			},
			body: append([]byte(nil), body...),
		}
		ws.styles[name] = s
		meta := s.meta
		result = &meta
		return nil
	})
	return
}

func (c *memCatalog) UpdateStyle(wsName, name string, body []byte) error {
	if err := checkBody(body); err != nil {
		return err
	}
	return c.inWorkspace(wsName, func(ws *workspace) error {
		s, present := ws.styles[name]
		if !present {
			return catalog.ErrNoSuchStyle{Workspace: wsName, Name: name}
		}
		s.body = append([]byte(nil), body...)
		return nil
	})
}

// DeleteStyle removes a style.  There is no style file to purge, so
// purge has no effect.
func (c *memCatalog) DeleteStyle(wsName, name string, purge bool) error {
	return c.inWorkspace(wsName, func(ws *workspace) error {
		if _, present := ws.styles[name]; !present {
			return catalog.ErrNoSuchStyle{Workspace: wsName, Name: name}
		}
		delete(ws.styles, name)
		return nil
	})
}
