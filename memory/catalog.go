// Copyright 2015-2016 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package memory provides an in-process, in-memory implementation of
// catalog.Catalog.  There is no persistence on this catalog, nor is
// there any automatic sharing.  The entire system is behind a single
// global mutex to protect against concurrent updates.
//
// This is mostly intended as a simple reference implementation of
// the catalog that can be used for testing, including in-process
// testing of higher-level components and, through the restserver
// package, of the REST client.  It follows GeoServer's behavior
// closely enough for that purpose but does not render anything.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/diffeo/go-geoserver/catalog"
)

// This is the only external entry point to this package:

// New creates a new catalog.Catalog that operates purely in memory.
func New() catalog.Catalog {
	return &memCatalog{workspaces: make(map[string]*workspace)}
}

// workspace holds everything within one workspace.  Resource names
// in each map are unique within the workspace, as in GeoServer.
type workspace struct {
	name      string
	uri       string
	stores    map[string]catalog.Store
	coverages map[string]catalog.Coverage
	layers    map[string]catalog.Layer
	styles    map[string]*style
}

func newWorkspace(name, uri string) *workspace {
	return &workspace{
		name:      name,
		uri:       uri,
		stores:    make(map[string]catalog.Store),
		coverages: make(map[string]catalog.Coverage),
		layers:    make(map[string]catalog.Layer),
		styles:    make(map[string]*style),
	}
}

func (ws *workspace) empty() bool {
	return len(ws.stores) == 0 && len(ws.layers) == 0 && len(ws.styles) == 0
}

func (ws *workspace) summary() catalog.Workspace {
	return catalog.Workspace{Name: ws.name, NamespaceURI: ws.uri}
}

type memCatalog struct {
	workspaces map[string]*workspace
	sem        sync.Mutex
}

// do runs f with the global lock held.
func (c *memCatalog) do(f func() error) error {
	c.sem.Lock()
	defer c.sem.Unlock()
	return f()
}

// inWorkspace runs f with the global lock held on the named
// workspace, failing with ErrNoSuchWorkspace if it does not exist.
func (c *memCatalog) inWorkspace(name string, f func(*workspace) error) error {
	return c.do(func() error {
		ws, present := c.workspaces[name]
		if !present {
			return catalog.ErrNoSuchWorkspace{Name: name}
		}
		return f(ws)
	})
}

// checkName rejects names that could not appear in a REST URL path.
func checkName(kind, name string) error {
	if name == "" {
		return catalog.ErrInvalidArgument{Argument: kind, Reason: "name must not be empty"}
	}
	if strings.ContainsAny(name, "/:") {
		return catalog.ErrInvalidArgument{Argument: kind, Reason: "name must not contain / or :"}
	}
	return nil
}

func (c *memCatalog) Workspace(name string) (result *catalog.Workspace, err error) {
	err = c.inWorkspace(name, func(ws *workspace) error {
		summary := ws.summary()
		result = &summary
		return nil
	})
	return
}

func (c *memCatalog) Workspaces() (result []catalog.Workspace, err error) {
	err = c.do(func() error {
		result = make([]catalog.Workspace, 0, len(c.workspaces))
		for _, ws := range c.workspaces {
			result = append(result, ws.summary())
		}
		sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
		return nil
	})
	return
}

func (c *memCatalog) CreateWorkspace(name, namespaceURI string) (result *catalog.Workspace, err error) {
	if err = checkName("workspace", name); err != nil {
		return nil, err
	}
	err = c.do(func() error {
		if _, present := c.workspaces[name]; present {
			return catalog.ErrConflictingData{Kind: "workspace", Name: name}
		}
		ws := newWorkspace(name, namespaceURI)
		c.workspaces[name] = ws
		summary := ws.summary()
		result = &summary
		return nil
	})
	return
}

func (c *memCatalog) DeleteWorkspace(name string, recurse bool) error {
	return c.inWorkspace(name, func(ws *workspace) error {
		if !recurse && !ws.empty() {
			return catalog.ErrNotEmpty{Kind: "workspace", Name: name}
		}
		delete(c.workspaces, name)
		return nil
	})
}
