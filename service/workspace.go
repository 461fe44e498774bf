// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package service

import (
	"github.com/diffeo/go-geoserver/catalog"
	"github.com/sirupsen/logrus"
)

// NamespaceURI returns the namespace URI given to new workspaces.
func NamespaceURI(workspace string) string {
	return "http://" + workspace + ".com"
}

// GetWorkspace retrieves a workspace, or nil if it does not exist.
func (s *Service) GetWorkspace(name string) (*catalog.Workspace, error) {
	ws, err := s.Catalog.Workspace(name)
	if err != nil {
		return nil, absent(err)
	}
	return ws, nil
}

// WorkspaceExists checks whether a workspace exists.
func (s *Service) WorkspaceExists(name string) (bool, error) {
	ws, err := s.GetWorkspace(name)
	return ws != nil, err
}

// GetWorkspaces lists all workspaces.
func (s *Service) GetWorkspaces() ([]catalog.Workspace, error) {
	return s.Catalog.Workspaces()
}

// CreateWorkspace creates a workspace if it does not already exist.
// An existing workspace is a failure, and nothing is sent to the
// catalog.
func (s *Service) CreateWorkspace(name string) Result {
	fields := logrus.Fields{"workspace": name}
	exists, err := s.WorkspaceExists(name)
	if err != nil {
		return s.report("create workspace", fields, fail("cannot check workspace", err))
	}
	if exists {
		return s.report("create workspace", fields, fail("workspace already exists: "+name, nil))
	}
	ws, err := s.Catalog.CreateWorkspace(name, NamespaceURI(name))
	if err != nil {
		return s.report("create workspace", fields, fail("cannot create workspace", err))
	}
	return s.report("create workspace", fields, succeed(ws))
}

// DeleteWorkspace deletes a workspace and everything in it.  Deleting
// an absent workspace succeeds without doing anything.
func (s *Service) DeleteWorkspace(name string) Result {
	fields := logrus.Fields{"workspace": name}
	exists, err := s.WorkspaceExists(name)
	if err != nil {
		return s.report("delete workspace", fields, fail("cannot check workspace", err))
	}
	if !exists {
		return succeed(nil)
	}
	if err = s.Catalog.DeleteWorkspace(name, true); err != nil {
		return s.report("delete workspace", fields, fail("cannot delete workspace", err))
	}
	return s.report("delete workspace", fields, succeed(nil))
}
