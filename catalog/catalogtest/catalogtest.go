// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package catalogtest provides generic functional tests for the
// Catalog interface.  A typical backend test module needs to wrap
// Suite to create its backend:
//
//     package mybackend
//
//     import (
//             "testing"
//             "github.com/diffeo/go-geoserver/catalog/catalogtest"
//             "github.com/stretchr/testify/suite"
//     )
//
//     // Suite is the per-backend generic test suite.
//     type Suite struct{
//             catalogtest.Suite
//     }
//
//     // SetupSuite does global setup for the test suite.
//     func (s *Suite) SetupSuite() {
//             s.Suite.SetupSuite()
//             s.Catalog = New()
//     }
//
//     // TestCatalog runs the Catalog generic tests.
//     func TestCatalog(t *testing.T) {
//             suite.Run(t, &Suite{})
//     }
package catalogtest

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/shapefile"
	"github.com/diffeo/go-geoserver/sld"
	"github.com/stretchr/testify/suite"
)

// Suite is the generic Catalog backend test suite.
type Suite struct {
	suite.Suite

	// Catalog contains the top-level interface to the backend
	// under test.  It is set by importing packages.
	Catalog catalog.Catalog

	// Dir is a scratch directory holding raster files for
	// reference-mode coverage stores.  It is created in
	// SetupSuite, so the catalog under test must be able to see
	// the local filesystem.
	Dir string
}

// SetupSuite does one-time initialization for the test suite.
func (s *Suite) SetupSuite() {
	dir, err := ioutil.TempDir("", "catalogtest")
	s.Require().NoError(err)
	s.Dir = dir
}

// TearDownSuite removes the scratch directory.
func (s *Suite) TearDownSuite() {
	if s.Dir != "" {
		os.RemoveAll(s.Dir)
	}
}

// Workspace creates a workspace for a single test, failing the test
// if it cannot.  Pair this with DropWorkspace.
func (s *Suite) Workspace(name string) {
	_, err := s.Catalog.CreateWorkspace(name, "http://"+name+".com")
	s.Require().NoError(err)
}

// DropWorkspace deletes a workspace and everything in it.
func (s *Suite) DropWorkspace(name string) {
	s.NoError(s.Catalog.DeleteWorkspace(name, true))
}

// Raster writes a small placeholder raster file into Dir and returns
// its path.
func (s *Suite) Raster(name string) string {
	path := filepath.Join(s.Dir, name)
	s.Require().NoError(ioutil.WriteFile(path, []byte("II*\x00placeholder raster"), 0644))
	return path
}

// Bundle builds an in-memory shapefile bundle with the given shape
// type code.
func (s *Suite) Bundle(name string, shapeType int32) *shapefile.Bundle {
	return &shapefile.Bundle{
		Name: name,
		Files: map[string][]byte{
			".shp": shapefile.Header(shapeType),
			".shx": shapefile.Header(shapeType),
			".dbf": []byte{0x03, 0x7a, 0x01, 0x01},
		},
	}
}

// StyleBody renders a style document, failing the test if it cannot.
func (s *Suite) StyleBody(kind sld.Kind, params map[string]interface{}) []byte {
	body, err := sld.Render(kind, params)
	s.Require().NoError(err)
	return body
}
