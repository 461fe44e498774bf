// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"testing"

	"github.com/diffeo/go-geoserver/catalog/catalogtest"
	"github.com/stretchr/testify/suite"
)

// Suite runs the generic catalog tests against the in-memory
// backend.
type Suite struct {
	catalogtest.Suite
}

// SetupSuite does global setup for the test suite.
func (s *Suite) SetupSuite() {
	s.Suite.SetupSuite()
	s.Catalog = New()
}

// TestCatalog runs the Catalog generic tests.
func TestCatalog(t *testing.T) {
	suite.Run(t, &Suite{})
}
