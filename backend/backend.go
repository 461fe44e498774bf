// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package backend provides a standard way to construct a catalog
// interface based on command-line flags.
package backend

import (
	"errors"
	"strings"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/memory"
	"github.com/diffeo/go-geoserver/restclient"
)

// Backend describes user-visible parameters to reach a catalog.
// This implements the flag.Value interface, and so a typical use is
//
//     func main() {
//         backend := backend.Backend{"memory", ""}
//         flag.Var(&backend, "backend", "impl:address of the catalog")
//         flag.Parse()
//         catalog, err := backend.Catalog(restclient.Config{})
//     }
//
// It is also a github.com/urfave/cli Generic flag value.
type Backend struct {
	// Implementation holds the name of the implementation; for
	// instance, "memory" or "rest".
	Implementation string

	// Address holds some backend-specific address, such as the
	// GeoServer REST URL.
	Address string
}

// Catalog creates a new catalog interface.  This generally should be
// only called once.  In particular, if b.Implementation is "memory",
// multiple calls to this will create multiple independent catalog
// "worlds".
//
// For the "rest" implementation, config supplies credentials and
// connection settings; b.Address replaces config.URL when set.
func (b *Backend) Catalog(config restclient.Config) (catalog.Catalog, error) {
	switch b.Implementation {
	case "memory":
		return memory.New(), nil
	case "rest":
		if b.Address != "" {
			config.URL = b.Address
		}
		return restclient.New(config)
	default:
		return nil, errors.New("unknown catalog backend " + b.Implementation)
	}
}

// String renders a backend description as a string.
func (b *Backend) String() string {
	if b.Address == "" {
		return b.Implementation
	}
	return b.Implementation + ":" + b.Address
}

// Set parses a string into an existing backend description.  The
// string should be of the form "implementation:address", where
// address can be any string.  A bare "http:" or "https:" URL is
// shorthand for the "rest" implementation at that URL.
//
// This is part of the flag.Value interface.  Set checks the
// implementation name but does not validate the address or attempt
// to make a connection.
func (b *Backend) Set(param string) error {
	if strings.HasPrefix(param, "http://") || strings.HasPrefix(param, "https://") {
		b.Implementation = "rest"
		b.Address = param
		return nil
	}
	parts := strings.SplitN(param, ":", 2)
	switch parts[0] {
	case "":
		return errors.New("must specify a backend type")
	case "memory", "rest":
	default:
		return errors.New("unknown catalog backend " + parts[0])
	}
	b.Implementation = parts[0]
	b.Address = ""
	if len(parts) == 2 {
		b.Address = parts[1]
	}
	return nil
}
