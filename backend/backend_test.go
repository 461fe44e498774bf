// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package backend

import (
	"flag"
	"io/ioutil"
	"testing"

	"github.com/diffeo/go-geoserver/restclient"
	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	for _, test := range []struct {
		Param          string
		Implementation string
		Address        string
		String         string
	}{
		{"memory", "memory", "", "memory"},
		{"rest:http://localhost:8080/geoserver/rest", "rest", "http://localhost:8080/geoserver/rest", "rest:http://localhost:8080/geoserver/rest"},
		{"https://maps.example.com/geoserver/rest", "rest", "https://maps.example.com/geoserver/rest", "rest:https://maps.example.com/geoserver/rest"},
	} {
		var b Backend
		if assert.NoError(t, b.Set(test.Param), test.Param) {
			assert.Equal(t, test.Implementation, b.Implementation)
			assert.Equal(t, test.Address, b.Address)
			assert.Equal(t, test.String, b.String())
		}
	}
}

func TestSetBad(t *testing.T) {
	for _, param := range []string{"", ":foo", "postgres:dbname=geo"} {
		b := Backend{Implementation: "memory"}
		assert.Error(t, b.Set(param), param)
		assert.Equal(t, "memory", b.Implementation)
	}
}

func TestFlag(t *testing.T) {
	b := Backend{Implementation: "memory"}
	flags := flag.NewFlagSet("test", flag.ContinueOnError)
	flags.SetOutput(ioutil.Discard)
	flags.Var(&b, "backend", "impl:address of the catalog")
	assert.NoError(t, flags.Parse([]string{"-backend", "http://localhost/geoserver/rest"}))
	assert.Equal(t, "rest", b.Implementation)
}

func TestCatalog(t *testing.T) {
	b := Backend{Implementation: "memory"}
	c, err := b.Catalog(restclient.Config{})
	if assert.NoError(t, err) {
		_, err = c.CreateWorkspace("topp", "")
		assert.NoError(t, err)
	}

	b = Backend{Implementation: "rest", Address: "http://localhost:8080/geoserver/rest"}
	c, err = b.Catalog(restclient.Config{Username: "me"})
	if assert.NoError(t, err) && assert.IsType(t, &restclient.Client{}, c) {
		client := c.(*restclient.Client)
		assert.Equal(t, "me", client.Config.Username)
		assert.Equal(t, "/geoserver/rest/", client.URL.Path)
	}

	b = Backend{Implementation: "rest"}
	_, err = b.Catalog(restclient.Config{})
	assert.Equal(t, restclient.ErrMissingURL, err)

	b = Backend{Implementation: "bogus"}
	_, err = b.Catalog(restclient.Config{})
	assert.Error(t, err)
}
