// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"io/ioutil"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

// seedWorkspace is one workspace to create at startup.
type seedWorkspace struct {
	Name string `mapstructure:"name"`
	URI  string `mapstructure:"uri"`
}

// seedConfig is the startup content of the catalog.
type seedConfig struct {
	Workspaces []seedWorkspace `mapstructure:"workspaces"`
}

func loadConfigYaml(filename string) (seedConfig, error) {
	var (
		raw    map[string]interface{}
		result seedConfig
	)
	bytes, err := ioutil.ReadFile(filename)
	if err == nil {
		err = yaml.Unmarshal(bytes, &raw)
	}
	if err == nil {
		err = decodeSeed(raw, &result)
	}
	return result, err
}

// decodeSeed converts the generic YAML structure into a seedConfig.
func decodeSeed(raw map[string]interface{}, out *seedConfig) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// Apply creates the seeded workspaces.  Workspaces without a URI get
// one derived from their name.
func (seed seedConfig) Apply(c catalog.Catalog) error {
	for _, ws := range seed.Workspaces {
		uri := ws.URI
		if uri == "" {
			uri = "http://" + ws.Name + ".com"
		}
		if _, err := c.CreateWorkspace(ws.Name, uri); err != nil {
			return err
		}
	}
	return nil
}
