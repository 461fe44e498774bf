// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"io/ioutil"

	"github.com/diffeo/go-geoserver/restclient"
	"github.com/mitchellh/mapstructure"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v2"
)

func loadConfigYaml(filename string) (map[string]interface{}, error) {
	var result map[string]interface{}
	bytes, err := ioutil.ReadFile(filename)
	if err == nil {
		err = yaml.Unmarshal(bytes, &result)
	}
	return result, err
}

// decodeConfig fills a client configuration from a generic map, as
// read from a YAML file.  Durations may be strings such as "90s".
func decodeConfig(in map[string]interface{}, config *restclient.Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           config,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(in)
}

// loadConfig builds the client configuration from the --config file,
// then the global flags and environment.
func loadConfig(c *cli.Context) (restclient.Config, error) {
	var config restclient.Config
	if filename := c.GlobalString("config"); filename != "" {
		in, err := loadConfigYaml(filename)
		if err != nil {
			return config, err
		}
		if err = decodeConfig(in, &config); err != nil {
			return config, err
		}
	}

	if v := c.GlobalString("url"); v != "" {
		config.URL = v
	}
	if v := c.GlobalString("username"); v != "" {
		config.Username = v
	}
	if v := c.GlobalString("password"); v != "" {
		config.Password = v
	}
	if v := c.GlobalString("access-token"); v != "" {
		config.AccessToken = v
	}
	if c.GlobalBool("skip-ssl-verify") {
		config.SkipSSLVerify = true
	}
	if c.GlobalIsSet("retries") {
		config.Retries = c.GlobalInt("retries")
	}
	if c.GlobalIsSet("backoff-factor") {
		config.BackoffFactor = c.GlobalFloat64("backoff-factor")
	}
	if c.GlobalIsSet("timeout") {
		config.Timeout = c.GlobalDuration("timeout")
	}
	return config, nil
}
