// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Fakegeoserver serves a catalog over the GeoServer REST API, for
// local development and testing of publishing tools without a real
// GeoServer.  It renders nothing; it only tracks workspaces, stores,
// layers, and styles.
//
//     fakegeoserver --http :8080 --config seed.yaml
//
// The REST API is under /geoserver/rest and Prometheus metrics are
// at /metrics.  The optional YAML configuration file seeds the
// catalog:
//
//     workspaces:
//       - name: topp
//         uri: http://topp.com
package main

import (
	"flag"

	"github.com/diffeo/go-geoserver/backend"
	"github.com/diffeo/go-geoserver/restclient"
	"github.com/sirupsen/logrus"
)

func main() {
	var err error

	httpBind := flag.String("http", ":8080",
		"[ip]:port for HTTP REST interface")
	prefix := flag.String("prefix", "/geoserver/rest",
		"URL path prefix of the REST interface")
	backend := backend.Backend{Implementation: "memory", Address: ""}
	flag.Var(&backend, "backend", "impl[:address] of the catalog backend")
	config := flag.String("config", "", "seed configuration YAML file")
	logRequests := flag.Bool("log-requests", false, "log all requests")
	flag.Parse()

	var seed seedConfig
	if *config != "" {
		seed, err = loadConfigYaml(*config)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"err": err,
			}).Fatal("Could not load YAML configuration")
			return
		}
	}

	catalog, err := backend.Catalog(restclient.Config{})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not create catalog backend")
		return
	}
	if err = seed.Apply(catalog); err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not seed catalog")
		return
	}

	var reqLogger *logrus.Logger
	if *logRequests {
		stdlog := logrus.StandardLogger()
		reqLogger = &logrus.Logger{
			Out:       stdlog.Out,
			Formatter: stdlog.Formatter,
			Hooks:     stdlog.Hooks,
			Level:     logrus.DebugLevel,
		}
	}

	go observe(catalog, observeInterval)
	h := &HTTP{
		catalog:   catalog,
		laddr:     *httpBind,
		prefix:    *prefix,
		reqLogger: reqLogger,
	}
	logrus.WithFields(logrus.Fields{
		"http":   *httpBind,
		"prefix": *prefix,
	}).Info("serving")
	h.Serve()
}
