// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"time"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var observeInterval = 15 * time.Second

var catalogSummary = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "geoserver",
		Subsystem: "fake",
		Name:      "catalog_resources",
		Help:      "Number of resources in the catalog",
	},
	[]string{
		"workspace",
		"kind",
	},
)

func init() {
	prometheus.MustRegister(catalogSummary)
}

// summarize records the resource counts of every workspace once.
func summarize(c catalog.Catalog) error {
	workspaces, err := c.Workspaces()
	if err != nil {
		return err
	}
	catalogSummary.Reset()
	for _, ws := range workspaces {
		stores, err := c.Stores(ws.Name)
		if err != nil {
			return err
		}
		layers, err := c.Layers(ws.Name)
		if err != nil {
			return err
		}
		styles, err := c.Styles(ws.Name)
		if err != nil {
			return err
		}
		catalogSummary.WithLabelValues(ws.Name, "store").Set(float64(len(stores)))
		catalogSummary.WithLabelValues(ws.Name, "layer").Set(float64(len(layers)))
		catalogSummary.WithLabelValues(ws.Name, "style").Set(float64(len(styles)))
	}
	return nil
}

// observe updates the summary gauges forever.
func observe(c catalog.Catalog, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := summarize(c); err != nil {
			logrus.WithFields(logrus.Fields{
				"err": err,
			}).Warn("could not summarize catalog")
		}
		<-ticker.C
	}
}
