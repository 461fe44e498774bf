// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package cache

import "github.com/prometheus/client_golang/prometheus"

var lookupCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "geoserver",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Catalog lookups through the cache, by kind and result.",
	},
	[]string{"kind", "result"},
)

func init() {
	prometheus.MustRegister(lookupCount)
}

func countLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	lookupCount.WithLabelValues(kind, result).Inc()
}
