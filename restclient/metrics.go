// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"github.com/prometheus/client_golang/prometheus"
)

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "geoserver",
		Subsystem: "restclient",
		Name:      "requests_total",
		Help:      "Number of HTTP requests sent, including retries",
	},
	[]string{"method", "code"},
)

var retryCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "geoserver",
		Subsystem: "restclient",
		Name:      "retries_total",
		Help:      "Number of HTTP requests retried",
	},
	[]string{"method"},
)

func init() {
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(retryCount)
}
