// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "geoserver",
		Subsystem: "restserver",
		Name:      "requests_total",
		Help:      "Number of REST requests served",
	},
	[]string{"route", "method", "code"},
)

func init() {
	prometheus.MustRegister(requestCount)
}

// countRequest records one served request against its route name.
func countRequest(req *http.Request, status int) {
	route := "unknown"
	if r := mux.CurrentRoute(req); r != nil && r.GetName() != "" {
		route = r.GetName()
	}
	requestCount.WithLabelValues(route, req.Method, strconv.Itoa(status)).Inc()
}
