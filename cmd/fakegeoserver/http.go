// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"net/http"
	"time"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/restserver"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

// HTTP serves the catalog REST interface.
type HTTP struct {
	catalog   catalog.Catalog
	laddr     string
	prefix    string
	reqLogger *logrus.Logger
}

// Handler builds the complete HTTP handler: the REST API under the
// prefix, metrics, panic recovery, and optional request logging.
func (h *HTTP) Handler() http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	restserver.PopulateRouter(r.PathPrefix(h.prefix).Subrouter(), h.catalog)

	n := negroni.New()
	recovery := negroni.NewRecovery()
	recovery.PrintStack = false
	n.Use(recovery)
	if h.reqLogger != nil {
		n.Use(requestLogger(h.reqLogger))
	}
	n.UseHandler(r)
	return n
}

// Serve runs an HTTP server on the specified local address. This
// serves connections forever. Exits on any error in the initial setup
// or in accepting connections.
func (h *HTTP) Serve() {
	err := http.ListenAndServe(h.laddr, h.Handler())
	logrus.WithFields(logrus.Fields{
		"err": err,
	}).Fatal("HTTP server stopped")
}

// requestLogger logs every request at debug level.
func requestLogger(logger *logrus.Logger) negroni.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
		start := time.Now()
		next(w, req)
		status := http.StatusOK
		if rw, ok := w.(negroni.ResponseWriter); ok {
			status = rw.Status()
		}
		logger.WithFields(logrus.Fields{
			"method":     req.Method,
			"path":       req.URL.Path,
			"status":     status,
			"request_id": req.Header.Get("X-Request-Id"),
			"duration":   time.Since(start),
		}).Debug("request")
	}
}
