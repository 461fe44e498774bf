// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package service sequences catalog calls into the workspace, layer,
// and style operations a publishing workflow needs: "create the
// workspace if it is absent", "publish this shapefile as a layer",
// "slice this raster into a pyramid and publish it", "give this
// layer a red outline".
//
// Every mutating operation returns a Result rather than an error.
// Callers branch on Result.Status; Result.Info carries a short
// human-readable message with the underlying cause appended, and
// Result.Err keeps the cause itself.  Lookups return the resource, or
// nil with no error if it does not exist, and report only real
// failures such as an unreachable catalog as errors.
//
// Existence checks and the calls that follow them are separate
// requests.  If another client changes the catalog in between, a
// create can still fail with a conflict or a delete can find nothing
// to delete; the Result reports whatever the catalog said.
package service

import (
	"fmt"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/tiler"
	"github.com/sirupsen/logrus"
)

// Status is the outcome of an operation.
type Status string

const (
	// Success means the operation did what was asked, or that
	// there was nothing to do.
	Success Status = "success"

	// Fail means the operation did not happen.  Result.Info
	// says why.
	Fail Status = "fail"
)

// Result is the outcome of a mutating operation.
type Result struct {
	Status Status      `json:"status" yaml:"status"`
	Info   string      `json:"info" yaml:"info"`
	Data   interface{} `json:"data" yaml:"data"`

	// Err is the underlying failure, if any.
	Err error `json:"-" yaml:"-"`
}

// OK returns true if the result is a success.
func (r Result) OK() bool {
	return r.Status == Success
}

// LayerData is the Data of a successful layer publish.
type LayerData struct {
	Layer        *catalog.Layer `json:"layer" yaml:"layer"`
	DefaultStyle string         `json:"default_style" yaml:"default_style"`
}

func succeed(data interface{}) Result {
	return Result{Status: Success, Data: data}
}

// fail builds a failing result.  If err is non-nil its text follows
// message in Info.
func fail(message string, err error) Result {
	info := message
	if err != nil {
		info = fmt.Sprintf("%v: %v", message, err)
	}
	return Result{Status: Fail, Info: info, Err: err}
}

// Service runs workflow operations against a catalog.
type Service struct {
	// Catalog is the catalog operated on.  Callers may use it
	// directly for anything the service does not cover.
	Catalog catalog.Catalog

	// Tiler slices rasters into pyramids.  Its Options are the
	// defaults for CreatePyramidTiff.
	Tiler *tiler.Tiler

	// Log receives one entry per operation.
	Log *logrus.Entry
}

// New creates a service over a catalog, using the default tiler and
// the standard logger.
func New(c catalog.Catalog) *Service {
	log := logrus.NewEntry(logrus.StandardLogger())
	t := tiler.New(tiler.DefaultOptions())
	t.Log = log
	return &Service{
		Catalog: c,
		Tiler:   t,
		Log:     log,
	}
}

func (s *Service) logger() *logrus.Entry {
	if s.Log == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return s.Log
}

// report logs the outcome of an operation and returns it.
func (s *Service) report(op string, fields logrus.Fields, r Result) Result {
	log := s.logger().WithField("op", op).WithFields(fields)
	if r.OK() {
		log.Info(op)
	} else {
		log.WithFields(logrus.Fields{
			"info": r.Info,
			"err":  r.Err,
		}).Warn(op)
	}
	return r
}

// absent turns a not-found error into a nil error.
func absent(err error) error {
	if catalog.IsNotFound(err) {
		return nil
	}
	return err
}
