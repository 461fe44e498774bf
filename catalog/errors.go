// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingPath is returned when creating a coverage store without
// a path to the raster data.
var ErrMissingPath = errors.New("You must provide a full path to the raster")

// ErrInvalidArgument is returned when an argument is missing or
// outside its allowed values, such as an unknown coverage store
// type.
type ErrInvalidArgument struct {
	Argument string
	Reason   string
}

func (err ErrInvalidArgument) Error() string {
	return fmt.Sprintf("Invalid %v: %v", err.Argument, err.Reason)
}

// HTTPStatus returns a fixed 400 Bad Request status.
func (err ErrInvalidArgument) HTTPStatus() int {
	return http.StatusBadRequest
}

// ErrConflictingData is returned when creating a resource whose name
// is already taken.
type ErrConflictingData struct {
	// Kind is the kind of resource, such as "store".
	Kind      string
	Name      string
	Workspace string
}

func (err ErrConflictingData) Error() string {
	if err.Workspace == "" {
		return fmt.Sprintf("There is already a %v named %v", err.Kind, err.Name)
	}
	return fmt.Sprintf("There is already a %v named %v in workspace %v",
		err.Kind, err.Name, err.Workspace)
}

// HTTPStatus returns a fixed 409 Conflict status.
func (err ErrConflictingData) HTTPStatus() int {
	return http.StatusConflict
}

// ErrNotEmpty is returned when deleting a workspace or store that
// still holds resources without asking for a recursive delete.
type ErrNotEmpty struct {
	Kind      string
	Name      string
	Workspace string
}

func (err ErrNotEmpty) Error() string {
	if err.Workspace == "" {
		return fmt.Sprintf("%v %v is not empty", err.Kind, err.Name)
	}
	return fmt.Sprintf("%v %v in workspace %v is not empty", err.Kind, err.Name, err.Workspace)
}

// HTTPStatus returns a fixed 403 Forbidden status.
func (err ErrNotEmpty) HTTPStatus() int {
	return http.StatusForbidden
}

// ErrFailedRequest is returned when the catalog service answers a
// request with an unexpected HTTP status.
type ErrFailedRequest struct {
	// Message describes what was being attempted.
	Message string

	StatusCode int

	// Body holds the response body, presumed to be text.
	Body string
}

func (err ErrFailedRequest) Error() string {
	if err.Body == "" {
		return fmt.Sprintf("%v: HTTP %d", err.Message, err.StatusCode)
	}
	return fmt.Sprintf("%v: HTTP %d: %v", err.Message, err.StatusCode, err.Body)
}

// ErrNoSuchWorkspace is returned when a named workspace does not
// exist.
type ErrNoSuchWorkspace struct {
	Name string
}

func (err ErrNoSuchWorkspace) Error() string {
	return fmt.Sprintf("No such workspace %v", err.Name)
}

// HTTPStatus returns a fixed 404 Not Found status.
func (err ErrNoSuchWorkspace) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrNoSuchStore is returned when a named store does not exist.
type ErrNoSuchStore struct {
	Workspace string
	Name      string
}

func (err ErrNoSuchStore) Error() string {
	return fmt.Sprintf("No such store %v:%v", err.Workspace, err.Name)
}

// HTTPStatus returns a fixed 404 Not Found status.
func (err ErrNoSuchStore) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrNoSuchCoverage is returned when a named coverage does not exist.
type ErrNoSuchCoverage struct {
	Workspace string
	Store     string
	Name      string
}

func (err ErrNoSuchCoverage) Error() string {
	return fmt.Sprintf("No such coverage %v:%v/%v", err.Workspace, err.Store, err.Name)
}

// HTTPStatus returns a fixed 404 Not Found status.
func (err ErrNoSuchCoverage) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrNoSuchLayer is returned when a named layer does not exist.
type ErrNoSuchLayer struct {
	Workspace string
	Name      string
}

func (err ErrNoSuchLayer) Error() string {
	return fmt.Sprintf("No such layer %v:%v", err.Workspace, err.Name)
}

// HTTPStatus returns a fixed 404 Not Found status.
func (err ErrNoSuchLayer) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrNoSuchStyle is returned when a named style does not exist.
type ErrNoSuchStyle struct {
	Workspace string
	Name      string
}

func (err ErrNoSuchStyle) Error() string {
	return fmt.Sprintf("No such style %v:%v", err.Workspace, err.Name)
}

// HTTPStatus returns a fixed 404 Not Found status.
func (err ErrNoSuchStyle) HTTPStatus() int {
	return http.StatusNotFound
}

// IsNotFound returns true if err reports an absent workspace, store,
// coverage, layer, or style.
func IsNotFound(err error) bool {
	switch err.(type) {
	case ErrNoSuchWorkspace, ErrNoSuchStore, ErrNoSuchCoverage,
		ErrNoSuchLayer, ErrNoSuchStyle:
		return true
	}
	return false
}
