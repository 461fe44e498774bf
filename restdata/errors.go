// Copyright 2015-2016 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"fmt"
	"net/http"
	"runtime"
)

// ErrorStatus describes errors that correspond to specific HTTP status
// codes.
type ErrorStatus interface {
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrUnsupportedMediaType is returned from Decode() if the provided
// Content-Type: is unrecognized.  This translates directly into the
// equivalent HTTP 415 error.
type ErrUnsupportedMediaType struct {
	Type string
}

func (e ErrUnsupportedMediaType) Error() string {
	return fmt.Sprintf("Unsupported media type %q", e.Type)
}

// HTTPStatus returns a fixed 415 Unsupported Media Type error code.
func (e ErrUnsupportedMediaType) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

// ErrMissingKey is returned from DecodeEnvelope() and DecodeList()
// if the JSON object does not have the expected envelope key.
type ErrMissingKey struct {
	Key string
}

func (e ErrMissingKey) Error() string {
	return fmt.Sprintf("Response is missing %q", e.Key)
}

// ErrBadRequest is returned as an error when there is an error decoding
// HTTP headers or the request body.
type ErrBadRequest struct {
	Err error
}

func (e ErrBadRequest) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 400 Bad Request HTTP status code.
func (e ErrBadRequest) HTTPStatus() int {
	return http.StatusBadRequest
}

// StatusFor returns the HTTP status code for an error: its own
// HTTPStatus() if it has one, or 500 Internal Server Error.
func StatusFor(err error) int {
	if errS, hasStatus := err.(ErrorStatus); hasStatus {
		return errS.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// PanicMessage produces the text of an error response for a
// recovered panic, including the current goroutine's stack.  Typical
// use is:
//
//     defer func() {
//         if obj := recover(); obj != nil {
//             http.Error(w, restdata.PanicMessage(obj), 500)
//         }
//     }()
func PanicMessage(obj interface{}) string {
	var msg string
	if recoveredError, isError := obj.(error); isError {
		msg = recoveredError.Error()
	} else {
		msg = fmt.Sprintf("%+v", obj)
	}
	var stack [4096]byte
	len := runtime.Stack(stack[:], false)
	return "panic: " + msg + "\n" + string(stack[:len])
}
