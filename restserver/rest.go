// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

// This file contains a REST skeleton framework.
//
// The bulk of this is dealing with HTTP content type negotiation, and
// providing a standard way to deal with input and output values.
// Request bodies are not decoded here, since GeoServer accepts a
// different format on nearly every endpoint (XML documents, zipped
// shapefiles, raw rasters, SLD); handlers read them through the
// context instead.

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/diffeo/go-geoserver/restdata"
	"github.com/diffeo/go-geoserver/sld"
)

var typeMap = map[string]string{
	"text/json":            restdata.JSONMediaType,
	restdata.JSONMediaType: restdata.JSONMediaType,
	sld.ContentType:        sld.ContentType,
}

// errBadAccept is returned from negotiateResponse() if the Accept:
// header is malformed (and no more specific error applies).
var errBadAccept = errors.New("Invalid Accept: header")

// errNotAcceptable is returned from negotiateResponse() if the Accept:
// header does not mention any media types we can actually return.
type errNotAcceptable struct{}

func (e errNotAcceptable) Error() string {
	return "No acceptable representation for response"
}

func (e errNotAcceptable) HTTPStatus() int {
	return http.StatusNotAcceptable
}

// errMethodNotAllowed is used within the resourceHandler implementation
// to flag an error if a particular HTTP method is not allowed.  This
// corresponds exactly to the 405 Method Not Allowed HTTP status code.
type errMethodNotAllowed struct {
	Method string
}

func (e errMethodNotAllowed) Error() string {
	return fmt.Sprintf("Method %v not allowed", e.Method)
}

func (e errMethodNotAllowed) HTTPStatus() int {
	return http.StatusMethodNotAllowed
}

// responseCreated is returned as a value response from handler
// functions that want to indicate that a new resource was created.
type responseCreated struct {
	// Location holds the canonical URL to the newly created resource.
	Location string

	// Body contains the object sent in the body of the response.
	Body interface{}
}

// rawResponse is returned from handler functions that produce a
// pre-encoded body, such as an SLD document.
type rawResponse struct {
	ContentType string
	Body        []byte
}

type resourceHandler struct {
	// Context reads an HTTP request and produces a context object.
	Context func(req *http.Request) (*context, error)

	// Get, if non-nil, returns a representation of the object.
	Get func(*context) (interface{}, error)

	// Put, if non-nil, updates or replaces the object from the
	// request body.
	Put func(*context) (interface{}, error)

	// Post, if non-nil, creates a new object from the request
	// body.  It usually returns responseCreated.
	Post func(*context) (interface{}, error)

	// Delete, if non-nil, deletes the object.  The return can be
	// any useful return value.
	Delete func(*context) (interface{}, error)
}

func (h *resourceHandler) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	var (
		ctx          *context
		out          interface{}
		err          error
		status       int
		responseType string
	)

	// Recover from panics by sending an HTTP error.
	defer func() {
		if recovered := recover(); recovered != nil {
			http.Error(resp, restdata.PanicMessage(recovered), http.StatusInternalServerError)
			countRequest(req, http.StatusInternalServerError)
		}
	}()

	// Start by trying to come up with a response type, even before
	// looking at the request.
	responseType, err = negotiateResponse(req)

	// Get bits from URL parameters
	if err == nil {
		ctx, err = h.Context(req)
	}

	// Actually call the handler method
	if err == nil {
		ctx.ResponseType = responseType
		// We will return this if the method is unexpected or
		// we don't have a handler for it
		err = errMethodNotAllowed{Method: req.Method}
		switch req.Method {
		case http.MethodGet, http.MethodHead:
			if h.Get != nil {
				out, err = h.Get(ctx)
			}
		case http.MethodPut:
			if h.Put != nil {
				out, err = h.Put(ctx)
			}
		case http.MethodPost:
			if h.Post != nil {
				out, err = h.Post(ctx)
			}
		case http.MethodDelete:
			if h.Delete != nil {
				out, err = h.Delete(ctx)
			}
		}
	}

	// Errors are plain text, as GeoServer sends them.
	if err != nil {
		status = restdata.StatusFor(err)
		countRequest(req, status)
		http.Error(resp, err.Error(), status)
		return
	}

	if out == nil {
		status = http.StatusOK
	} else if created, isCreated := out.(responseCreated); isCreated {
		status = http.StatusCreated
		if created.Location != "" {
			resp.Header().Set("Location", created.Location)
		}
		out = created.Body
	} else {
		status = http.StatusOK
	}
	if req.Method == http.MethodHead {
		out = nil
	}
	countRequest(req, status)

	// Actually send the response.  It is possible for the writer
	// to fail, but by the point this happens we've already written
	// an HTTP status line, so there is nothing better to do than
	// drop the rest.
	switch body := out.(type) {
	case nil:
		resp.WriteHeader(status)
	case rawResponse:
		resp.Header().Set("Content-Type", body.ContentType)
		resp.WriteHeader(status)
		_, _ = resp.Write(body.Body)
	default:
		resp.Header().Set("Content-Type", restdata.JSONMediaType)
		resp.WriteHeader(status)
		_ = restdata.EncodeJSON(resp, body)
	}
}

// negotiateResponse returns a supported MIME type for the response
// body, following the path laid out in RFC 7231 section 5.3.
func negotiateResponse(req *http.Request) (string, error) {
	accept := req.Header.Get("Accept")
	if accept == "" {
		accept = "*/*"
	}
	bestType := ""
	bestQ := 0.0
	mediaRanges := strings.Split(accept, ",")
	for _, mediaRange := range mediaRanges {
		mediaRange = strings.TrimSpace(mediaRange)
		mediaType, params, err := mime.ParseMediaType(mediaRange)
		if err != nil {
			return "", restdata.ErrBadRequest{Err: err}
		}

		// What is the "q" ("quality") parameter for this type?
		// If it is less than the best known so far, skip it
		q := 1.0
		if qStr, haveQ := params["q"]; haveQ {
			q, err = strconv.ParseFloat(qStr, 64)
			if err != nil {
				return "", restdata.ErrBadRequest{Err: err}
			}
			if q < 0.0 || q > 1.0 {
				return "", restdata.ErrBadRequest{Err: errBadAccept}
			}
		}
		if q < bestQ {
			continue
		}

		// This is acceptable if it's listed in the type
		// map; or it's one of a couple of specific wildcards.
		// Also need to handle wildcard precedence.  So:
		if mediaType == "*/*" {
			// Doesn't override anything.
			if q > bestQ {
				bestType = mediaType
				bestQ = q
			}
		} else if mediaType == "text/*" || mediaType == "application/*" {
			// Only overrides "*/*".
			if q > bestQ || bestType == "*/*" {
				bestType = mediaType
				bestQ = q
			}
		} else if _, knownType := typeMap[mediaType]; knownType {
			// Overrides any wildcard.  We want the first one
			// at a given q to win.
			if q > bestQ || bestType == "*/*" || bestType == "text/*" || bestType == "application/*" {
				bestType = mediaType
				bestQ = q
			}
		}
		// Otherwise we don't recognize this type at all, so
		// just drop it.
	}
	// If this failed to win, return an error
	if bestQ == 0.0 {
		return "", errNotAcceptable{}
	}
	switch bestType {
	case "*/*", "application/*", "text/*":
		return restdata.JSONMediaType, nil
	default:
		return typeMap[bestType], nil
	}
}
