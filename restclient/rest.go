// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

// This file provides generic REST client code.

import (
	"bytes"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/restdata"
	"github.com/jtacoma/uritemplates"
)

// resource is any object that has a URL.
type resource struct {
	URL *url.URL
}

// Template expands a URI template and resolves the result relative
// to the resource's URL.
func (r *resource) Template(template string, vars map[string]interface{}) (*url.URL, error) {
	tmpl, err := uritemplates.Parse(template)
	if err != nil {
		return nil, err
	}
	expanded, err := tmpl.Expand(vars)
	if err != nil {
		return nil, err
	}
	return r.URL.Parse(expanded)
}

// payload is the body of a request.  Either Data holds it in memory
// or Path names a local file to stream; either way it can be
// replayed if the request is retried.
type payload struct {
	ContentType string
	Data        []byte
	Path        string
}

func (p *payload) open() (io.ReadCloser, int64, error) {
	if p.Path == "" {
		return ioutil.NopCloser(bytes.NewReader(p.Data)), int64(len(p.Data)), nil
	}
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// response is a completely read HTTP response.
type response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// statusErrors maps HTTP status codes to the errors they mean for a
// particular request.
type statusErrors map[int]error

// check returns nil if the response has the expected status, or any
// 2xx status if expect is 0.  Otherwise it returns the error for the
// status from errs, or a catalog.ErrFailedRequest.
func (r *response) check(expect int, message string, errs statusErrors) error {
	if r.StatusCode == expect || (expect == 0 && r.StatusCode/100 == 2) {
		return nil
	}
	if err, known := errs[r.StatusCode]; known {
		return err
	}
	return catalog.ErrFailedRequest{
		Message:    message,
		StatusCode: r.StatusCode,
		Body:       string(r.Body),
	}
}

// Decode decodes a JSON envelope from the response body.
func (r *response) Decode(key string, out interface{}) error {
	return restdata.DecodeEnvelope(r.ContentType, bytes.NewReader(r.Body), key, out)
}

// List decodes a list envelope from the response body.
func (r *response) List(outer, inner string) ([]restdata.Link, error) {
	return restdata.DecodeList(r.ContentType, bytes.NewReader(r.Body), outer, inner)
}

// Do performs some HTTP action.  If in is non-nil it is sent as the
// request body.  accept, if not empty, is sent as the Accept:
// header.  Any HTTP status is returned as a response; only transport
// failures are errors.
func (c *Client) Do(method string, u *url.URL, in *payload, accept string) (resp *response, err error) {
	var body io.ReadCloser
	var length int64
	if in != nil {
		body, length, err = in.open()
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		if body != nil {
			body.Close()
		}
		return nil, err
	}
	if in != nil {
		req.ContentLength = length
		req.Header.Set("Content-Type", in.ContentType)
		req.GetBody = func() (io.ReadCloser, error) {
			rc, _, err := in.open()
			return rc, err
		}
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.Config.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.Config.AccessToken)
	} else if c.Config.Username != "" {
		req.SetBasicAuth(c.Config.Username, c.Config.Password)
	}

	httpResp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = firstError(err, httpResp.Body.Close())
	}()

	resp = &response{
		StatusCode:  httpResp.StatusCode,
		ContentType: httpResp.Header.Get("Content-Type"),
	}
	resp.Body, err = ioutil.ReadAll(httpResp.Body)
	return resp, err
}

// get retrieves a JSON resource.
func (c *Client) get(template string, vars map[string]interface{}) (*response, error) {
	u, err := c.Template(template, vars)
	if err != nil {
		return nil, err
	}
	return c.Do(http.MethodGet, u, nil, restdata.JSONMediaType)
}

// send performs a request with a body and no expected response body.
func (c *Client) send(method, template string, vars map[string]interface{}, in *payload) (*response, error) {
	u, err := c.Template(template, vars)
	if err != nil {
		return nil, err
	}
	return c.Do(method, u, in, "")
}

// xmlPayload serializes a resource description as an XML body.
func xmlPayload(v interface{}) (*payload, error) {
	data, err := restdata.EncodeXML(v)
	if err != nil {
		return nil, err
	}
	return &payload{ContentType: restdata.XMLMediaType, Data: data}, nil
}

// boolParam formats a boolean query parameter.
func boolParam(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func firstError(e1, e2 error) error {
	if e1 != nil {
		return e1
	}
	return e2
}
