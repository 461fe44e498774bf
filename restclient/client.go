// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restclient provides a catalog.Catalog that speaks the
// GeoServer REST configuration API.  It works against a real
// GeoServer or the matching server in the "restserver" package.
//
// Call New() with the base URL of the REST API; for instance,
//
//     c, err := restclient.New(restclient.Config{
//             URL: "http://localhost:8080/geoserver/rest",
//     })
//
// Requests are retried on transient gateway failures (HTTP 502, 503,
// and 504) and connection errors, with exponential backoff; see
// SetupConnection.
package restclient

import (
	"crypto/tls"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
)

// ErrMissingURL is returned from New if no service URL is configured.
var ErrMissingURL = errors.New("GeoServer REST URL is required")

// Config holds the connection settings for a Client.
type Config struct {
	// URL is the base URL of the REST API, typically ending in
	// /geoserver/rest.
	URL string `mapstructure:"url"`

	// Username and Password are sent with HTTP basic
	// authentication, unless AccessToken is set.
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// SkipSSLVerify disables TLS certificate validation.
	SkipSSLVerify bool `mapstructure:"skip_ssl_verify"`

	// AccessToken, if set, is sent as a bearer token.
	AccessToken string `mapstructure:"access_token"`

	// Retries is the number of times a request is retried.  Zero
	// means the default of 3; negative disables retries.
	Retries int `mapstructure:"retries"`

	// BackoffFactor scales the delay between retries: the nth
	// retry waits BackoffFactor * 2^(n-1) seconds.  Zero means the
	// default of 0.9; negative retries immediately.
	BackoffFactor float64 `mapstructure:"backoff_factor"`

	// Timeout bounds each call, including reading the response
	// and any retries.  Zero means 60 seconds.
	Timeout time.Duration `mapstructure:"timeout"`

	// Clock is used to wait between retries.
	Clock clock.Clock `mapstructure:"-"`

	// Log receives request and retry logging.
	Log *logrus.Entry `mapstructure:"-"`
}

// Default connection settings.
const (
	DefaultUsername      = "admin"
	DefaultPassword      = "geoserver"
	DefaultRetries       = 3
	DefaultBackoffFactor = 0.9
	DefaultTimeout       = 60 * time.Second
)

func (c *Config) setDefaults() {
	if c.Username == "" && c.AccessToken == "" {
		c.Username = DefaultUsername
		if c.Password == "" {
			c.Password = DefaultPassword
		}
	}
	if c.Retries == 0 {
		c.Retries = DefaultRetries
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = DefaultBackoffFactor
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	if c.Log == nil {
		c.Log = logrus.NewEntry(logrus.StandardLogger())
	}
}

// Client is a catalog.Catalog backed by a GeoServer REST API.
type Client struct {
	resource
	Config Config
	HTTP   *http.Client
}

// New creates a new client for the REST API at config.URL.  It does
// not contact the server.
func New(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, ErrMissingURL
	}
	base, err := url.Parse(config.URL)
	if err != nil {
		return nil, err
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.New("GeoServer REST URL must be http or https: " + config.URL)
	}
	// Resource paths are relative to the base
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	config.setDefaults()
	c := &Client{
		resource: resource{URL: base},
		Config:   config,
	}
	c.SetupConnection(config.Retries, config.BackoffFactor)
	return c, nil
}

// SetupConnection replaces the client's HTTP session with one that
// retries failed requests up to retries times, waiting
// backoffFactor * 2^(n-1) seconds before the nth retry.  Only
// HEAD, TRACE, GET, PUT, POST, OPTIONS, and DELETE requests are
// retried, and only on connection errors or HTTP 502, 503, or 504.
// The same session serves both http and https URLs.
func (c *Client) SetupConnection(retries int, backoffFactor float64) {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if c.Config.SkipSSLVerify {
		base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	c.HTTP = &http.Client{
		Transport: &retryTransport{
			Base:          base,
			Retries:       retries,
			BackoffFactor: backoffFactor,
			Clock:         c.Config.Clock,
			Log:           c.Config.Log,
		},
		Timeout: c.Config.Timeout,
	}
}
