// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Geopublish publishes shapefiles and rasters to GeoServer and manages
// the workspaces, stores, layers, and styles around them.  Typical
// use:
//
//     geopublish --url http://localhost:8080/geoserver/rest \
//         publish-tiff --workspace gis --layer dem /data/dem.tif
//
// Connection settings come from flags, from GEOSERVER_* environment
// variables, or from a YAML file named with --config:
//
//     url: http://localhost:8080/geoserver/rest
//     username: admin
//     password: geoserver
//     retries: 5
//     timeout: 2m
//
// Flags override the file.  Every command prints its result as YAML
// and exits non-zero if the operation failed.
package main

import (
	"io"
	"os"

	"github.com/diffeo/go-geoserver/backend"
	"github.com/diffeo/go-geoserver/cache"
	"github.com/diffeo/go-geoserver/service"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v2"
)

// app holds the state shared by all commands.
type app struct {
	Backend backend.Backend
	Service *service.Service
	Out     io.Writer
}

// setup builds the service from the global flags.
func (a *app) setup(c *cli.Context) error {
	level, err := logrus.ParseLevel(c.GlobalString("log-level"))
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	config, err := loadConfig(c)
	if err != nil {
		return err
	}
	cat, err := a.Backend.Catalog(config)
	if err != nil {
		return err
	}
	a.Service = service.New(cache.New(cat, cache.Options{}))
	return nil
}

// print writes a result as YAML, returning an error that sets the
// exit status if it failed.
func (a *app) print(r service.Result) error {
	out, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	if _, err = a.Out.Write(out); err != nil {
		return err
	}
	if !r.OK() {
		return cli.NewExitError("", 1)
	}
	return nil
}

// printValue writes an arbitrary value as YAML.
func (a *app) printValue(v interface{}) error {
	out, err := yaml.Marshal(v)
	if err == nil {
		_, err = a.Out.Write(out)
	}
	return err
}

// action adapts a command body to cli.ActionFunc, setting up the
// service first.
func (a *app) action(f func(c *cli.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if err := a.setup(c); err != nil {
			logrus.WithFields(logrus.Fields{
				"err": err,
			}).Error("could not set up catalog")
			return cli.NewExitError(err.Error(), 2)
		}
		return f(c)
	}
}

func newApp(out io.Writer) *cli.App {
	a := &app{
		Backend: backend.Backend{Implementation: "rest"},
		Out:     out,
	}

	ca := cli.NewApp()
	ca.Name = "geopublish"
	ca.Usage = "publish data to GeoServer"
	ca.Writer = out
	ca.Flags = []cli.Flag{
		cli.GenericFlag{
			Name:  "backend",
			Value: &a.Backend,
			Usage: "impl[:address] of the catalog (rest or memory)",
		},
		cli.StringFlag{
			Name:   "url",
			Usage:  "GeoServer REST URL",
			EnvVar: "GEOSERVER_URL",
		},
		cli.StringFlag{
			Name:   "username",
			Usage:  "GeoServer user name",
			EnvVar: "GEOSERVER_USER",
		},
		cli.StringFlag{
			Name:   "password",
			Usage:  "GeoServer password",
			EnvVar: "GEOSERVER_PASSWORD",
		},
		cli.StringFlag{
			Name:   "access-token",
			Usage:  "bearer token, instead of a user name and password",
			EnvVar: "GEOSERVER_ACCESS_TOKEN",
		},
		cli.BoolFlag{
			Name:   "skip-ssl-verify",
			Usage:  "do not validate TLS certificates",
			EnvVar: "GEOSERVER_SKIP_SSL_VERIFY",
		},
		cli.IntFlag{
			Name:  "retries",
			Usage: "retry transient failures this many times",
		},
		cli.Float64Flag{
			Name:  "backoff-factor",
			Usage: "seconds to wait before the first retry, doubling after",
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "give up on a call after this long",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "YAML file with connection settings",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "warning",
			Usage: "log messages at this level and above",
		},
	}
	ca.Commands = []cli.Command{
		a.publishShpCommand(),
		a.publishTiffCommand(),
		a.publishPyramidCommand(),
		a.workspaceCommand(),
		a.storeCommand(),
		a.layerCommand(),
		a.styleCommand(),
	}
	return ca
}

func main() {
	// Failed operations exit through cli.OsExiter with their
	// own status
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("geopublish failed")
	}
}
