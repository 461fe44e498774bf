// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"context"
	"errors"

	"github.com/diffeo/go-geoserver/service"
	"github.com/diffeo/go-geoserver/tiler"
	"github.com/urfave/cli"
)

var errNeedPath = errors.New("exactly one input path is required")

var layerFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "workspace",
		Usage: "publish into this workspace, creating it if needed",
	},
	cli.StringFlag{
		Name:  "layer",
		Usage: "name of the layer (and its store)",
	},
}

// prepare creates the workspace if it is absent and deletes any store
// with the layer's name, so the publish starts clean.
func (a *app) prepare(c *cli.Context) (workspace, layer, path string, err error) {
	workspace = c.String("workspace")
	layer = c.String("layer")
	if workspace == "" || layer == "" {
		return "", "", "", errors.New("--workspace and --layer are required")
	}
	if c.NArg() != 1 {
		return "", "", "", errNeedPath
	}
	path = c.Args().First()

	exists, err := a.Service.WorkspaceExists(workspace)
	if err != nil {
		return
	}
	if !exists {
		if r := a.Service.CreateWorkspace(workspace); !r.OK() {
			return "", "", "", r.Err
		}
	}
	if r := a.Service.DeleteStore(workspace, layer); !r.OK() {
		return "", "", "", r.Err
	}
	return
}

func (a *app) publish(f func(workspace, layer, path string) service.Result) func(*cli.Context) error {
	return func(c *cli.Context) error {
		workspace, layer, path, err := a.prepare(c)
		if err != nil {
			return cli.NewExitError(err.Error(), 2)
		}
		return a.print(f(workspace, layer, path))
	}
}

func (a *app) publishShpCommand() cli.Command {
	var charset string
	return cli.Command{
		Name:      "publish-shp",
		Usage:     "publish a shapefile as a vector layer",
		ArgsUsage: "path.shp",
		Flags: append([]cli.Flag{
			cli.StringFlag{
				Name:        "charset",
				Value:       "UTF-8",
				Usage:       "character encoding of the attribute table",
				Destination: &charset,
			},
		}, layerFlags...),
		Action: a.action(a.publish(func(workspace, layer, path string) service.Result {
			return a.Service.CreateShapeLayer(workspace, layer, path, charset)
		})),
	}
}

func (a *app) publishTiffCommand() cli.Command {
	return cli.Command{
		Name:      "publish-tiff",
		Usage:     "publish a GeoTIFF as a raster layer",
		ArgsUsage: "path.tif",
		Flags:     layerFlags,
		Action: a.action(a.publish(func(workspace, layer, path string) service.Result {
			return a.Service.CreateTiffLayer(workspace, layer, path)
		})),
	}
}

func (a *app) publishPyramidCommand() cli.Command {
	var (
		outDir  string
		opts    = tiler.DefaultOptions()
		command cli.StringSlice
	)
	return cli.Command{
		Name:      "publish-pyramid",
		Usage:     "slice a large GeoTIFF into a pyramid and publish it",
		ArgsUsage: "path.tif",
		Flags: append([]cli.Flag{
			cli.StringFlag{
				Name:        "out-dir",
				Usage:       "directory for the pyramid; its contents are replaced",
				Destination: &outDir,
			},
			cli.IntFlag{
				Name:        "levels",
				Value:       opts.Levels,
				Usage:       "number of pyramid levels",
				Destination: &opts.Levels,
			},
			cli.IntFlag{
				Name:        "block-width",
				Value:       opts.BlockWidth,
				Usage:       "tile width in pixels",
				Destination: &opts.BlockWidth,
			},
			cli.IntFlag{
				Name:        "block-height",
				Value:       opts.BlockHeight,
				Usage:       "tile height in pixels",
				Destination: &opts.BlockHeight,
			},
			cli.StringSliceFlag{
				Name:  "tiler-command",
				Usage: "tiling program and leading arguments (default gdal_retile.py)",
				Value: &command,
			},
		}, layerFlags...),
		Action: a.action(a.publish(func(workspace, layer, path string) service.Result {
			if outDir == "" {
				return service.Result{Status: service.Fail, Info: "--out-dir is required"}
			}
			if len(command) > 0 {
				opts.Command = command
			}
			return a.Service.CreatePyramidTiffLayer(context.Background(), workspace, layer, path, outDir, opts)
		})),
	}
}
