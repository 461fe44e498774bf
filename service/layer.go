// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package service

import (
	"context"

	"github.com/diffeo/go-geoserver/catalog"
	"github.com/diffeo/go-geoserver/shapefile"
	"github.com/diffeo/go-geoserver/tiler"
	"github.com/sirupsen/logrus"
)

// GetStore retrieves a data or coverage store, or nil if it does not
// exist.
func (s *Service) GetStore(workspace, name string) (*catalog.Store, error) {
	store, err := s.Catalog.Store(workspace, name)
	if err != nil {
		return nil, absent(err)
	}
	return store, nil
}

// StoreExists checks whether a store exists.
func (s *Service) StoreExists(workspace, name string) (bool, error) {
	store, err := s.GetStore(workspace, name)
	return store != nil, err
}

// DeleteStore deletes a store and the layers published from it.
// Deleting an absent store succeeds without doing anything.
func (s *Service) DeleteStore(workspace, name string) Result {
	fields := logrus.Fields{"workspace": workspace, "store": name}
	exists, err := s.StoreExists(workspace, name)
	if err != nil {
		return s.report("delete store", fields, fail("cannot check store", err))
	}
	if !exists {
		return succeed(nil)
	}
	if err = s.Catalog.DeleteStore(workspace, name, true); err != nil {
		return s.report("delete store", fields, fail("cannot delete store", err))
	}
	return s.report("delete store", fields, succeed(nil))
}

// GetLayer retrieves a layer, or nil if it does not exist.
func (s *Service) GetLayer(workspace, name string) (*catalog.Layer, error) {
	layer, err := s.Catalog.Layer(workspace, name)
	if err != nil {
		return nil, absent(err)
	}
	return layer, nil
}

// LayerExists checks whether a layer exists.
func (s *Service) LayerExists(workspace, name string) (bool, error) {
	layer, err := s.GetLayer(workspace, name)
	return layer != nil, err
}

// DeleteLayer deletes a layer and the resource behind it.  Deleting
// an absent layer succeeds without doing anything.
func (s *Service) DeleteLayer(workspace, name string) Result {
	fields := logrus.Fields{"workspace": workspace, "layer": name}
	exists, err := s.LayerExists(workspace, name)
	if err != nil {
		return s.report("delete layer", fields, fail("cannot check layer", err))
	}
	if !exists {
		return succeed(nil)
	}
	if err = s.Catalog.DeleteLayer(workspace, name, true); err != nil {
		return s.report("delete layer", fields, fail("cannot delete layer", err))
	}
	return s.report("delete layer", fields, succeed(nil))
}

// checkNewLayer verifies that workspace exists and layer does not.
// It returns a failing result if either check fails.
func (s *Service) checkNewLayer(workspace, layer string) (Result, bool) {
	exists, err := s.WorkspaceExists(workspace)
	if err != nil {
		return fail("cannot check workspace", err), false
	}
	if !exists {
		return fail("workspace does not exist: "+workspace, nil), false
	}
	exists, err = s.LayerExists(workspace, layer)
	if err != nil {
		return fail("cannot check layer", err), false
	}
	if exists {
		return fail("layer already exists: "+layer, nil), false
	}
	return Result{}, true
}

// published fetches a newly created layer for a successful result.
func (s *Service) published(workspace, name string) Result {
	layer, err := s.Catalog.Layer(workspace, name)
	if err != nil {
		return fail("cannot read published layer", err)
	}
	return succeed(LayerData{Layer: layer, DefaultStyle: layer.DefaultStyle})
}

// CreateShapeLayer publishes the shapefile at shapePath as a layer.
// The workspace must exist and the layer must not.  charset is the
// character encoding of the attribute table, such as "UTF-8".  On
// success Data is a LayerData.
func (s *Service) CreateShapeLayer(workspace, layer, shapePath, charset string) Result {
	fields := logrus.Fields{"workspace": workspace, "layer": layer, "path": shapePath}
	if r, ok := s.checkNewLayer(workspace, layer); !ok {
		return s.report("create shape layer", fields, r)
	}
	bundle, err := shapefile.Load(shapePath)
	if err == nil {
		_, err = s.Catalog.CreateFeatureStore(workspace, layer, bundle, charset, true)
	}
	if err != nil {
		return s.report("create shape layer", fields, fail("file parse error", err))
	}
	return s.report("create shape layer", fields, s.published(workspace, layer))
}

// CreateTiffLayer publishes a GeoTIFF file as a layer.  The workspace
// must exist and the layer must not.  On success Data is a
// LayerData.
func (s *Service) CreateTiffLayer(workspace, layer, tiffPath string) Result {
	return s.createRasterLayer("create tiff layer", workspace, layer, tiffPath, catalog.GeoTIFF)
}

func (s *Service) createRasterLayer(op, workspace, layer, path string, storeType catalog.CoverageStoreType) Result {
	fields := logrus.Fields{"workspace": workspace, "layer": layer, "path": path}
	if r, ok := s.checkNewLayer(workspace, layer); !ok {
		return s.report(op, fields, r)
	}
	opts := catalog.DefaultCoverageStoreOptions()
	opts.Type = storeType
	opts.LayerName = layer
	if _, _, err := s.Catalog.CreateCoverageStore(workspace, layer, path, opts); err != nil {
		return s.report(op, fields, fail("file parse error", err))
	}
	return s.report(op, fields, s.published(workspace, layer))
}

// pyramidTiler returns a tiler with opts, taking any unset option
// from the service's tiler.
func (s *Service) pyramidTiler(opts tiler.Options) *tiler.Tiler {
	base := tiler.DefaultOptions()
	if s.Tiler != nil {
		base = s.Tiler.Options
	}
	if opts.Levels <= 0 {
		opts.Levels = base.Levels
	}
	if opts.BlockWidth <= 0 {
		opts.BlockWidth = base.BlockWidth
	}
	if opts.BlockHeight <= 0 {
		opts.BlockHeight = base.BlockHeight
	}
	if len(opts.Command) == 0 {
		opts.Command = base.Command
	}
	t := tiler.New(opts)
	t.Log = s.logger()
	return t
}

// CreatePyramidTiff slices the raster at tiffPath into a tile pyramid
// in outDir, which is emptied first.  This blocks until the tiling
// command finishes.  Unset fields of opts come from s.Tiler.
func (s *Service) CreatePyramidTiff(ctx context.Context, tiffPath, outDir string, opts tiler.Options) error {
	if err := tiler.PrepareDir(outDir); err != nil {
		return err
	}
	return s.pyramidTiler(opts).Retile(ctx, tiffPath, outDir)
}

// CreatePyramidTiffLayer slices a large raster into a pyramid in
// outDir, then publishes the pyramid as an ImagePyramid layer.  If
// slicing fails nothing is published.
func (s *Service) CreatePyramidTiffLayer(ctx context.Context, workspace, layer, tiffPath, outDir string, opts tiler.Options) Result {
	if err := s.CreatePyramidTiff(ctx, tiffPath, outDir, opts); err != nil {
		fields := logrus.Fields{"workspace": workspace, "layer": layer, "path": tiffPath}
		return s.report("create pyramid layer", fields, fail("slicing error", err))
	}
	return s.createRasterLayer("create pyramid layer", workspace, layer, outDir, catalog.ImagePyramid)
}
