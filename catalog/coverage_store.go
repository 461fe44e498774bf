// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package catalog

import (
	"path/filepath"
	"strings"
)

// CoverageStoreType names a raster driver.
type CoverageStoreType string

// The raster driver kinds a coverage store may be created with.
const (
	ImageMosaic      CoverageStoreType = "ImageMosaic"
	GeoTIFF          CoverageStoreType = "GeoTIFF"
	Gtopo30          CoverageStoreType = "Gtopo30"
	WorldImage       CoverageStoreType = "WorldImage"
	AIG              CoverageStoreType = "AIG"
	ArcGrid          CoverageStoreType = "ArcGrid"
	DTED             CoverageStoreType = "DTED"
	EHdr             CoverageStoreType = "EHdr"
	ERDASImg         CoverageStoreType = "ERDASImg"
	ENVIHdr          CoverageStoreType = "ENVIHdr"
	GeoPackageMosaic CoverageStoreType = "GeoPackage (mosaic)"
	NITF             CoverageStoreType = "NITF"
	RPFTOC           CoverageStoreType = "RPFTOC"
	RST              CoverageStoreType = "RST"
	VRT              CoverageStoreType = "VRT"
	ImagePyramid     CoverageStoreType = "ImagePyramid"
)

// CoverageStoreTypes lists every allowed coverage store type.
var CoverageStoreTypes = []CoverageStoreType{
	ImageMosaic, GeoTIFF, Gtopo30, WorldImage, AIG, ArcGrid, DTED,
	EHdr, ERDASImg, ENVIHdr, GeoPackageMosaic, NITF, RPFTOC, RST,
	VRT, ImagePyramid,
}

// Valid returns true if t is one of CoverageStoreTypes.
func (t CoverageStoreType) Valid() bool {
	for _, allowed := range CoverageStoreTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

// FileExtension returns the file upload extension for the type, as
// used in ".../file.{ext}" upload endpoints.
func (t CoverageStoreType) FileExtension() string {
	return strings.ToLower(string(t))
}

// CoverageStoreTypeForExtension finds the type whose FileExtension
// is ext, ignoring case.
func CoverageStoreTypeForExtension(ext string) (CoverageStoreType, bool) {
	for _, t := range CoverageStoreTypes {
		if strings.EqualFold(t.FileExtension(), ext) {
			return t, true
		}
	}
	return "", false
}

// CoverageStoreOptions controls CreateCoverageStore.
//
// In reference mode (UploadData false) the store points at the path
// as a "file:" URL on the catalog host.  If CreateLayer is set, a
// second request publishes a coverage named LayerName from the
// raster SourceName; both default to the base name of the path
// without its extension.
//
// In upload mode (UploadData true) the file at the path is sent as
// the request body with ContentType, and the catalog configures the
// first coverage it finds.
type CoverageStoreOptions struct {
	Type        CoverageStoreType
	CreateLayer bool
	LayerName   string
	SourceName  string
	UploadData  bool
	ContentType string
	Overwrite   bool
}

// DefaultCoverageStoreOptions returns options for a GeoTIFF store
// referenced by path, publishing a layer.
func DefaultCoverageStoreOptions() CoverageStoreOptions {
	return CoverageStoreOptions{
		Type:        GeoTIFF,
		CreateLayer: true,
		ContentType: "image/tiff",
	}
}

// Validate checks the options and path for a new coverage store.
// It returns ErrInvalidArgument for a missing or unknown type and
// ErrMissingPath for an empty path.
func (opts CoverageStoreOptions) Validate(path string) error {
	if path == "" {
		return ErrMissingPath
	}
	if opts.Type == "" {
		return ErrInvalidArgument{Argument: "type", Reason: "Type must be declared"}
	}
	if !opts.Type.Valid() {
		names := make([]string, len(CoverageStoreTypes))
		for i, t := range CoverageStoreTypes {
			names[i] = string(t)
		}
		return ErrInvalidArgument{
			Argument: "type",
			Reason:   "Type must be one of " + strings.Join(names, ", "),
		}
	}
	return nil
}

// Names returns the layer and source names to publish for a raster
// at path, applying the defaults described on CoverageStoreOptions.
// A layer name of the form "workspace:layer" loses its prefix.
func (opts CoverageStoreOptions) Names(path string) (layerName, sourceName string) {
	base := filepath.Base(strings.TrimPrefix(path, "file:"))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	layerName = opts.LayerName
	if i := strings.LastIndex(layerName, ":"); i >= 0 {
		layerName = layerName[i+1:]
	}
	if layerName == "" {
		layerName = base
	}
	sourceName = opts.SourceName
	if sourceName == "" {
		sourceName = base
	}
	return
}

// FileURL returns path as a "file:" URL, leaving it unchanged if it
// already is one.
func FileURL(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path
}
