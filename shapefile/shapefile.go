// Copyright 2016 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package shapefile gathers the sibling files of an ESRI shapefile so
// they can be shipped to a catalog as one zip archive.
//
// A shapefile is really several files sharing a base name: the .shp
// geometry, the .shx index, the .dbf attribute table, and optionally
// a .prj projection and a .cpg code page.
package shapefile

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RequiredExtensions lists the files that must be present.
var RequiredExtensions = []string{".shp", ".shx", ".dbf"}

// OptionalExtensions lists the files that are included if present.
var OptionalExtensions = []string{".prj", ".cpg"}

// ErrMissingComponent is returned from Load when one of the required
// sibling files does not exist.
type ErrMissingComponent struct {
	Path string
	Ext  string
}

func (err ErrMissingComponent) Error() string {
	return fmt.Sprintf("Shapefile %v is missing its %v file", err.Path, err.Ext)
}

// Bundle holds the contents of a shapefile's sibling files.
type Bundle struct {
	// Name is the shared base name, without directory or
	// extension.
	Name string

	// Files maps lower-case extension, including the dot, to
	// file contents.
	Files map[string][]byte
}

// Load reads a shapefile and its siblings.  path may name the .shp
// file or the base name without any extension.
func Load(path string) (*Bundle, error) {
	base := path
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		base = strings.TrimSuffix(path, filepath.Ext(path))
	}

	bundle := &Bundle{
		Name:  filepath.Base(base),
		Files: make(map[string][]byte),
	}
	for _, ext := range RequiredExtensions {
		data, err := readSibling(base, ext)
		if os.IsNotExist(err) {
			return nil, ErrMissingComponent{Path: base, Ext: ext}
		} else if err != nil {
			return nil, err
		}
		bundle.Files[ext] = data
	}
	for _, ext := range OptionalExtensions {
		data, err := readSibling(base, ext)
		if os.IsNotExist(err) {
			continue
		} else if err != nil {
			return nil, err
		}
		bundle.Files[ext] = data
	}
	return bundle, nil
}

// readSibling reads base+ext, also trying an upper-case extension.
func readSibling(base, ext string) ([]byte, error) {
	data, err := ioutil.ReadFile(base + ext)
	if os.IsNotExist(err) {
		data, err = ioutil.ReadFile(base + strings.ToUpper(ext))
	}
	return data, err
}

// WriteZip writes the bundle as a zip archive with one entry per
// file, each named after the bundle.
func (b *Bundle) WriteZip(w io.Writer) error {
	exts := make([]string, 0, len(b.Files))
	for ext := range b.Files {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	zw := zip.NewWriter(w)
	for _, ext := range exts {
		fw, err := zw.Create(b.Name + ext)
		if err != nil {
			return err
		}
		if _, err = fw.Write(b.Files[ext]); err != nil {
			return err
		}
	}
	return zw.Close()
}

// Zip returns the bundle as an in-memory zip archive.
func (b *Bundle) Zip() ([]byte, error) {
	var buf bytes.Buffer
	err := b.WriteZip(&buf)
	return buf.Bytes(), err
}

// FromZip rebuilds a bundle from a zip archive such as one produced
// by Zip.  Directory entries and files with unrelated extensions are
// ignored.  The archive must contain a .shp file.
func FromZip(data []byte) (*Bundle, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	bundle := &Bundle{Files: make(map[string][]byte)}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(f.Name)
		ext := strings.ToLower(filepath.Ext(name))
		if !known(ext) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		contents, err := ioutil.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		bundle.Files[ext] = contents
		if ext == ".shp" {
			bundle.Name = strings.TrimSuffix(name, filepath.Ext(name))
		}
	}
	for _, ext := range RequiredExtensions {
		if _, present := bundle.Files[ext]; !present {
			return nil, ErrMissingComponent{Path: "zip archive", Ext: ext}
		}
	}
	return bundle, nil
}

func known(ext string) bool {
	for _, e := range RequiredExtensions {
		if e == ext {
			return true
		}
	}
	for _, e := range OptionalExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// GeometryType is the kind of geometry a shapefile holds, simplified
// to what matters for choosing a style.
type GeometryType string

const (
	// Point covers point and multipoint shapes.
	Point GeometryType = "point"

	// Line covers polyline shapes.
	Line GeometryType = "line"

	// Polygon covers polygon shapes.
	Polygon GeometryType = "polygon"

	// Unknown is anything else, including null shapes.
	Unknown GeometryType = "generic"
)

// shpFileCode is the big-endian magic number at the start of every
// .shp and .shx file.
const shpFileCode = 9994

// ShapeType reads the shape type code from the .shp header.  This is
// a little-endian integer at byte offset 32.
func (b *Bundle) ShapeType() (int32, error) {
	shp := b.Files[".shp"]
	if len(shp) < 100 {
		return 0, fmt.Errorf("Shapefile %v header is too short", b.Name)
	}
	if code := binary.BigEndian.Uint32(shp[0:4]); code != shpFileCode {
		return 0, fmt.Errorf("Shapefile %v has bad file code %d", b.Name, code)
	}
	return int32(binary.LittleEndian.Uint32(shp[32:36])), nil
}

// GeometryType classifies the bundle's shape type.  Z and M variants
// are folded into their plain counterparts.
func (b *Bundle) GeometryType() (GeometryType, error) {
	shapeType, err := b.ShapeType()
	if err != nil {
		return Unknown, err
	}
	switch shapeType {
	case 1, 8, 11, 18, 21, 28:
		return Point, nil
	case 3, 13, 23:
		return Line, nil
	case 5, 15, 25:
		return Polygon, nil
	default:
		return Unknown, nil
	}
}

// Header builds a minimal 100-byte .shp header for shapeType.  The
// same layout serves as a .shx header.  This is enough for Bundle
// consumers that only inspect the header, and is mostly useful in
// tests.
func Header(shapeType int32) []byte {
	header := make([]byte, 100)
	binary.BigEndian.PutUint32(header[0:4], shpFileCode)
	// file length in 16-bit words, big-endian
	binary.BigEndian.PutUint32(header[24:28], 50)
	binary.LittleEndian.PutUint32(header[28:32], 1000)
	binary.LittleEndian.PutUint32(header[32:36], uint32(shapeType))
	return header
}
