// Copyright 2016 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package sld

import (
	"fmt"
	"regexp"

	"github.com/mitchellh/mapstructure"
)

// Kind is a symbology kind.
type Kind string

const (
	// Point styles render point geometries as marks.
	Point Kind = "point"

	// Line styles render line geometries as strokes.
	Line Kind = "line"

	// Polygon styles render polygons as a fill and an outline.
	Polygon Kind = "polygon"
)

// ParseKind converts a style type name to a Kind.  "polyline" is
// accepted as a synonym for "line".  Any other name returns
// ErrUnsupportedStyleType.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "point":
		return Point, nil
	case "line", "polyline":
		return Line, nil
	case "polygon":
		return Polygon, nil
	}
	return "", ErrUnsupportedStyleType{Kind: name}
}

// ErrUnsupportedStyleType is returned for a style kind other than
// point, line, polyline, or polygon.
type ErrUnsupportedStyleType struct {
	Kind string
}

func (err ErrUnsupportedStyleType) Error() string {
	return fmt.Sprintf("Unsupported style type %q", err.Kind)
}

// ErrInvalidParameter is returned when a style parameter is out of
// range or malformed.
type ErrInvalidParameter struct {
	Kind   Kind
	Name   string
	Reason string
}

func (err ErrInvalidParameter) Error() string {
	return fmt.Sprintf("Invalid %v style parameter %v: %v", err.Kind, err.Name, err.Reason)
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func checkColor(kind Kind, name, color string) error {
	if !colorPattern.MatchString(color) {
		return ErrInvalidParameter{Kind: kind, Name: name, Reason: fmt.Sprintf("%q is not a #RRGGBB color", color)}
	}
	return nil
}

func checkPositive(kind Kind, name string, value float64) error {
	if value <= 0 {
		return ErrInvalidParameter{Kind: kind, Name: name, Reason: "must be positive"}
	}
	return nil
}

// Marks lists the well-known mark names a point style may use.
var Marks = []string{"circle", "rectangle", "star"}

// PointStyle holds the parameters of a point style.
type PointStyle struct {
	// Mark is the well-known mark name, one of Marks.
	Mark string `mapstructure:"type"`

	// Color is the fill color as #RRGGBB.
	Color string `mapstructure:"color"`

	// Transparency ranges from 0 (opaque) to 1 (invisible).
	Transparency float64 `mapstructure:"transparency"`

	// Size is the mark size in pixels.
	Size float64 `mapstructure:"size"`
}

// DefaultPointStyle returns a 1-pixel opaque black circle.
func DefaultPointStyle() PointStyle {
	return PointStyle{Mark: "circle", Color: "#000000", Transparency: 0, Size: 1}
}

// Validate checks that every parameter is in range.
func (s PointStyle) Validate() error {
	known := false
	for _, mark := range Marks {
		if s.Mark == mark {
			known = true
		}
	}
	if !known {
		return ErrInvalidParameter{Kind: Point, Name: "type", Reason: fmt.Sprintf("unknown mark %q", s.Mark)}
	}
	if err := checkColor(Point, "color", s.Color); err != nil {
		return err
	}
	if s.Transparency < 0 || s.Transparency > 1 {
		return ErrInvalidParameter{Kind: Point, Name: "transparency", Reason: "must be between 0 and 1"}
	}
	return checkPositive(Point, "size", s.Size)
}

// LineStyle holds the parameters of a line style.
type LineStyle struct {
	// Color is the stroke color as #RRGGBB.
	Color string `mapstructure:"color"`

	// Width is the stroke width in pixels.
	Width float64 `mapstructure:"width"`
}

// DefaultLineStyle returns a 1-pixel black stroke.
func DefaultLineStyle() LineStyle {
	return LineStyle{Color: "#000000", Width: 1}
}

// Validate checks that every parameter is in range.
func (s LineStyle) Validate() error {
	if err := checkColor(Line, "color", s.Color); err != nil {
		return err
	}
	return checkPositive(Line, "width", s.Width)
}

// PolygonStyle holds the parameters of a polygon style.
type PolygonStyle struct {
	FillColor    string  `mapstructure:"fill_color"`
	OutlineColor string  `mapstructure:"outline_color"`
	OutlineWidth float64 `mapstructure:"outline_width"`
}

// DefaultPolygonStyle returns a grey fill with a 1-pixel black
// outline.
func DefaultPolygonStyle() PolygonStyle {
	return PolygonStyle{FillColor: "#AAAAAA", OutlineColor: "#000000", OutlineWidth: 1}
}

// Validate checks that every parameter is in range.
func (s PolygonStyle) Validate() error {
	if err := checkColor(Polygon, "fill_color", s.FillColor); err != nil {
		return err
	}
	if err := checkColor(Polygon, "outline_color", s.OutlineColor); err != nil {
		return err
	}
	return checkPositive(Polygon, "outline_width", s.OutlineWidth)
}

// Symbolizer is implemented by the per-kind parameter structs.
type Symbolizer interface {
	Kind() Kind
	Validate() error
	rule() Rule
}

// Params decodes a parameter map for kind over that kind's defaults.
// Keys that are absent keep their default values; keys that do not
// belong to the kind are an error.  Numeric values may be given as
// numbers or numeric strings.
func Params(kind Kind, params map[string]interface{}) (Symbolizer, error) {
	var (
		result  interface{}
		decoded func() Symbolizer
	)
	switch kind {
	case Point:
		s := DefaultPointStyle()
		result, decoded = &s, func() Symbolizer { return s }
	case Line:
		s := DefaultLineStyle()
		result, decoded = &s, func() Symbolizer { return s }
	case Polygon:
		s := DefaultPolygonStyle()
		result, decoded = &s, func() Symbolizer { return s }
	default:
		return nil, ErrUnsupportedStyleType{Kind: string(kind)}
	}

	config := mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           result,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err == nil {
		err = decoder.Decode(params)
	}
	if err != nil {
		return nil, ErrInvalidParameter{Kind: kind, Name: "params", Reason: err.Error()}
	}

	sym := decoded()
	if err = sym.Validate(); err != nil {
		return nil, err
	}
	return sym, nil
}
