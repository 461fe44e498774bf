// Copyright 2016 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package sld renders and parses the small Styled Layer Descriptor
// documents used as default point, line, and polygon symbology.
//
// Each kind has a parameter struct with documented defaults
// (DefaultPointStyle and friends).  Render takes a free-form
// parameter map, as it would arrive from a configuration file or
// command line, decodes it over those defaults, validates it, and
// produces an SLD 1.0.0 document:
//
//     body, err := sld.Render(sld.Point, map[string]interface{}{
//             "color":        "#FF0000",
//             "transparency": 0.3,
//     })
//
// Parse reads such a document back, and Symbolizer recovers the
// parameters from it.
package sld

import (
	"encoding/xml"
	"errors"
	"math"
	"strconv"
)

// XML namespaces declared on the document root.
const (
	SLDNamespace   = "http://www.opengis.net/sld"
	OGCNamespace   = "http://www.opengis.net/ogc"
	XLinkNamespace = "http://www.w3.org/1999/xlink"
	XSINamespace   = "http://www.w3.org/2001/XMLSchema-instance"
)

// ContentType is the MIME type of an SLD 1.0.0 document.
const ContentType = "application/vnd.ogc.sld+xml"

// StyledLayerDescriptor is the document root.
type StyledLayerDescriptor struct {
	XMLName        xml.Name   `xml:"StyledLayerDescriptor"`
	Version        string     `xml:"version,attr"`
	SchemaLocation string     `xml:"xsi:schemaLocation,attr,omitempty"`
	Xmlns          string     `xml:"xmlns,attr,omitempty"`
	XmlnsOGC       string     `xml:"xmlns:ogc,attr,omitempty"`
	XmlnsXLink     string     `xml:"xmlns:xlink,attr,omitempty"`
	XmlnsXSI       string     `xml:"xmlns:xsi,attr,omitempty"`
	NamedLayer     NamedLayer `xml:"NamedLayer"`
}

// NamedLayer binds a user style to a layer name.
type NamedLayer struct {
	Name      string    `xml:"Name"`
	UserStyle UserStyle `xml:"UserStyle"`
}

// UserStyle holds the feature type styles.
type UserStyle struct {
	Name             string           `xml:"Name,omitempty"`
	FeatureTypeStyle FeatureTypeStyle `xml:"FeatureTypeStyle"`
}

// FeatureTypeStyle is an ordered list of rules.
type FeatureTypeStyle struct {
	Rules []Rule `xml:"Rule"`
}

// Rule holds the symbolizers applied to matching features.  Only one
// of the symbolizers is set in documents produced by this package.
type Rule struct {
	PointSymbolizer   *PointSymbolizer   `xml:"PointSymbolizer,omitempty"`
	LineSymbolizer    *LineSymbolizer    `xml:"LineSymbolizer,omitempty"`
	PolygonSymbolizer *PolygonSymbolizer `xml:"PolygonSymbolizer,omitempty"`
}

// PointSymbolizer draws a graphic at each point.
type PointSymbolizer struct {
	Graphic Graphic `xml:"Graphic"`
}

// Graphic is a sized mark.
type Graphic struct {
	Mark Mark   `xml:"Mark"`
	Size string `xml:"Size"`
}

// Mark is a well-known shape with a fill.
type Mark struct {
	WellKnownName string `xml:"WellKnownName"`
	Fill          *Fill  `xml:"Fill,omitempty"`
}

// LineSymbolizer strokes line geometries.
type LineSymbolizer struct {
	Stroke Stroke `xml:"Stroke"`
}

// PolygonSymbolizer fills and outlines polygons.
type PolygonSymbolizer struct {
	Fill   *Fill   `xml:"Fill,omitempty"`
	Stroke *Stroke `xml:"Stroke,omitempty"`
}

// Fill is a set of fill CSS parameters.
type Fill struct {
	Params []CSSParameter `xml:"CssParameter"`
}

// Stroke is a set of stroke CSS parameters.
type Stroke struct {
	Params []CSSParameter `xml:"CssParameter"`
}

// CSSParameter is one named graphic parameter.
type CSSParameter struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

func param(params []CSSParameter, name string) (string, bool) {
	for _, p := range params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// formatNumber writes v with at most six decimal places and no
// trailing zeros, so that 1-0.3 renders as "0.7".
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}

func parseNumber(kind Kind, name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidParameter{Kind: kind, Name: name, Reason: err.Error()}
	}
	return v, nil
}

// Kind returns Point.
func (s PointStyle) Kind() Kind { return Point }

// Kind returns Line.
func (s LineStyle) Kind() Kind { return Line }

// Kind returns Polygon.
func (s PolygonStyle) Kind() Kind { return Polygon }

func (s PointStyle) rule() Rule {
	return Rule{PointSymbolizer: &PointSymbolizer{
		Graphic: Graphic{
			Mark: Mark{
				WellKnownName: s.Mark,
				Fill: &Fill{Params: []CSSParameter{
					{Name: "fill", Value: s.Color},
					{Name: "fill-opacity", Value: formatNumber(1.0 - s.Transparency)},
				}},
			},
			Size: formatNumber(s.Size),
		},
	}}
}

func (s LineStyle) rule() Rule {
	return Rule{LineSymbolizer: &LineSymbolizer{
		Stroke: Stroke{Params: []CSSParameter{
			{Name: "stroke", Value: s.Color},
			{Name: "stroke-width", Value: formatNumber(s.Width)},
		}},
	}}
}

func (s PolygonStyle) rule() Rule {
	return Rule{PolygonSymbolizer: &PolygonSymbolizer{
		Fill: &Fill{Params: []CSSParameter{
			{Name: "fill", Value: s.FillColor},
		}},
		Stroke: &Stroke{Params: []CSSParameter{
			{Name: "stroke", Value: s.OutlineColor},
			{Name: "stroke-width", Value: formatNumber(s.OutlineWidth)},
		}},
	}}
}

// NewDocument wraps a symbolizer in a complete document.  The named
// layer is called "default_" plus the kind.
func NewDocument(sym Symbolizer) *StyledLayerDescriptor {
	return &StyledLayerDescriptor{
		Version:        "1.0.0",
		SchemaLocation: SLDNamespace + " StyledLayerDescriptor.xsd",
		Xmlns:          SLDNamespace,
		XmlnsOGC:       OGCNamespace,
		XmlnsXLink:     XLinkNamespace,
		XmlnsXSI:       XSINamespace,
		NamedLayer: NamedLayer{
			Name: "default_" + string(sym.Kind()),
			UserStyle: UserStyle{
				FeatureTypeStyle: FeatureTypeStyle{
					Rules: []Rule{sym.rule()},
				},
			},
		},
	}
}

// Encode validates a symbolizer and serializes it as an SLD document.
func Encode(sym Symbolizer) ([]byte, error) {
	if err := sym.Validate(); err != nil {
		return nil, err
	}
	body, err := xml.MarshalIndent(NewDocument(sym), "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// Render decodes params for kind over its defaults and serializes the
// result.  Unknown kinds return ErrUnsupportedStyleType.
func Render(kind Kind, params map[string]interface{}) ([]byte, error) {
	sym, err := Params(kind, params)
	if err != nil {
		return nil, err
	}
	return Encode(sym)
}

// Parse reads an SLD document.
func Parse(data []byte) (*StyledLayerDescriptor, error) {
	doc := &StyledLayerDescriptor{}
	if err := xml.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// errNoSymbolizer is returned from Symbolizer if the document has no
// rule with a point, line, or polygon symbolizer.
var errNoSymbolizer = errors.New("SLD document has no point, line, or polygon symbolizer")

// Symbolizer recovers the style parameters from the first rule of the
// document.  Parameters missing from the document take their
// defaults.
func (d *StyledLayerDescriptor) Symbolizer() (Symbolizer, error) {
	rules := d.NamedLayer.UserStyle.FeatureTypeStyle.Rules
	if len(rules) == 0 {
		return nil, errNoSymbolizer
	}
	rule := rules[0]
	switch {
	case rule.PointSymbolizer != nil:
		return pointFromRule(rule.PointSymbolizer)
	case rule.LineSymbolizer != nil:
		return lineFromRule(rule.LineSymbolizer)
	case rule.PolygonSymbolizer != nil:
		return polygonFromRule(rule.PolygonSymbolizer)
	}
	return nil, errNoSymbolizer
}

func pointFromRule(ps *PointSymbolizer) (Symbolizer, error) {
	var err error
	s := DefaultPointStyle()
	if ps.Graphic.Mark.WellKnownName != "" {
		s.Mark = ps.Graphic.Mark.WellKnownName
	}
	if ps.Graphic.Size != "" {
		s.Size, err = parseNumber(Point, "size", ps.Graphic.Size)
	}
	if err == nil && ps.Graphic.Mark.Fill != nil {
		if v, ok := param(ps.Graphic.Mark.Fill.Params, "fill"); ok {
			s.Color = v
		}
		if v, ok := param(ps.Graphic.Mark.Fill.Params, "fill-opacity"); ok {
			var opacity float64
			opacity, err = parseNumber(Point, "fill-opacity", v)
			s.Transparency = math.Round((1.0-opacity)*1e6) / 1e6
		}
	}
	return s, err
}

func lineFromRule(ls *LineSymbolizer) (Symbolizer, error) {
	var err error
	s := DefaultLineStyle()
	if v, ok := param(ls.Stroke.Params, "stroke"); ok {
		s.Color = v
	}
	if v, ok := param(ls.Stroke.Params, "stroke-width"); ok {
		s.Width, err = parseNumber(Line, "width", v)
	}
	return s, err
}

func polygonFromRule(ps *PolygonSymbolizer) (Symbolizer, error) {
	var err error
	s := DefaultPolygonStyle()
	if ps.Fill != nil {
		if v, ok := param(ps.Fill.Params, "fill"); ok {
			s.FillColor = v
		}
	}
	if ps.Stroke != nil {
		if v, ok := param(ps.Stroke.Params, "stroke"); ok {
			s.OutlineColor = v
		}
		if v, ok := param(ps.Stroke.Params, "stroke-width"); ok {
			s.OutlineWidth, err = parseNumber(Polygon, "outline_width", v)
		}
	}
	return s, err
}
