// Copyright 2015 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"encoding/xml"
	"io"
	"mime"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/ugorji/go/codec"
)

// mediaType reduces a Content-Type header to its canonical media
// type.  JSON variants become JSONMediaType and XML variants become
// XMLMediaType.
func mediaType(contentType string) (string, error) {
	if contentType == "" {
		// RFC 7231 section 3.1.1.5
		contentType = "application/octet-stream"
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", err
	}
	switch mediaType {
	case "text/json", "application/json":
		return JSONMediaType, nil
	case "text/xml", "application/xml":
		return XMLMediaType, nil
	}
	return mediaType, nil
}

// Decode decodes an object from a reader, such as an HTTP request or
// response, according to its content type.  out must be a pointer
// type.  JSON is decoded as is, without unwrapping any envelope.
func Decode(contentType string, r io.Reader, out interface{}) error {
	mt, err := mediaType(contentType)
	if err != nil {
		return err
	}
	switch mt {
	case JSONMediaType:
		json := &codec.JsonHandle{}
		decoder := codec.NewDecoder(r, json)
		return decoder.Decode(out)
	case XMLMediaType:
		return xml.NewDecoder(r).Decode(out)
	default:
		return ErrUnsupportedMediaType{Type: mt}
	}
}

// decodeMap decodes a JSON object into a generic map.
func decodeMap(contentType string, r io.Reader) (map[string]interface{}, error) {
	mt, err := mediaType(contentType)
	if err != nil {
		return nil, err
	}
	if mt != JSONMediaType {
		return nil, ErrUnsupportedMediaType{Type: mt}
	}
	json := &codec.JsonHandle{}
	json.MapType = reflect.TypeOf(map[string]interface{}(nil))
	var m map[string]interface{}
	err = codec.NewDecoder(r, json).Decode(&m)
	return m, err
}

// geoserverHook smooths over GeoServer's JSON quirks: an empty
// string stands in for an empty object, and a single object may
// stand in for a one-element list.
func geoserverHook(from, to reflect.Kind, data interface{}) (interface{}, error) {
	if from == reflect.String && data == "" {
		switch to {
		case reflect.Struct, reflect.Map:
			return map[string]interface{}{}, nil
		case reflect.Slice:
			return []interface{}{}, nil
		}
	}
	if from == reflect.Map && to == reflect.Slice {
		return []interface{}{data}, nil
	}
	return data, nil
}

// decodeValue copies a generic decoded value into out, honoring
// the json struct tags of the types in this package.
func decodeValue(in interface{}, out interface{}) error {
	config := mapstructure.DecoderConfig{
		DecodeHook:       geoserverHook,
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err != nil {
		return err
	}
	return decoder.Decode(in)
}

// DecodeEnvelope decodes a single-resource JSON envelope such as
// {"workspace": {...}}, storing the wrapped object in out.  If key is
// absent, returns ErrMissingKey.
func DecodeEnvelope(contentType string, r io.Reader, key string, out interface{}) error {
	m, err := decodeMap(contentType, r)
	if err != nil {
		return err
	}
	inner, present := m[key]
	if !present {
		return ErrMissingKey{Key: key}
	}
	return decodeValue(inner, out)
}

// DecodeList decodes a list envelope such as {"workspaces":
// {"workspace": [...]}}, returning the links it contains.
func DecodeList(contentType string, r io.Reader, outer, inner string) ([]Link, error) {
	m, err := decodeMap(contentType, r)
	if err != nil {
		return nil, err
	}
	wrapper, present := m[outer]
	if !present {
		return nil, ErrMissingKey{Key: outer}
	}
	var list map[string][]Link
	if err = decodeValue(wrapper, &list); err != nil {
		return nil, err
	}
	return list[inner], nil
}

// Envelope wraps a single resource for encoding.
func Envelope(key string, v interface{}) map[string]interface{} {
	return map[string]interface{}{key: v}
}

// ListEnvelope wraps a list of links for encoding.  An empty list is
// encoded the way GeoServer does it, as an empty string.
func ListEnvelope(outer, inner string, links []Link) map[string]interface{} {
	if len(links) == 0 {
		return map[string]interface{}{outer: ""}
	}
	return map[string]interface{}{
		outer: map[string]interface{}{inner: links},
	}
}

// EncodeJSON writes v to w as JSON.
func EncodeJSON(w io.Writer, v interface{}) error {
	json := &codec.JsonHandle{}
	return codec.NewEncoder(w, json).Encode(v)
}

// EncodeXML returns the XML serialization of a request body.
func EncodeXML(v interface{}) ([]byte, error) {
	return xml.Marshal(v)
}
