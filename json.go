package jsonhttp

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Codec parses JSON text into generic values and renders values back to
// text. A generic value is the usual encoding/json tree: map[string]any,
// []any, string, json.Number, bool, nil.
type Codec interface {
	Parse(text string) (any, error)
	Render(v any) (string, error)
}

// Marshaler converts between typed values and generic JSON values. The
// typed pipeline decodes request bodies and encodes handler outputs
// through one.
type Marshaler interface {
	Marshal(v any) (any, error)
	Unmarshal(node any, target any) error
}

// DefaultCodec returns the encoding/json backed Codec. Parsed numbers
// survive as json.Number, so rendering a parsed document loses no
// precision.
func DefaultCodec() Codec { return jsonCodec{} }

// DefaultMarshaler returns the encoding/json backed Marshaler.
func DefaultMarshaler() Marshaler { return jsonCodec{} }

// jsonCodec implements both Codec and Marshaler.
type jsonCodec struct{}

func (jsonCodec) Parse(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	// A top-level value followed by anything but whitespace is not a JSON
	// document.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("invalid character after top-level value")
		}
		return nil, err
	}
	return v, nil
}

func (jsonCodec) Render(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (c jsonCodec) Marshal(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return c.Parse(string(b))
}

func (jsonCodec) Unmarshal(node any, target any) error {
	b, err := json.Marshal(node)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, target)
}
