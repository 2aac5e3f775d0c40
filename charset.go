package jsonhttp

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Charset is a resolved character encoding: the preferred MIME name used in
// Content-Type parameters plus the encoding that converts body text to and
// from bytes.
type Charset struct {
	name string
	enc  encoding.Encoding
}

// UTF8 is the process-wide default charset, used when a request carries no
// Accept-Charset header and when a Content-Type names no charset parameter.
var UTF8 = mustCharset("UTF-8")

// CharsetByName resolves an IANA charset name or alias, case-insensitively.
// The returned Charset carries the preferred MIME name (e.g. "UTF-8" for
// "utf-8", "ISO-8859-1" for "latin1").
func CharsetByName(name string) (Charset, error) {
	enc, err := ianaindex.MIME.Encoding(name)
	if err != nil || enc == nil {
		return Charset{}, fmt.Errorf("unsupported charset %q", name)
	}
	canonical, err := ianaindex.MIME.Name(enc)
	if err != nil {
		return Charset{}, fmt.Errorf("unsupported charset %q", name)
	}
	return Charset{name: canonical, enc: enc}, nil
}

func mustCharset(name string) Charset {
	c, err := CharsetByName(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the canonical IANA name.
func (c Charset) Name() string { return c.name }

// Encode converts text into bytes in this charset.
func (c Charset) Encode(text string) ([]byte, error) {
	return c.enc.NewEncoder().Bytes([]byte(text))
}

// Decode converts bytes in this charset into text.
func (c Charset) Decode(b []byte) (string, error) {
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (c Charset) String() string { return c.name }
