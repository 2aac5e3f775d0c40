package jsonhttp

import (
	"fmt"
	"mime"
	"strconv"
	"strings"
)

// Header names the pipelines read and write.
const (
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	HeaderAccept        = "Accept"
	HeaderAcceptCharset = "Accept-Charset"

	// XContentTypeName appears on every successful typed response and holds
	// the simple runtime type name of the value serialized into the body.
	XContentTypeName = "X-Content-Type-Name"
)

// ContentTypeJSON is the media type both pipelines consume and produce.
const ContentTypeJSON = "application/json"

// ContentTypeText is the media type of diagnostic (stack trace) bodies.
const ContentTypeText = "text/plain"

// MediaType is a parsed media type header value. The raw text is kept so
// error messages can echo exactly what the client sent.
type MediaType struct {
	raw    string
	typ    string
	params map[string]string
}

// ParseMediaType parses a Content-Type style header value.
func ParseMediaType(raw string) (MediaType, error) {
	typ, params, err := mime.ParseMediaType(raw)
	if err != nil {
		return MediaType{}, fmt.Errorf("media type %q: %w", raw, err)
	}
	return MediaType{raw: raw, typ: typ, params: params}, nil
}

// Is reports whether the type/subtype equals other, ignoring parameters
// such as charset. The comparison is case-insensitive.
func (m MediaType) Is(other string) bool {
	return m.typ == strings.ToLower(other)
}

// Param returns the named parameter value, e.g. the charset.
func (m MediaType) Param(name string) (string, bool) {
	v, ok := m.params[strings.ToLower(name)]
	return v, ok
}

func (m MediaType) String() string { return m.raw }

// Accept is a parsed Accept header.
type Accept struct {
	raw     string
	entries []acceptEntry
}

type acceptEntry struct {
	typ     string
	sub     string
	quality float64
}

// ParseAccept parses an Accept header value. Malformed entries are skipped
// rather than failing the whole header.
func ParseAccept(raw string) Accept {
	a := Accept{raw: raw}
	for _, part := range strings.Split(raw, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		typ, sub, ok := strings.Cut(mediaType, "/")
		if !ok {
			continue
		}
		a.entries = append(a.entries, acceptEntry{typ: typ, sub: sub, quality: qValue(params)})
	}
	return a
}

// Test reports whether the header accepts the given media type. Wildcard
// entries match; entries with a zero q-value never do.
func (a Accept) Test(mediaType string) bool {
	typ, sub, _ := strings.Cut(strings.ToLower(mediaType), "/")
	for _, e := range a.entries {
		if e.quality <= 0 {
			continue
		}
		if e.typ == "*" && e.sub == "*" {
			return true
		}
		if e.typ == typ && (e.sub == "*" || e.sub == sub) {
			return true
		}
	}
	return false
}

func (a Accept) String() string { return a.raw }

// AcceptCharset is a parsed Accept-Charset header.
type AcceptCharset struct {
	raw     string
	entries []charsetEntry
}

type charsetEntry struct {
	name    string
	quality float64
}

// ParseAcceptCharset parses an Accept-Charset header value.
func ParseAcceptCharset(raw string) AcceptCharset {
	ac := AcceptCharset{raw: raw}
	for _, part := range strings.Split(raw, ",") {
		name, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ac.entries = append(ac.entries, charsetEntry{name: name, quality: qValue(params)})
	}
	return ac
}

// Charset resolves the best supported charset named by the header,
// preferring higher q-values and earlier entries on a tie. The wildcard
// resolves to UTF-8. When no entry resolves the returned error wraps
// ErrNotAcceptable; this signals a negotiation defect rather than a client
// error and is never mapped to an HTTP status by the pipelines.
func (ac AcceptCharset) Charset() (Charset, error) {
	var best Charset
	quality := -1.0

	for _, e := range ac.entries {
		if e.quality <= 0 || e.quality <= quality {
			continue
		}
		if e.name == "*" {
			best, quality = UTF8, e.quality
			continue
		}
		c, err := CharsetByName(e.name)
		if err != nil {
			continue
		}
		best, quality = c, e.quality
	}

	if quality < 0 {
		return Charset{}, fmt.Errorf("%w: Accept-Charset %q contains no supported charset", ErrNotAcceptable, ac.raw)
	}
	return best, nil
}

func (ac AcceptCharset) String() string { return ac.raw }

// jsonContentType renders the success Content-Type value, e.g.
// "application/json; charset=UTF-8".
func jsonContentType(cs Charset) string {
	return ContentTypeJSON + "; charset=" + cs.Name()
}

func qValue(params map[string]string) float64 {
	q := 1.0
	if qs, ok := params["q"]; ok {
		if parsed, err := strconv.ParseFloat(qs, 64); err == nil {
			q = parsed
		}
	}
	return q
}
