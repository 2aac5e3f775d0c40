package jsonhttp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/jsonhttp"
)

func TestParseMediaType(t *testing.T) {
	t.Parallel()

	mt, err := jsonhttp.ParseMediaType("application/json; charset=utf-8")
	require.NoError(t, err)

	assert.True(t, mt.Is("application/json"))
	assert.True(t, mt.Is("Application/JSON"), "comparison is case-insensitive")
	assert.False(t, mt.Is("text/plain"))

	charset, ok := mt.Param("charset")
	assert.True(t, ok)
	assert.Equal(t, "utf-8", charset)

	_, ok = mt.Param("boundary")
	assert.False(t, ok)

	assert.Equal(t, "application/json; charset=utf-8", mt.String(), "raw text is preserved for error messages")
}

func TestParseMediaType_malformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "application/json; charset"} {
		_, err := jsonhttp.ParseMediaType(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestAccept_Test(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		header string
		want   bool
	}{
		"exact match":              {header: "application/json", want: true},
		"full wildcard":            {header: "*/*", want: true},
		"subtype wildcard":         {header: "application/*", want: true},
		"different type":           {header: "text/html", want: false},
		"zero quality excluded":    {header: "application/json;q=0", want: false},
		"match among alternatives": {header: "text/html, application/json;q=0.5", want: true},
		"all zero quality":         {header: "application/json;q=0, */*;q=0", want: false},
		"malformed entry skipped":  {header: "???, application/json", want: true},
		"empty header":             {header: "", want: false},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := jsonhttp.ParseAccept(tc.header).Test("application/json")
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAcceptCharset_Charset(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		header string
		want   string
	}{
		"single utf-8":          {header: "utf-8", want: "UTF-8"},
		"single utf-16":         {header: "UTF-16", want: "UTF-16"},
		"wildcard is utf-8":     {header: "*", want: "UTF-8"},
		"highest quality wins":  {header: "iso-8859-1;q=0.8, utf-8", want: "UTF-8"},
		"explicit quality wins": {header: "iso-8859-1;q=0.9, utf-8;q=0.1", want: "ISO-8859-1"},
		"tie keeps first":       {header: "iso-8859-1, utf-8", want: "ISO-8859-1"},
		"unsupported skipped":   {header: "bogus-charset, utf-16", want: "UTF-16"},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cs, err := jsonhttp.ParseAcceptCharset(tc.header).Charset()
			require.NoError(t, err)
			assert.Equal(t, tc.want, cs.Name())
		})
	}
}

func TestAcceptCharset_Charset_unresolvable(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"unknown charset": "bogus-charset",
		"zero quality":    "utf-8;q=0",
		"empty header":    "",
	}

	for name, header := range tests {
		header := header
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := jsonhttp.ParseAcceptCharset(header).Charset()
			require.Error(t, err)
			assert.ErrorIs(t, err, jsonhttp.ErrNotAcceptable)
			assert.Contains(t, err.Error(), "contains no supported charset")
		})
	}
}
