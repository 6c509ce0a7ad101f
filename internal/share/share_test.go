// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package share

import (
	"encoding/base64"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	content := strings.Repeat(`2024-01-01 INFO {"message":"hello"}`+"\n", 50)

	raw, err := BuildURL("http://localhost:5000", "app.log", content)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "1", q.Get("compressed"))
	assert.Equal(t, "app.log", q.Get("filename"))

	encoded := q.Get("content")
	assert.NotContains(t, encoded, "=")
	assert.NotContains(t, encoded, "+")
	assert.NotContains(t, encoded, "/")

	shared, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "app.log", shared.Filename)
	assert.Equal(t, content, shared.Content)
}

func TestBuildURL_KeepsExistingQuery(t *testing.T) {
	raw, err := BuildURL("https://editor.example.com/app?theme=dark", "a.txt", "x")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "dark", u.Query().Get("theme"))
	assert.Equal(t, "/app", u.Path)
}

func TestDecode(t *testing.T) {
	plain := base64.StdEncoding.EncodeToString([]byte("plain text"))

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr error
		errMsg  string
	}{
		{
			name: "uncompressed padded base64",
			url:  "http://host/?compressed=0&content=" + url.QueryEscape(plain),
			want: "plain text",
		},
		{
			name:    "missing content",
			url:     "http://host/?filename=x",
			wantErr: ErrNotShareURL,
		},
		{
			name:   "invalid base64",
			url:    "http://host/?content=%21%21%21",
			errMsg: "decoding content",
		},
		{
			name:   "not zlib data",
			url:    "http://host/?compressed=1&content=" + base64.RawURLEncoding.EncodeToString([]byte("nope")),
			errMsg: "decompressing content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.url)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got.Content)
			}
		})
	}
}

func TestEncode_Empty(t *testing.T) {
	encoded, err := Encode("")
	require.NoError(t, err)
	assert.NotEmpty(t, encoded, "zlib framing is present even for empty input")

	shared, err := Decode("http://host/?content=" + encoded)
	require.NoError(t, err)
	assert.Equal(t, "", shared.Content)
}

func TestDescribe(t *testing.T) {
	info, err := Describe(strings.Repeat("aaaa\n", 100))
	require.NoError(t, err)
	assert.Equal(t, 500, info.Size)
	assert.Equal(t, 100, info.Lines)
	assert.Less(t, info.CompressedSize, info.Size)
	assert.Greater(t, info.Ratio, 50.0)

	empty, err := Describe("")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Lines)
	assert.Equal(t, 0.0, empty.Ratio)

	assert.Equal(t, 2, countLines("a\nb"))
	assert.Equal(t, 2, countLines("a\nb\n"))
}

func TestCountLines_Separators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"no break", "abc", 1},
		{"crlf is one break", "a\r\nb\r\n", 2},
		{"lone carriage return", "a\rb", 2},
		{"blank lines", "\n\n", 2},
		{"vertical tab and form feed", "a\vb\fc", 3},
		{"file group record separators", "a\x1cb\x1dc\x1ed", 4},
		{"next line", "a\u0085b", 2},
		{"unicode line and paragraph separators", "a\u2028b\u2029c", 3},
		{"trailing unicode separator", "a\u2028", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, countLines(tt.input))
		})
	}
}
