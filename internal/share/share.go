// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package share encodes documents into self-contained URLs for the browser
// editor and decodes them back. Content is zlib-compressed at the best
// compression level and carried as unpadded URL-safe base64 in the content
// query parameter, next to compressed=1 and the original filename.
package share

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

const (
	paramContent    = "content"
	paramCompressed = "compressed"
	paramFilename   = "filename"
)

// ErrNotShareURL is returned by Decode for URLs without a content parameter.
var ErrNotShareURL = errors.New("not a share URL: missing content parameter")

// Encode compresses content and returns it as unpadded URL-safe base64.
func Encode(content string) (string, error) {
	compressed, err := compress(content)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(compressed), nil
}

// BuildURL returns base with the encoded content, the compressed flag, and
// filename appended as query parameters. Existing query parameters on base
// are kept.
func BuildURL(base, filename, content string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base URL %q: %w", base, err)
	}
	encoded, err := Encode(content)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set(paramContent, encoded)
	q.Set(paramCompressed, "1")
	q.Set(paramFilename, filename)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Shared is the payload recovered from a share URL.
type Shared struct {
	Filename string
	Content  string
}

// Decode extracts the document carried by a share URL. A compressed value
// of "0" means the content is plain base64 text; anything else is treated as
// zlib data. Padded and unpadded base64 are both accepted.
func Decode(rawURL string) (Shared, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Shared{}, fmt.Errorf("parsing share URL: %w", err)
	}
	q := u.Query()
	encoded := q.Get(paramContent)
	if encoded == "" {
		return Shared{}, ErrNotShareURL
	}

	data, err := decodeBase64(encoded)
	if err != nil {
		return Shared{}, fmt.Errorf("decoding content: %w", err)
	}

	if q.Get(paramCompressed) != "0" {
		data, err = decompress(data)
		if err != nil {
			return Shared{}, fmt.Errorf("decompressing content: %w", err)
		}
	}

	return Shared{Filename: q.Get(paramFilename), Content: string(data)}, nil
}

// Info describes how well a document compresses for sharing.
type Info struct {
	Size           int
	CompressedSize int
	// Ratio is the percentage saved by compression.
	Ratio float64
	Lines int
}

// Describe computes size, compression and line statistics for content.
func Describe(content string) (Info, error) {
	compressed, err := compress(content)
	if err != nil {
		return Info{}, err
	}
	info := Info{
		Size:           len(content),
		CompressedSize: len(compressed),
		Lines:          countLines(content),
	}
	if info.Size > 0 {
		info.Ratio = (1 - float64(info.CompressedSize)/float64(info.Size)) * 100
	}
	return info, nil
}

func compress(content string) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("creating compressor: %w", err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		return nil, fmt.Errorf("compressing content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compressing content: %w", err)
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")
	s = strings.NewReplacer("+", "-", "/", "_").Replace(s)
	return base64.RawURLEncoding.DecodeString(s)
}

// countLines counts lines the way Python's str.splitlines does: "\r\n" and
// each of \n \r \v \f \x1c \x1d \x1e \x85 \u2028 \u2029 end a line, a
// trailing break does not start a new line, and empty content has no lines.
func countLines(s string) int {
	n := 0
	open := false
	for i, r := range s {
		switch r {
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				continue
			}
			n++
			open = false
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			n++
			open = false
		default:
			open = true
		}
	}
	if open {
		n++
	}
	return n
}
