// Package encoding detects the charset of plain-text inputs, decodes
// them to UTF-8, and encodes converted text back into the charset the
// file arrived in.
package encoding

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// Handler performs charset detection and transcoding. The zero default
// encoding means uncertain detections stay on the sniffer's guess.
type Handler struct {
	defaultEncoding string
}

// NewHandler creates a handler. defaultEncoding (an IANA name such as
// "gbk" or "big5") is assumed when detection is uncertain; pass ""
// to keep the sniffer's guess.
func NewHandler(defaultEncoding string) *Handler {
	return &Handler{defaultEncoding: defaultEncoding}
}

// DetectAndDecode sniffs the charset of content and decodes it to
// UTF-8. It returns the text, the canonical charset name used, and
// whether the detection was certain (a BOM, valid UTF-8, or an applied
// configured default).
func (h *Handler) DetectAndDecode(content []byte) (string, string, bool, error) {
	if len(content) == 0 {
		return "", "utf-8", true, nil
	}

	// Valid UTF-8 passes through untouched. The sniffer only reports
	// certainty on a BOM, so check directly first.
	if utf8.Valid(content) {
		return string(bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))), "utf-8", true, nil
	}

	enc, name, certain := charset.DetermineEncoding(content, "")
	if !certain && h.defaultEncoding != "" {
		if fallback, fallbackName := charset.Lookup(h.defaultEncoding); fallback != nil {
			enc, name, certain = fallback, fallbackName, true
		}
	}
	if enc == nil {
		return "", "", false, fmt.Errorf("no decoder for charset %q", name)
	}

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), enc.NewDecoder()))
	if err != nil {
		return "", name, certain, fmt.Errorf("decoding from %s: %w", name, err)
	}
	if !utf8.Valid(decoded) {
		return "", name, certain, fmt.Errorf("decoding from %s produced invalid UTF-8", name)
	}
	return string(decoded), name, certain, nil
}

// Encode converts UTF-8 text into the named charset. Conversion between
// script variants can introduce characters a legacy charset cannot
// represent; that surfaces as an error so the caller can fall back to
// UTF-8.
func (h *Handler) Encode(text string, encodingName string) ([]byte, error) {
	if encodingName == "" || strings.EqualFold(encodingName, "utf-8") {
		return []byte(text), nil
	}
	enc, canonical := charset.Lookup(encodingName)
	if enc == nil {
		return nil, fmt.Errorf("unknown charset %q", encodingName)
	}
	out, err := io.ReadAll(transform.NewReader(strings.NewReader(text), enc.NewEncoder()))
	if err != nil {
		return nil, fmt.Errorf("encoding to %s: %w", canonical, err)
	}
	return out, nil
}
