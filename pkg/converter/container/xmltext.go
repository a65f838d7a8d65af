package container

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// ConvertXMLText runs convert over the character data of an XML
// document while leaving all markup bytes untouched. Tags, attributes,
// comments, processing instructions and DOCTYPE declarations pass
// through verbatim; text runs and CDATA content are converted. Entity
// references are ASCII and therefore unaffected by the converter.
//
// The document is validated first: malformed documents return
// ErrMalformedXML, and documents not encoded in UTF-8 (a UTF-16 BOM or
// an XML declaration naming another charset) return
// ErrUnsupportedCharset, since the scanner would otherwise copy their
// text through unconverted.
func ConvertXMLText(raw []byte, convert ConvertFunc) ([]byte, error) {
	if name := declaredCharset(raw); name != "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCharset, name)
	}
	if err := checkWellFormed(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}

	var out bytes.Buffer
	out.Grow(len(raw))
	i := 0
	for i < len(raw) {
		if raw[i] != '<' {
			// Text run: everything up to the next tag open.
			end := bytes.IndexByte(raw[i:], '<')
			if end < 0 {
				end = len(raw) - i
			}
			if err := writeConverted(&out, raw[i:i+end], convert); err != nil {
				return nil, err
			}
			i += end
			continue
		}

		switch {
		case bytes.HasPrefix(raw[i:], []byte("<!--")):
			end := bytes.Index(raw[i:], []byte("-->"))
			if end < 0 {
				end = len(raw) - i
			} else {
				end += len("-->")
			}
			out.Write(raw[i : i+end])
			i += end
		case bytes.HasPrefix(raw[i:], []byte("<![CDATA[")):
			start := i + len("<![CDATA[")
			end := bytes.Index(raw[start:], []byte("]]>"))
			if end < 0 {
				end = len(raw) - start
			}
			out.WriteString("<![CDATA[")
			if err := writeConverted(&out, raw[start:start+end], convert); err != nil {
				return nil, err
			}
			i = start + end
		case bytes.HasPrefix(raw[i:], []byte("<?")):
			end := bytes.Index(raw[i:], []byte("?>"))
			if end < 0 {
				end = len(raw) - i
			} else {
				end += len("?>")
			}
			out.Write(raw[i : i+end])
			i += end
		case bytes.HasPrefix(raw[i:], []byte("<!")):
			// DOCTYPE, possibly with an internal subset in brackets.
			end := doctypeEnd(raw[i:])
			out.Write(raw[i : i+end])
			i += end
		default:
			end := tagEnd(raw[i:])
			out.Write(raw[i : i+end])
			i += end
		}
	}
	return out.Bytes(), nil
}

// writeConverted converts a text span when it is non-trivial UTF-8 and
// writes the result. Pure-ASCII spans (whitespace, entities, markup
// glue) skip the converter call.
func writeConverted(out *bytes.Buffer, span []byte, convert ConvertFunc) error {
	if len(span) == 0 {
		return nil
	}
	if isASCII(span) || !utf8.Valid(span) {
		out.Write(span)
		return nil
	}
	converted, err := convert(string(span))
	if err != nil {
		return fmt.Errorf("converting text run: %w", err)
	}
	out.WriteString(converted)
	return nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// tagEnd returns the length of a tag starting at b[0] == '<', honoring
// quoted attribute values that may contain '>'.
func tagEnd(b []byte) int {
	var quote byte
	for i := 1; i < len(b); i++ {
		c := b[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '>':
			return i + 1
		}
	}
	return len(b)
}

// doctypeEnd returns the length of a "<!...>" declaration, tracking the
// bracket depth of an internal subset.
func doctypeEnd(b []byte) int {
	depth := 0
	for i := 1; i < len(b); i++ {
		switch b[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '>':
			if depth <= 0 {
				return i + 1
			}
		}
	}
	return len(b)
}

// declaredCharset returns the name of a non-UTF-8 charset the document
// announces, or "" when the bytes can be scanned as UTF-8. UTF-16 is
// recognized by BOM or by the null byte next to the opening '<'; other
// charsets by the encoding pseudo-attribute of the XML declaration.
func declaredCharset(raw []byte) string {
	if len(raw) >= 2 {
		if (raw[0] == 0xFE && raw[1] == 0xFF) || (raw[0] == 0xFF && raw[1] == 0xFE) {
			return "utf-16"
		}
		if (raw[0] == '<' && raw[1] == 0x00) || (raw[0] == 0x00 && raw[1] == '<') {
			return "utf-16"
		}
	}
	if !bytes.HasPrefix(raw, []byte("<?xml")) {
		return ""
	}
	end := bytes.Index(raw, []byte("?>"))
	if end < 0 {
		return ""
	}
	decl := raw[:end]
	i := bytes.Index(decl, []byte("encoding"))
	if i < 0 {
		return ""
	}
	rest := decl[i+len("encoding"):]
	rest = bytes.TrimLeft(rest, " \t\r\n")
	if len(rest) == 0 || rest[0] != '=' {
		return ""
	}
	rest = bytes.TrimLeft(rest[1:], " \t\r\n")
	if len(rest) == 0 || (rest[0] != '"' && rest[0] != '\'') {
		return ""
	}
	quote := rest[0]
	closing := bytes.IndexByte(rest[1:], quote)
	if closing < 0 {
		return ""
	}
	name := string(rest[1 : 1+closing])
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8", "us-ascii", "ascii":
		return ""
	}
	return name
}

// checkWellFormed walks the full token stream so structural damage is
// caught before any output is produced.
func checkWellFormed(raw []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.CharsetReader = charset.NewReaderLabel
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
