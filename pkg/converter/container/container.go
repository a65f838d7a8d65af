// Package container rewrites Zip-based document formats (Office Open
// XML, OpenDocument, EPUB) by converting the character data of their
// text-bearing XML entries while copying every other entry
// byte-for-byte.
package container

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrCorrupt marks an archive that cannot be opened or whose
	// internal structure (EPUB container.xml, OPF) cannot be resolved.
	ErrCorrupt = errors.New("corrupt archive")
	// ErrMalformedXML marks a text entry that is not well-formed XML.
	// The whole document fails; no output is produced.
	ErrMalformedXML = errors.New("malformed xml entry")
	// ErrUnsupportedCharset marks a text entry that is not encoded in
	// UTF-8. The byte scanner cannot convert such entries, so the whole
	// document fails rather than emitting unconverted output.
	ErrUnsupportedCharset = errors.New("unsupported entry charset")
	// ErrUnknownFormat marks an extension this package has no codec for.
	ErrUnknownFormat = errors.New("unknown container format")
)

// ConvertFunc converts a UTF-8 text fragment.
type ConvertFunc func(string) (string, error)

// Rewrite converts the document at src and writes the result to dst.
// ext selects the codec (".docx", ".epub", ...). dst is written
// completely or not at all is the caller's concern; on error dst may
// hold partial data and should be discarded.
func Rewrite(ctx context.Context, src, dst, ext string, convert ConvertFunc) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer r.Close()

	selector, err := selectorFor(&r.Reader, strings.ToLower(ext))
	if err != nil {
		return err
	}
	return rewriteEntries(ctx, &r.Reader, dst, selector, convert)
}

// Supported reports whether ext has a codec.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".docx", ".xlsx", ".pptx", ".odt", ".ods", ".odp", ".epub":
		return true
	}
	return false
}

func selectorFor(r *zip.Reader, ext string) (func(string) bool, error) {
	switch ext {
	case ".docx":
		return isDocxTextEntry, nil
	case ".xlsx":
		return isXlsxTextEntry, nil
	case ".pptx":
		return isPptxTextEntry, nil
	case ".odt", ".ods", ".odp":
		return isODFTextEntry, nil
	case ".epub":
		return epubSelector(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, ext)
}

// entryExt returns the lower-cased extension of an archive entry name.
func entryExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
