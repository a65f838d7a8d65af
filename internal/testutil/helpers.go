// Package testutil provides fixtures and fakes shared by the engine and
// CLI tests: a dictionary-free text converter, hook recorders, and Zip
// document builders.
package testutil

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile creates a file with content, creating parent directories as
// needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// ZipEntry is one entry of a fixture archive. Entries are written in
// slice order. Store selects no compression, which EPUB requires for
// its mimetype entry.
type ZipEntry struct {
	Name    string
	Content string
	Store   bool
}

// BuildZip writes a Zip archive with the given entries to path.
func BuildZip(t *testing.T, path string, entries []ZipEntry) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		fh := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		if e.Store {
			fh.Method = zip.Store
		}
		ew, err := w.CreateHeader(fh)
		require.NoError(t, err)
		_, err = ew.Write([]byte(e.Content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// ReadZip returns the entries of the archive at path as a name-to-body
// map plus the entry names in archive order.
func ReadZip(t *testing.T, path string) (map[string]string, []string) {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	contents := make(map[string]string, len(r.File))
	var order []string
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		var body bytes.Buffer
		_, err = body.ReadFrom(rc)
		rc.Close()
		require.NoError(t, err)
		contents[f.Name] = body.String()
		order = append(order, f.Name)
	}
	return contents, order
}

// BuildDocx writes a minimal but structurally valid .docx whose
// document body holds the given paragraphs.
func BuildDocx(t *testing.T, path string, paragraphs ...string) {
	t.Helper()
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	BuildZip(t, path, []ZipEntry{
		{Name: "[Content_Types].xml", Content: `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		{Name: "_rels/.rels", Content: `<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`},
		{Name: "word/document.xml", Content: body.String()},
		{Name: "word/styles.xml", Content: `<?xml version="1.0"?><w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`},
	})
}

// BuildEpub writes a minimal EPUB with one XHTML chapter containing
// chapterText.
func BuildEpub(t *testing.T, path, chapterText string) {
	t.Helper()
	BuildZip(t, path, []ZipEntry{
		{Name: "mimetype", Content: "application/epub+zip", Store: true},
		{Name: "META-INF/container.xml", Content: `<?xml version="1.0"?>` +
			`<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">` +
			`<rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles></container>`},
		{Name: "OEBPS/content.opf", Content: `<?xml version="1.0"?>` +
			`<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="id">` +
			`<metadata/><manifest>` +
			`<item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>` +
			`<item id="css" href="style.css" media-type="text/css"/>` +
			`<item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>` +
			`</manifest><spine toc="ncx"><itemref idref="ch1"/></spine></package>`},
		{Name: "OEBPS/ch1.xhtml", Content: `<?xml version="1.0" encoding="UTF-8"?>` +
			`<html xmlns="http://www.w3.org/1999/xhtml"><head><title>c</title></head><body><p>` + chapterText + `</p></body></html>`},
		{Name: "OEBPS/style.css", Content: "body { margin: 0 }"},
		{Name: "OEBPS/toc.ncx", Content: `<?xml version="1.0"?>` +
			`<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1"><navMap>` +
			`<navPoint id="n1"><navLabel><text>` + chapterText + `</text></navLabel><content src="ch1.xhtml"/></navPoint></navMap></ncx>`},
	})
}
