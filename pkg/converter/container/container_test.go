package container_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanzikit/zhconv/internal/testutil"
	"github.com/hanzikit/zhconv/pkg/converter/container"
)

func convert(s string) (string, error) {
	r := strings.NewReplacer("简", "簡", "体", "體", "转", "轉", "换", "換")
	return r.Replace(s), nil
}

func TestSupported(t *testing.T) {
	for _, ext := range []string{".docx", ".xlsx", ".pptx", ".odt", ".ods", ".odp", ".epub"} {
		assert.True(t, container.Supported(ext), ext)
	}
	assert.False(t, container.Supported(".txt"))
	assert.False(t, container.Supported(".zip"))
}

func TestRewriteDocx(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.docx")
	dst := filepath.Join(dir, "out.docx")
	testutil.BuildDocx(t, src, "简体转换")

	require.NoError(t, container.Rewrite(context.Background(), src, dst, ".docx", convert))

	srcEntries, srcOrder := testutil.ReadZip(t, src)
	dstEntries, dstOrder := testutil.ReadZip(t, dst)

	// Same entry set in the same order.
	assert.Equal(t, srcOrder, dstOrder)

	assert.Contains(t, dstEntries["word/document.xml"], "簡體轉換")
	// Entries outside the text set stay byte-identical.
	assert.Equal(t, srcEntries["word/styles.xml"], dstEntries["word/styles.xml"])
	assert.Equal(t, srcEntries["_rels/.rels"], dstEntries["_rels/.rels"])
}

func TestRewriteDocxMalformedEntryFailsWholeItem(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.docx")
	dst := filepath.Join(dir, "out.docx")
	testutil.BuildZip(t, src, []testutil.ZipEntry{
		{Name: "word/document.xml", Content: "<w:document><w:body><w:p>broken"},
		{Name: "word/styles.xml", Content: "<styles/>"},
	})

	err := container.Rewrite(context.Background(), src, dst, ".docx", convert)
	assert.ErrorIs(t, err, container.ErrMalformedXML)
}

func TestRewriteNotAZip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.docx")
	testutil.WriteFile(t, src, "plain bytes, not an archive")

	err := container.Rewrite(context.Background(), src, filepath.Join(dir, "out.docx"), ".docx", convert)
	assert.ErrorIs(t, err, container.ErrCorrupt)
}

func TestRewriteUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.weird")
	testutil.BuildZip(t, src, []testutil.ZipEntry{{Name: "x", Content: "y"}})

	err := container.Rewrite(context.Background(), src, filepath.Join(dir, "out.weird"), ".weird", convert)
	assert.ErrorIs(t, err, container.ErrUnknownFormat)
}

func TestRewriteEpub(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.epub")
	dst := filepath.Join(dir, "out.epub")
	testutil.BuildEpub(t, src, "简体")

	require.NoError(t, container.Rewrite(context.Background(), src, dst, ".epub", convert))

	entries, order := testutil.ReadZip(t, dst)
	// The mimetype entry must stay first for EPUB readers.
	require.NotEmpty(t, order)
	assert.Equal(t, "mimetype", order[0])
	assert.Equal(t, "application/epub+zip", entries["mimetype"])

	assert.Contains(t, entries["OEBPS/ch1.xhtml"], "簡體")
	assert.Contains(t, entries["OEBPS/toc.ncx"], "簡體")

	srcEntries, _ := testutil.ReadZip(t, src)
	assert.Equal(t, srcEntries["OEBPS/style.css"], entries["OEBPS/style.css"])
	assert.Equal(t, srcEntries["OEBPS/content.opf"], entries["OEBPS/content.opf"])
}

func TestRewriteEpubMissingContainerXML(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.epub")
	testutil.BuildZip(t, src, []testutil.ZipEntry{
		{Name: "mimetype", Content: "application/epub+zip", Store: true},
		{Name: "ch1.xhtml", Content: "<html/>"},
	})

	err := container.Rewrite(context.Background(), src, filepath.Join(dir, "out.epub"), ".epub", convert)
	assert.ErrorIs(t, err, container.ErrCorrupt)
}

func TestRewriteOdt(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.odt")
	dst := filepath.Join(dir, "out.odt")
	testutil.BuildZip(t, src, []testutil.ZipEntry{
		{Name: "mimetype", Content: "application/vnd.oasis.opendocument.text", Store: true},
		{Name: "content.xml", Content: `<?xml version="1.0"?><office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"><office:body><text:p xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">简体</text:p></office:body></office:document-content>`},
		{Name: "styles.xml", Content: `<?xml version="1.0"?><office:document-styles xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"/>`},
		{Name: "meta.xml", Content: `<?xml version="1.0"?><meta/>`},
	})

	require.NoError(t, container.Rewrite(context.Background(), src, dst, ".odt", convert))

	entries, _ := testutil.ReadZip(t, dst)
	assert.Contains(t, entries["content.xml"], "簡體")

	srcEntries, _ := testutil.ReadZip(t, src)
	assert.Equal(t, srcEntries["meta.xml"], entries["meta.xml"])
}

func TestRewriteXlsxSharedStrings(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.xlsx")
	dst := filepath.Join(dir, "out.xlsx")
	testutil.BuildZip(t, src, []testutil.ZipEntry{
		{Name: "xl/sharedStrings.xml", Content: `<?xml version="1.0"?><sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><si><t>简体</t></si></sst>`},
		{Name: "xl/worksheets/sheet1.xml", Content: `<?xml version="1.0"?><worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData/></worksheet>`},
		{Name: "xl/theme/theme1.xml", Content: `<?xml version="1.0"?><theme/>`},
	})

	require.NoError(t, container.Rewrite(context.Background(), src, dst, ".xlsx", convert))

	entries, _ := testutil.ReadZip(t, dst)
	assert.Contains(t, entries["xl/sharedStrings.xml"], "簡體")

	srcEntries, _ := testutil.ReadZip(t, src)
	assert.Equal(t, srcEntries["xl/theme/theme1.xml"], entries["xl/theme/theme1.xml"])
}
