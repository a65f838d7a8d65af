package container

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upperCJK fakes conversion by mapping a few Simplified characters to
// their Traditional forms, leaving everything else alone.
func fakeConvert(s string) (string, error) {
	r := strings.NewReplacer("简", "簡", "体", "體", "报", "報", "告", "告")
	return r.Replace(s), nil
}

func TestConvertXMLTextConvertsOnlyCharacterData(t *testing.T) {
	in := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://example.invalid/简"><w:body>` +
		`<w:p><w:r><w:t xml:space="preserve">简体</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	out, err := ConvertXMLText([]byte(in), fakeConvert)
	require.NoError(t, err)
	got := string(out)

	assert.Contains(t, got, ">簡體<")
	// Attribute values and tag names stay untouched, including CJK in
	// a namespace URI.
	assert.Contains(t, got, `xmlns:w="http://example.invalid/简"`)
	assert.Contains(t, got, `xml:space="preserve"`)
}

func TestConvertXMLTextPreservesCommentsAndPIs(t *testing.T) {
	in := `<?xml version="1.0"?><!-- 简体 comment --><root><?pi 简?><a>简</a></root>`
	out, err := ConvertXMLText([]byte(in), fakeConvert)
	require.NoError(t, err)
	got := string(out)

	assert.Contains(t, got, "<!-- 简体 comment -->")
	assert.Contains(t, got, "<?pi 简?>")
	assert.Contains(t, got, "<a>簡</a>")
}

func TestConvertXMLTextConvertsCDATA(t *testing.T) {
	in := `<root><![CDATA[简体 <raw> 文本]]></root>`
	out, err := ConvertXMLText([]byte(in), fakeConvert)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<![CDATA[簡體 <raw> 文本]]>")
}

func TestConvertXMLTextHandlesQuotedAngleBrackets(t *testing.T) {
	in := `<root><a title="a > b">简</a></root>`
	out, err := ConvertXMLText([]byte(in), fakeConvert)
	require.NoError(t, err)
	got := string(out)
	assert.Contains(t, got, `title="a > b"`)
	assert.Contains(t, got, ">簡<")
}

func TestConvertXMLTextPassesEntitiesThrough(t *testing.T) {
	in := `<root>简&amp;体 &lt;tag&gt;</root>`
	out, err := ConvertXMLText([]byte(in), fakeConvert)
	require.NoError(t, err)
	assert.Contains(t, string(out), "簡&amp;體 &lt;tag&gt;")
}

func TestConvertXMLTextRejectsMalformed(t *testing.T) {
	testCases := []string{
		`<root><unclosed></root>`,
		`<root>`,
		`no markup at all <`,
		`<root><a></b></root>`,
	}
	for _, in := range testCases {
		_, err := ConvertXMLText([]byte(in), fakeConvert)
		assert.ErrorIs(t, err, ErrMalformedXML, in)
	}
}

func TestConvertXMLTextRejectsNonUTF8Entries(t *testing.T) {
	t.Run("declared charset", func(t *testing.T) {
		in := `<?xml version="1.0" encoding="UTF-16"?><root>text</root>`
		_, err := ConvertXMLText([]byte(in), fakeConvert)
		assert.ErrorIs(t, err, ErrUnsupportedCharset)

		in = `<?xml version='1.0' encoding='gbk'?><root>text</root>`
		_, err = ConvertXMLText([]byte(in), fakeConvert)
		assert.ErrorIs(t, err, ErrUnsupportedCharset)
	})
	t.Run("utf-16 BOM", func(t *testing.T) {
		_, err := ConvertXMLText([]byte{0xFF, 0xFE, '<', 0x00, 'r', 0x00}, fakeConvert)
		assert.ErrorIs(t, err, ErrUnsupportedCharset)
	})
	t.Run("utf-16 without BOM", func(t *testing.T) {
		_, err := ConvertXMLText([]byte{'<', 0x00, 'r', 0x00, '>', 0x00}, fakeConvert)
		assert.ErrorIs(t, err, ErrUnsupportedCharset)
	})
	t.Run("utf-8 declaration accepted", func(t *testing.T) {
		in := `<?xml version="1.0" encoding="UTF-8"?><root>简</root>`
		out, err := ConvertXMLText([]byte(in), fakeConvert)
		require.NoError(t, err)
		assert.Contains(t, string(out), "簡")
	})
}

func TestConvertXMLTextIdenticalWhenNoCJK(t *testing.T) {
	in := `<?xml version="1.0"?><root attr="v"><a>ascii only</a><!-- c --></root>`
	out, err := ConvertXMLText([]byte(in), fakeConvert)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}
