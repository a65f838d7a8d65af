package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatch(t *testing.T) {
	testCases := []struct {
		path string
		want Kind
	}{
		{"notes.txt", KindText},
		{"README.md", KindText},
		{"Makefile", KindText},
		{"data.csv", KindText},
		{"page.html", KindText},
		{"weird.zhx", KindText}, // unknown extensions default to text
		{"report.docx", KindContainer},
		{"sheet.XLSX", KindContainer},
		{"slides.pptx", KindContainer},
		{"doc.odt", KindContainer},
		{"book.epub", KindContainer},
		{"setup.exe", KindUnsupported},
		{"lib.so", KindUnsupported},
		{"archive.zip", KindUnsupported},
		{"photo.JPG", KindUnsupported},
		{"movie.mp4", KindUnsupported},
		{"paper.pdf", KindUnsupported},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, Dispatch(tc.path))
		})
	}
}
