package container

import "strings"

// Text-bearing entries of the Office Open XML and OpenDocument
// formats. Anything not matched is copied through untouched, so styles,
// relationships, media and themes stay byte-identical.

func isDocxTextEntry(name string) bool {
	switch name {
	case "word/document.xml", "word/footnotes.xml", "word/endnotes.xml", "word/comments.xml":
		return true
	}
	if strings.HasPrefix(name, "word/header") && strings.HasSuffix(name, ".xml") {
		return true
	}
	if strings.HasPrefix(name, "word/footer") && strings.HasSuffix(name, ".xml") {
		return true
	}
	return false
}

func isXlsxTextEntry(name string) bool {
	if name == "xl/sharedStrings.xml" {
		return true
	}
	return strings.HasPrefix(name, "xl/worksheets/sheet") && strings.HasSuffix(name, ".xml")
}

func isPptxTextEntry(name string) bool {
	if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
		return true
	}
	return strings.HasPrefix(name, "ppt/notesSlides/notesSlide") && strings.HasSuffix(name, ".xml")
}

// OpenDocument text lives in content.xml; styles.xml carries text in
// headers, footers and master pages.
func isODFTextEntry(name string) bool {
	return name == "content.xml" || name == "styles.xml"
}
