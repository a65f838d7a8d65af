package container

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

const epubContainerPath = "META-INF/container.xml"

type epubContainer struct {
	Rootfiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Manifest struct {
		Items []struct {
			Href      string `xml:"href,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
}

// epubSelector resolves the publication structure and returns a
// selector for the content documents: every manifest item with an
// HTML-ish media type or extension, plus the NCX navigation file.
// Resolution failures mean the publication is unusable as an EPUB.
func epubSelector(r *zip.Reader) (func(string) bool, error) {
	opfPath, err := epubRootfile(r)
	if err != nil {
		return nil, err
	}

	raw, err := readZipEntry(r, opfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading package document %q: %v", ErrCorrupt, opfPath, err)
	}
	var pkg epubPackage
	if err := xml.Unmarshal(raw, &pkg); err != nil {
		return nil, fmt.Errorf("%w: parsing package document %q: %v", ErrCorrupt, opfPath, err)
	}

	opfDir := path.Dir(opfPath)
	selected := make(map[string]struct{})
	for _, item := range pkg.Manifest.Items {
		if item.Href == "" {
			continue
		}
		if !looksLikeContentDoc(item.MediaType, item.Href) {
			continue
		}
		href := item.Href
		if i := strings.IndexAny(href, "#?"); i >= 0 {
			href = href[:i]
		}
		name := href
		if opfDir != "." {
			name = path.Join(opfDir, href)
		}
		selected[name] = struct{}{}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: no content documents in manifest of %q", ErrCorrupt, opfPath)
	}
	return func(name string) bool {
		_, ok := selected[name]
		return ok
	}, nil
}

func epubRootfile(r *zip.Reader) (string, error) {
	raw, err := readZipEntry(r, epubContainerPath)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrCorrupt, epubContainerPath, err)
	}
	var c epubContainer
	if err := xml.Unmarshal(raw, &c); err != nil {
		return "", fmt.Errorf("%w: parsing %s: %v", ErrCorrupt, epubContainerPath, err)
	}
	for _, rf := range c.Rootfiles {
		if rf.FullPath != "" {
			return rf.FullPath, nil
		}
	}
	return "", fmt.Errorf("%w: %s declares no rootfile", ErrCorrupt, epubContainerPath)
}

// looksLikeContentDoc is deliberately tolerant: real-world EPUBs carry
// sloppy media types, so the extension is accepted as a fallback.
func looksLikeContentDoc(mediaType, href string) bool {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	switch mt {
	case "application/xhtml+xml", "text/html", "application/x-dtbncx+xml":
		return true
	}
	if strings.Contains(mt, "html") {
		return true
	}
	switch entryExt(href) {
	case ".xhtml", ".html", ".htm", ".ncx":
		return true
	}
	return false
}

func readZipEntry(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %q not found", name)
}
