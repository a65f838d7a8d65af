package converter

import (
	"path/filepath"
	"strings"
)

// Dispatch classifies a path by extension. Container documents and the
// known-binary deny list are matched exactly; every other extension,
// including none at all, falls through to plain text. Classification is
// pure and never touches the filesystem.
func Dispatch(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := containerExtensions[ext]; ok {
		return KindContainer
	}
	if _, ok := unsupportedExtensions[ext]; ok {
		return KindUnsupported
	}
	return KindText
}
