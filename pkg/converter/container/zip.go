package container

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
)

// rewriteEntries streams every entry of r into a new archive at dst.
// Entries matched by selector have their XML character data converted;
// everything else is copied with its raw compressed bytes, so entry
// order, compression method and metadata survive unchanged. EPUB keeps
// its stored mimetype first because the copy preserves position.
func rewriteEntries(ctx context.Context, r *zip.Reader, dst string, selector func(string) bool, convert ConvertFunc) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating output archive: %w", err)
	}
	defer out.Close()

	w := zip.NewWriter(out)
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			w.Close()
			return err
		}
		if !selector(f.Name) || f.FileInfo().IsDir() {
			if err := w.Copy(f); err != nil {
				w.Close()
				return fmt.Errorf("copying entry %q: %w", f.Name, err)
			}
			continue
		}
		if err := rewriteEntry(w, f, convert); err != nil {
			w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing output archive: %w", err)
	}
	return out.Sync()
}

func rewriteEntry(w *zip.Writer, f *zip.File, convert ConvertFunc) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: opening entry %q: %v", ErrCorrupt, f.Name, err)
	}
	raw, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("%w: reading entry %q: %v", ErrCorrupt, f.Name, err)
	}

	converted, err := ConvertXMLText(raw, convert)
	if err != nil {
		return fmt.Errorf("entry %q: %w", f.Name, err)
	}

	// Reuse the original header but clear sizes and checksum so the
	// writer recomputes them for the new content.
	fh := f.FileHeader
	fh.CRC32 = 0
	fh.CompressedSize = 0
	fh.CompressedSize64 = 0
	fh.UncompressedSize = 0
	fh.UncompressedSize64 = 0
	ew, err := w.CreateHeader(&fh)
	if err != nil {
		return fmt.Errorf("writing entry %q: %w", f.Name, err)
	}
	if _, err := ew.Write(converted); err != nil {
		return fmt.Errorf("writing entry %q: %w", f.Name, err)
	}
	return nil
}
