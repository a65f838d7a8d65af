package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hanzikit/zhconv/pkg/converter/container"
	"github.com/hanzikit/zhconv/pkg/converter/opencc"
)

// processor handles one item end to end: output path resolution,
// dispatch to the text or container pipeline, atomic write. It is
// stateless apart from shared options and is safe for concurrent use.
type processor struct {
	opts   *Options
	logger *slog.Logger
}

func newProcessor(opts *Options, logger *slog.Logger) *processor {
	return &processor{opts: opts, logger: logger.With("component", "processor")}
}

func (p *processor) process(ctx context.Context, item InputItem) ItemResult {
	res := ItemResult{Path: item.Path, Kind: item.Kind}

	if item.Kind == KindUnsupported {
		res.Status = StatusFailed
		res.Error = fmt.Sprintf("%v: %s", ErrUnsupportedType, filepath.Ext(item.Path))
		return res
	}

	outputPath, err := p.resolveOutputPath(item)
	if err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		return res
	}
	res.OutputPath = outputPath

	switch item.Kind {
	case KindText:
		err = p.processText(item, outputPath)
	case KindContainer:
		err = p.processContainer(ctx, item, outputPath)
	default:
		err = fmt.Errorf("%w: unknown kind %q", ErrUnsupportedType, item.Kind)
	}
	if err != nil {
		p.logger.Debug("Item failed", "path", item.Path, "error", err)
		res.Status = StatusFailed
		res.Error = err.Error()
		res.OutputPath = ""
		return res
	}

	res.Status = StatusSuccess
	return res
}

// resolveOutputPath mirrors the item's relative directory structure
// under the output directory. The base name is kept, optionally run
// through the converter, and optionally suffixed before the extension.
// The extension is never converted.
func (p *processor) resolveOutputPath(item InputItem) (string, error) {
	relDir := filepath.Dir(filepath.FromSlash(item.RelPath))
	base := filepath.Base(item.RelPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if p.opts.ConvertFilename && stem != "" {
		converted, err := p.opts.Converter.Convert(stem)
		if err != nil {
			return "", fmt.Errorf("converting output filename for %q: %w", item.Path, err)
		}
		stem = converted
	}
	if p.opts.Suffix != "" {
		stem += p.opts.Suffix
	}

	destDir := filepath.Join(p.opts.OutputPath, relDir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating directory %q: %v", ErrWriteFailed, destDir, err)
	}
	return filepath.Join(destDir, stem+ext), nil
}

func (p *processor) processText(item InputItem, outputPath string) error {
	raw, err := os.ReadFile(item.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadFailed, err)
	}

	text, encodingName, certain, err := p.opts.Encoding.DetectAndDecode(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	if !certain {
		p.logger.Debug("Charset detection uncertain", "path", item.Path, "assumed", encodingName)
	}

	if p.opts.Sanitize {
		text = opencc.Sanitize(text)
	}
	converted, err := p.opts.Converter.Convert(text)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	// Write back in the charset the file came in with; fall back to
	// UTF-8 when the converted text no longer fits it.
	out, err := p.opts.Encoding.Encode(converted, encodingName)
	if err != nil {
		p.logger.Debug("Re-encoding failed, writing UTF-8", "path", item.Path, "charset", encodingName)
		out = []byte(converted)
	}
	return p.writeAtomic(outputPath, out)
}

func (p *processor) processContainer(ctx context.Context, item InputItem, outputPath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), TempFilePattern)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	ext := strings.ToLower(filepath.Ext(item.Path))
	err = container.Rewrite(ctx, item.Path, tmpPath, ext, p.opts.Converter.Convert)
	if err != nil {
		switch {
		case errors.Is(err, container.ErrCorrupt), errors.Is(err, container.ErrMalformedXML):
			return fmt.Errorf("%w: %v", ErrCorruptArchive, err)
		case errors.Is(err, container.ErrUnsupportedCharset):
			return fmt.Errorf("%w: %v", ErrEncoding, err)
		case errors.Is(err, container.ErrUnknownFormat):
			return fmt.Errorf("%w: %v", ErrUnsupportedType, err)
		default:
			return err
		}
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// writeAtomic stages content in a temp file next to the destination and
// renames it into place, so readers never observe a partial output.
func (p *processor) writeAtomic(outputPath string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), TempFilePattern)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}
