package converter

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hanzikit/zhconv/pkg/util"
)

// expandInputs turns the configured input paths into an ordered item
// list. File arguments are taken as-is; directory arguments are
// expanded (one level by default, fully with Recursive) with ignore
// patterns applied against the path relative to that directory. The
// resulting order is the argument order, with directory contents sorted
// lexically for stability.
func expandInputs(opts *Options, logger *slog.Logger) ([]InputItem, error) {
	var items []InputItem
	seen := make(map[string]struct{})

	add := func(absPath, relPath string) {
		if _, dup := seen[absPath]; dup {
			return
		}
		seen[absPath] = struct{}{}
		items = append(items, InputItem{
			Index:   len(items),
			Path:    absPath,
			RelPath: filepath.ToSlash(relPath),
			Kind:    Dispatch(absPath),
		})
	}

	for _, input := range opts.InputPaths {
		absInput, err := filepath.Abs(input)
		if err != nil {
			return nil, fmt.Errorf("%w: resolving input path %q: %v", ErrConfigValidation, input, err)
		}
		info, err := os.Stat(absInput)
		if err != nil {
			return nil, fmt.Errorf("%w: input path %q: %v", ErrConfigValidation, input, err)
		}

		if !info.IsDir() {
			add(absInput, filepath.Base(absInput))
			continue
		}

		var collected []string
		walkErr := filepath.WalkDir(absInput, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(absInput, path)
			if relErr != nil {
				return relErr
			}
			if d.IsDir() {
				if path == absInput {
					return nil
				}
				if !opts.Recursive {
					return fs.SkipDir
				}
				if util.MatchesAnyIgnore(opts.IgnorePatterns, filepath.ToSlash(rel)) {
					logger.Debug("Ignoring directory", "path", rel)
					return fs.SkipDir
				}
				return nil
			}
			if util.MatchesAnyIgnore(opts.IgnorePatterns, filepath.ToSlash(rel)) {
				logger.Debug("Ignoring file", "path", rel)
				return nil
			}
			if strings.HasPrefix(d.Name(), TempFilePrefix) {
				return nil
			}
			collected = append(collected, path)
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("%w: scanning directory %q: %v", ErrConfigValidation, input, walkErr)
		}
		sort.Strings(collected)
		for _, p := range collected {
			rel, _ := filepath.Rel(absInput, p)
			add(p, rel)
		}
	}

	return items, nil
}
