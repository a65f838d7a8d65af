// Package opencc wraps github.com/liuzl/gocc behind the engine's
// TextConverter interface and adds the punctuation and sanitation
// passes that dictionary conversion does not cover.
package opencc

import (
	"fmt"
	"strings"

	"github.com/liuzl/gocc"
)

// Configs lists the supported conversion configurations in display
// order.
var Configs = []string{
	"s2t", "t2s",
	"s2tw", "tw2s",
	"s2twp", "tw2sp",
	"s2hk", "hk2s",
	"t2tw", "tw2t",
	"t2hk", "hk2t",
}

// IsValidConfig reports whether name is a supported configuration.
func IsValidConfig(name string) bool {
	for _, c := range Configs {
		if c == name {
			return true
		}
	}
	return false
}

// Converter performs OpenCC dictionary conversion with optional
// punctuation rewriting. It is safe for concurrent use; gocc lookups
// are read-only after construction.
type Converter struct {
	cc          *gocc.OpenCC
	config      string
	punctuation bool
}

// New loads the dictionaries for the named configuration. With
// punctuation enabled, quotation marks are additionally rewritten to
// the target script's conventional style.
func New(config string, punctuation bool) (*Converter, error) {
	if !IsValidConfig(config) {
		return nil, fmt.Errorf("unknown conversion config %q (supported: %s)",
			config, strings.Join(Configs, " "))
	}
	cc, err := gocc.New(config)
	if err != nil {
		return nil, fmt.Errorf("initializing opencc %q: %w", config, err)
	}
	return &Converter{cc: cc, config: config, punctuation: punctuation}, nil
}

// Config returns the configuration name the converter was built with.
func (c *Converter) Config() string { return c.config }

// Convert translates UTF-8 text between Chinese script variants.
// Empty input returns empty output without touching the dictionaries.
func (c *Converter) Convert(text string) (string, error) {
	if text == "" {
		return "", nil
	}
	out, err := c.cc.Convert(text)
	if err != nil {
		return "", fmt.Errorf("opencc conversion: %w", err)
	}
	if c.punctuation {
		out = ConvertPunctuation(out, TargetsTraditional(c.config))
	}
	return out, nil
}

// TargetsTraditional reports whether a configuration converts into a
// Traditional script variant. Traditional-to-Traditional variants
// (t2tw, t2hk and their inverses) count as Traditional targets.
func TargetsTraditional(config string) bool {
	return !strings.HasSuffix(config, "2s") && !strings.HasSuffix(config, "2sp")
}

var (
	toCornerQuotes = strings.NewReplacer(
		"“", "「",
		"”", "」",
		"‘", "『",
		"’", "』",
	)
	toCurlyQuotes = strings.NewReplacer(
		"「", "“",
		"」", "”",
		"『", "‘",
		"』", "’",
	)
)

// ConvertPunctuation rewrites quotation marks between the curly style
// used with Simplified text and the corner-bracket style used with
// Traditional text.
func ConvertPunctuation(text string, toTraditional bool) string {
	if toTraditional {
		return toCornerQuotes.Replace(text)
	}
	return toCurlyQuotes.Replace(text)
}

// Sanitize removes invisible characters that break dictionary matching
// across word boundaries: zero-width spaces and joiners, word joiners,
// directional marks and byte order marks.
func Sanitize(text string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\u200e', '\u200f', '\u2060', '\ufeff':
			return -1
		}
		return r
	}, text)
}
