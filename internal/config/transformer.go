package config

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/khanglvm/spam-perceptron/internal/features"
)

// NormalizeKeywords trims and lowercases every keyword, dropping blanks.
//
// Examples:
//   - " FREE " → "free"
//   - "Click-Here" → "click-here"
//
// A keyword containing whitespace can never match a token and is rejected, as
// is a list that ends up empty.
func NormalizeKeywords(raw []string) (features.Keywords, error) {
	kw := make(features.Keywords, 0, len(raw))
	for _, k := range raw {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if strings.IndexFunc(k, unicode.IsSpace) >= 0 {
			return nil, fmt.Errorf("%w: keyword %q contains whitespace", features.ErrInvalidKeywords, k)
		}
		kw = append(kw, k)
	}

	if len(kw) == 0 {
		return nil, fmt.Errorf("%w: no keywords given", features.ErrInvalidKeywords)
	}
	return kw, nil
}

// ParseKeywordList splits a comma separated list ("free, money,WIN") and
// normalizes it.
func ParseKeywordList(s string) (features.Keywords, error) {
	return NormalizeKeywords(strings.Split(s, ","))
}

// normalizeList is NormalizeKeywords without the error cases, used on
// loaded configs before validation reports them.
func normalizeList(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, k := range raw {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
