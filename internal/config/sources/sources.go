/*
Package sources resolves the keyword list used for feature extraction.

Supported sources, highest precedence first:
  - --keywords flag (comma separated)
  - --keywords-file flag
  - keywordsFile in the config
  - keywords in the config
  - built-in defaults
*/
package sources

import (
	"fmt"

	"github.com/khanglvm/spam-perceptron/internal/config"
	"github.com/khanglvm/spam-perceptron/internal/features"
)

// Source represents one place a keyword list can come from.
type Source interface {
	// Name returns the source identifier (e.g., "flag", "defaults").
	Name() string

	// Keywords returns the list. Returns nil if the source is not set.
	Keywords() (features.Keywords, error)
}

// Result is the outcome of Resolve.
type Result struct {
	// Source names where the keywords came from.
	Source string

	Keywords features.Keywords
}

// ForConfig returns the sources for cfg in precedence order. flagList and
// flagFile are the raw --keywords and --keywords-file values.
func ForConfig(cfg *config.Config, flagList, flagFile string) []Source {
	return []Source{
		NewInlineSource("flag", flagList),
		NewFileSource("flag-file", flagFile),
		NewFileSource("config-file", cfg.KeywordsFile),
		NewListSource("config", cfg.Keywords),
		NewDefaultSource(),
	}
}

// Resolve returns the keywords of the first source that is set.
func Resolve(srcs []Source) (*Result, error) {
	for _, src := range srcs {
		kw, err := src.Keywords()
		if err != nil {
			return nil, fmt.Errorf("keywords from %s: %w", src.Name(), err)
		}
		if len(kw) > 0 {
			return &Result{Source: src.Name(), Keywords: kw}, nil
		}
	}
	return nil, fmt.Errorf("%w: no keyword source configured", features.ErrInvalidKeywords)
}
