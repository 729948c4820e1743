package sources

import (
	"strings"

	"github.com/khanglvm/spam-perceptron/internal/config"
	"github.com/khanglvm/spam-perceptron/internal/features"
)

// DefaultSource yields features.DefaultKeywords.
type DefaultSource struct{}

// NewDefaultSource creates the built-in keyword source.
func NewDefaultSource() *DefaultSource {
	return &DefaultSource{}
}

// Name returns the source identifier.
func (s *DefaultSource) Name() string {
	return "defaults"
}

// Keywords returns the built-in list.
func (s *DefaultSource) Keywords() (features.Keywords, error) {
	return features.DefaultKeywords(), nil
}

// InlineSource parses a comma separated list such as "free,money,win".
type InlineSource struct {
	name string
	raw  string
}

// NewInlineSource creates a source from a comma separated list.
func NewInlineSource(name, raw string) *InlineSource {
	return &InlineSource{name: name, raw: raw}
}

// Name returns the source identifier.
func (s *InlineSource) Name() string {
	return s.name
}

// Keywords parses the list. An empty string means the source is unset.
func (s *InlineSource) Keywords() (features.Keywords, error) {
	if strings.TrimSpace(s.raw) == "" {
		return nil, nil
	}
	return config.ParseKeywordList(s.raw)
}

// ListSource wraps an already split list, e.g. the config's keywords array.
type ListSource struct {
	name string
	list []string
}

// NewListSource creates a source from a list.
func NewListSource(name string, list []string) *ListSource {
	return &ListSource{name: name, list: list}
}

// Name returns the source identifier.
func (s *ListSource) Name() string {
	return s.name
}

// Keywords normalizes the list. An empty list means the source is unset.
func (s *ListSource) Keywords() (features.Keywords, error) {
	if len(s.list) == 0 {
		return nil, nil
	}
	return config.NormalizeKeywords(s.list)
}
