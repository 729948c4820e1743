/*
Package features turns text documents into keyword-count feature vectors.

A feature vector has one entry per keyword; entry i counts the whitespace
tokens of the document that contain keyword i as a substring after the token
is lowercased and stripped of trailing punctuation.
*/
package features

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKeywords is returned when a keyword list cannot define a feature space.
var ErrInvalidKeywords = errors.New("invalid keyword list")

// Keywords is the ordered keyword list that defines the feature space.
// Index i of every Vector built from it corresponds to Keywords[i].
type Keywords []string

// Vector holds one non-negative occurrence count per keyword.
type Vector []float64

// defaultKeywords is the spam vocabulary shipped with the filter.
var defaultKeywords = Keywords{
	"free", "win", "money", "offer", "click", "buy", "urgent",
	"reward", "account", "verify", "login", "pin", "selected",
	"limited", "now", "risk", "credit", "deal", "bonus", "gift",
}

// DefaultKeywords returns a copy of the built-in keyword list.
func DefaultKeywords() Keywords {
	out := make(Keywords, len(defaultKeywords))
	copy(out, defaultKeywords)
	return out
}

// Len returns the feature-space dimensionality.
func (k Keywords) Len() int {
	return len(k)
}

// Validate checks that the list is non-empty and every keyword is a
// non-empty lowercase string.
func (k Keywords) Validate() error {
	if len(k) == 0 {
		return fmt.Errorf("%w: list is empty", ErrInvalidKeywords)
	}
	for i, kw := range k {
		if kw == "" {
			return fmt.Errorf("%w: keyword %d is empty", ErrInvalidKeywords, i)
		}
		if kw != strings.ToLower(kw) {
			return fmt.Errorf("%w: keyword %q is not lowercase", ErrInvalidKeywords, kw)
		}
	}
	return nil
}

// Hash returns the SHA256 hex digest of the ordered list. Two lists hash
// equal only if they define the same feature space.
func (k Keywords) Hash() string {
	hash := sha256.Sum256([]byte(strings.Join(k, "\n")))
	return hex.EncodeToString(hash[:])
}
