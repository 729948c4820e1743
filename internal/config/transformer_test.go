package config

import (
	"errors"
	"reflect"
	"testing"

	"github.com/khanglvm/spam-perceptron/internal/features"
)

func TestNormalizeKeywords(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    features.Keywords
		wantErr bool
	}{
		{"lowercase", []string{"FREE", "Money"}, features.Keywords{"free", "money"}, false},
		{"trim", []string{"  win ", "\tprize\n"}, features.Keywords{"win", "prize"}, false},
		{"drop blanks", []string{"", "gift", "   "}, features.Keywords{"gift"}, false},
		{"keep punctuation", []string{"Click-Here", "$$$"}, features.Keywords{"click-here", "$$$"}, false},
		{"keep duplicates", []string{"free", "FREE"}, features.Keywords{"free", "free"}, false},
		{"inner whitespace", []string{"click here"}, nil, true},
		{"all blank", []string{"", " "}, nil, true},
		{"nil", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeKeywords(tt.input)
			if tt.wantErr {
				if !errors.Is(err, features.ErrInvalidKeywords) {
					t.Errorf("expected ErrInvalidKeywords, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeKeywords(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("normalized list should validate: %v", err)
			}
		})
	}
}

func TestParseKeywordList(t *testing.T) {
	got, err := ParseKeywordList("free, Money ,,WIN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := features.Keywords{"free", "money", "win"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ParseKeywordList(""); err == nil {
		t.Error("empty list should fail")
	}
}
