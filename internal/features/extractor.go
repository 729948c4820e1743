package features

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Extract reads the file at path and counts keyword occurrences.
//
// Extraction fails open: if the file cannot be opened or read, the result is
// a zero vector of len(keywords) and no error is reported.
func Extract(path string, keywords Keywords) Vector {
	f, err := os.Open(path)
	if err != nil {
		return make(Vector, len(keywords))
	}
	defer f.Close()

	return ExtractFrom(f, keywords)
}

// ExtractFrom counts keyword occurrences in r, reading it once to the end.
// Tokens may be of any length. A read failure yields the zero vector, like
// Extract.
func ExtractFrom(r io.Reader, keywords Keywords) Vector {
	features := make(Vector, len(keywords))

	br := bufio.NewReader(r)
	var token []byte
	flush := func() {
		if len(token) == 0 {
			return
		}
		countToken(features, CleanToken(string(token)), keywords)
		token = token[:0]
	}

	for {
		c, size, err := br.ReadRune()
		if err == io.EOF {
			flush()
			return features
		}
		if err != nil {
			return make(Vector, len(keywords))
		}

		switch {
		case c == utf8.RuneError && size == 1:
			// Keep invalid bytes as they are.
			_ = br.UnreadRune()
			b, _ := br.ReadByte()
			token = append(token, b)
		case unicode.IsSpace(c):
			flush()
		default:
			token = utf8.AppendRune(token, c)
		}
	}
}

func countToken(features Vector, token string, keywords Keywords) {
	if token == "" {
		return
	}
	for i, kw := range keywords {
		if kw != "" && strings.Contains(token, kw) {
			features[i]++
		}
	}
}

// CleanToken lowercases tok and strips trailing punctuation.
func CleanToken(tok string) string {
	return strings.TrimRightFunc(strings.ToLower(tok), isPunct)
}

// isPunct matches the C ispunct class for ASCII and extends it to Unicode
// punctuation and symbols.
func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
