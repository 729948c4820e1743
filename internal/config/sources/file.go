package sources

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/khanglvm/spam-perceptron/internal/config"
	"github.com/khanglvm/spam-perceptron/internal/features"
)

// FileSource reads one keyword per line. Blank lines and lines starting
// with # are ignored.
type FileSource struct {
	name string
	path string
}

// NewFileSource creates a keyword file source. An empty path means unset.
func NewFileSource(name, path string) *FileSource {
	return &FileSource{name: name, path: path}
}

// Name returns the source identifier.
func (s *FileSource) Name() string {
	return s.name
}

// Path returns the keyword file location.
func (s *FileSource) Path() string {
	return s.path
}

// Keywords reads and normalizes the file.
func (s *FileSource) Keywords() (features.Keywords, error) {
	if s.path == "" {
		return nil, nil
	}

	path, err := config.ExpandHome(s.path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyword file: %w", err)
	}
	defer f.Close()

	var raw []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		raw = append(raw, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keyword file: %w", err)
	}

	return config.NormalizeKeywords(raw)
}
