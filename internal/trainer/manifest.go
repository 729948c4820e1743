package trainer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/khanglvm/spam-perceptron/internal/features"
)

// Entry is one labeled file reference.
type Entry struct {
	Label int
	Path  string
}

// ParseLabel accepts 0/1 or ham/spam (case-insensitive).
func ParseLabel(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "spam":
		return 1, nil
	case "0", "ham":
		return 0, nil
	}
	return 0, fmt.Errorf("invalid label %q: expected 0, 1, ham or spam", s)
}

// ParseEntry parses a "label:path" argument.
func ParseEntry(arg string) (Entry, error) {
	label, path, ok := strings.Cut(arg, ":")
	if !ok || strings.TrimSpace(path) == "" {
		return Entry{}, fmt.Errorf("invalid sample %q: expected label:path", arg)
	}
	l, err := ParseLabel(label)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Label: l, Path: path}, nil
}

// LoadManifest reads "<label> <path>" lines. Blank lines and lines starting
// with # are skipped; the path is the rest of the line after the label.
func LoadManifest(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("manifest line %d: expected \"<label> <path>\"", lineNo)
		}
		label, err := ParseLabel(fields[0])
		if err != nil {
			return nil, fmt.Errorf("manifest line %d: %w", lineNo, err)
		}
		path := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

		entries = append(entries, Entry{Label: label, Path: path})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return entries, nil
}

// LoadManifestFile reads a manifest from disk. Relative paths inside it are
// resolved against the manifest's directory.
func LoadManifestFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	entries, err := LoadManifest(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range entries {
		if !filepath.IsAbs(entries[i].Path) {
			entries[i].Path = filepath.Join(dir, entries[i].Path)
		}
	}
	return entries, nil
}

// Samples extracts features for every entry. Unreadable files yield zero
// vectors, matching features.Extract.
func Samples(entries []Entry, keywords features.Keywords) []Sample {
	samples := make([]Sample, 0, len(entries))
	for _, e := range entries {
		samples = append(samples, Sample{
			Source:   e.Path,
			Features: features.Extract(e.Path, keywords),
			Label:    e.Label,
		})
	}
	return samples
}
