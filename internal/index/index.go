/*
Package index keeps a full-text index of the documents the filter has seen.

Training and classification add documents with their label so that the
corpus can later be searched by content ("which training mails mention
'verify'?") and filtered by class.
*/
package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/index/scorch"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/khanglvm/spam-perceptron/internal/logger"
)

// Labels stored on indexed documents.
const (
	LabelSpam      = "spam"
	LabelHam       = "ham"
	LabelUnlabeled = "unlabeled"
)

// LabelName maps a class (1 spam, 0 ham) to its index label.
func LabelName(class int) string {
	if class == 1 {
		return LabelSpam
	}
	return LabelHam
}

// Document is one indexed text file.
type Document struct {
	// ID is the document identifier, normally its file path.
	ID string
	// Text is the document content.
	Text string
	// Label is spam, ham or unlabeled.
	Label string
	// Origin says how the document entered the index ("train" or "classify").
	Origin string
}

// Index wraps a bleve index of documents.
type Index struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
	indexPath  string
}

// New creates an in-memory index.
func New() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	return &Index{bleveIndex: idx}, nil
}

// Open opens the on-disk index at indexPath, creating it if needed.
func Open(indexPath string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	idx, err := bleve.NewUsing(indexPath, buildIndexMapping(), scorch.Name, scorch.Name, nil)
	if err != nil {
		// If index exists, open it
		idx, err = bleve.Open(indexPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open/create index: %w", err)
		}
	}

	return &Index{bleveIndex: idx, indexPath: indexPath}, nil
}

// buildIndexMapping creates the bleve index mapping.
func buildIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	textField := bleve.NewTextFieldMapping()
	textField.Store = false
	docMapping.AddFieldMappingsAt("text", textField)

	// label and origin are exact-match filters
	docMapping.AddFieldMappingsAt("label", bleve.NewKeywordFieldMapping())
	docMapping.AddFieldMappingsAt("origin", bleve.NewKeywordFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping

	return indexMapping
}

// Path returns the on-disk location, or "" for an in-memory index.
func (i *Index) Path() string {
	return i.indexPath
}

// IndexDocument adds or replaces a single document.
func (i *Index) IndexDocument(doc Document) error {
	return i.IndexBatch([]Document{doc})
}

// IndexBatch adds or replaces documents in one batch.
func (i *Index) IndexBatch(docs []Document) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	batch := i.bleveIndex.NewBatch()

	for _, doc := range docs {
		label := doc.Label
		if label == "" {
			label = LabelUnlabeled
		}
		fields := map[string]interface{}{
			"text":   doc.Text,
			"label":  label,
			"origin": doc.Origin,
		}

		if err := batch.Index(doc.ID, fields); err != nil {
			logger.Global().Warnf("failed to index document %s: %v", doc.ID, err)
		}
	}

	if err := i.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch index documents: %w", err)
	}

	return nil
}

// Delete removes a document.
func (i *Index) Delete(id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.bleveIndex.Delete(id); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}

// Count returns the number of indexed documents.
func (i *Index) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	docCount, err := i.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}

	return docCount, nil
}

// Close closes the index and releases resources.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.bleveIndex != nil {
		return i.bleveIndex.Close()
	}

	return nil
}
