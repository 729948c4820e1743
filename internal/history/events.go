/*
Package history records classification results in the background.

Classify commands hand events to a Recorder, which queues them without
blocking and flushes batches to storage from a single goroutine.
*/
package history

import (
	"time"

	"github.com/khanglvm/spam-perceptron/internal/storage"
)

// Event is one classified document.
type Event struct {
	// ModelPath is the model file that produced the prediction.
	ModelPath string

	// Source is the classified file.
	Source string

	// ContentHash is the SHA256 of the document content.
	ContentHash string

	// Score is the raw linear score.
	Score float64

	// Prediction is 1 for spam, 0 for ham.
	Prediction int

	// Timestamp is when the document was classified.
	Timestamp time.Time
}

// NewEvent creates an event for a document classified now.
func NewEvent(modelPath, source string, content []byte, score float64, prediction int) Event {
	return Event{
		ModelPath:   modelPath,
		Source:      source,
		ContentHash: storage.HashContent(content),
		Score:       score,
		Prediction:  prediction,
		Timestamp:   time.Now(),
	}
}

// ToStorage converts the event to the storage model.
func (e Event) ToStorage() storage.Classification {
	return storage.Classification{
		ModelPath:   e.ModelPath,
		Source:      e.Source,
		ContentHash: e.ContentHash,
		Score:       e.Score,
		Prediction:  e.Prediction,
		Timestamp:   e.Timestamp,
	}
}
