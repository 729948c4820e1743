package history

import (
	"sync"
	"time"

	"github.com/khanglvm/spam-perceptron/internal/logger"
	"github.com/khanglvm/spam-perceptron/internal/storage"
)

const (
	// eventQueueSize is the buffer size for the event queue.
	// If full, events are dropped (non-blocking).
	eventQueueSize = 1000

	// batchFlushSize is the number of events that triggers an immediate flush.
	batchFlushSize = 10

	// flushInterval is how often pending events are flushed.
	flushInterval = 50 * time.Millisecond
)

// Recorder writes classification events to storage in the background.
type Recorder struct {
	storage    storage.Storage
	eventQueue chan Event
	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	enabled    bool
	mu         sync.RWMutex
}

// NewRecorder creates a recorder and starts its flush loop. If storage
// cannot be initialized, the recorder starts disabled.
func NewRecorder(s storage.Storage) *Recorder {
	r := &Recorder{
		storage:    s,
		eventQueue: make(chan Event, eventQueueSize),
		stopChan:   make(chan struct{}),
		enabled:    s != nil,
	}

	if s != nil {
		if err := s.Init(); err != nil {
			logger.Global().Warnf("history storage initialization failed: %v", err)
			r.enabled = false
		}
	}

	r.wg.Add(1)
	go r.processEvents()

	return r
}

// Record queues an event without blocking. If the queue is full, the event
// is dropped and a warning is logged.
func (r *Recorder) Record(event Event) {
	if !r.IsEnabled() {
		return
	}

	select {
	case r.eventQueue <- event:
	default:
		logger.Global().Warnf("history queue full, dropping event for %s", event.Source)
	}
}

// Stop flushes queued events and stops the background loop.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
		r.wg.Wait()
	})
}

// Disable makes Record ignore new events.
func (r *Recorder) Disable() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = false
}

// Enable re-enables recording.
func (r *Recorder) Enable() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = r.storage != nil
}

// IsEnabled reports whether events are being recorded.
func (r *Recorder) IsEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// QueueSize returns the number of events waiting to be flushed.
func (r *Recorder) QueueSize() int {
	return len(r.eventQueue)
}

func (r *Recorder) processEvents() {
	defer r.wg.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, batchFlushSize)

	for {
		select {
		case event := <-r.eventQueue:
			batch = append(batch, event)
			if len(batch) >= batchFlushSize {
				r.flush(batch)
				batch = batch[:0]
			}

		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = batch[:0]
			}

		case <-r.stopChan:
			// Drain what is left, then exit.
			for {
				select {
				case event := <-r.eventQueue:
					batch = append(batch, event)
				default:
					r.flush(batch)
					return
				}
			}
		}
	}
}

func (r *Recorder) flush(events []Event) {
	for _, event := range events {
		if err := r.storage.RecordClassification(event.ToStorage()); err != nil {
			logger.Global().Warnf("failed to record classification: %v", err)
		}
	}
}
