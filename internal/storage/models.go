/*
Package storage provides data models for the training and classification history.
*/
package storage

import "time"

// ModelRecord ties a model file to the keyword list that defines its features.
// The model file format has no room for keywords, so the registry keeps them.
type ModelRecord struct {
	// ModelPath is the absolute path of the model file.
	ModelPath string `json:"model_path"`

	// Keywords is the ordered keyword list used at training time.
	Keywords []string `json:"keywords"`

	// KeywordsHash is the SHA256 of the ordered list.
	KeywordsHash string `json:"keywords_hash"`

	// Dimensions is the weight count of the saved model.
	Dimensions int `json:"dimensions"`

	// LearningRate is the learning rate stored in the model.
	LearningRate float64 `json:"learning_rate"`

	// UpdatedAt is when the model was last saved.
	UpdatedAt time.Time `json:"updated_at"`
}

// TrainingRun summarizes one invocation of the training loop.
type TrainingRun struct {
	// RunID is a unique identifier for the run (UUID).
	RunID string `json:"run_id"`

	// ModelPath is where the trained model was saved (may be empty).
	ModelPath string `json:"model_path"`

	// Samples is the number of labeled documents.
	Samples int `json:"samples"`

	// Epochs is the number of passes over the samples.
	Epochs int `json:"epochs"`

	// FinalLoss is the mean squared-error loss of the last epoch.
	FinalLoss float64 `json:"final_loss"`

	// Accuracy is the training-set accuracy after the last epoch.
	Accuracy float64 `json:"accuracy"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Classification records one document classified by a model.
type Classification struct {
	// ModelPath is the model used.
	ModelPath string `json:"model_path"`

	// Source is the classified file path.
	Source string `json:"source"`

	// ContentHash is the SHA256 of the document content.
	ContentHash string `json:"content_hash"`

	// Score is the raw linear score.
	Score float64 `json:"score"`

	// Prediction is 1 (spam) or 0 (ham).
	Prediction int `json:"prediction"`

	// Timestamp is when the document was classified.
	Timestamp time.Time `json:"timestamp"`
}
