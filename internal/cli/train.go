package cli

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanglvm/spam-perceptron/internal/index"
	"github.com/khanglvm/spam-perceptron/internal/perceptron"
	"github.com/khanglvm/spam-perceptron/internal/storage"
	"github.com/khanglvm/spam-perceptron/internal/trainer"
)

type trainOptions struct {
	manifest     string
	epochs       int
	learningRate float64
	shuffle      bool
	seed         int64
	model        string
	resume       bool
	noSave       bool
	verbose      bool
	jsonOutput   bool
}

// NewTrainCmd creates the 'train' command.
func NewTrainCmd(opts *Options) *cobra.Command {
	var o trainOptions

	cmd := &cobra.Command{
		Use:   "train [label:path ...]",
		Short: "Train the spam model on labeled documents",
		Long: `Train a perceptron on labeled text files and save it.

Samples are given as label:path arguments (label is 1/spam or 0/ham) or in a
manifest file with one "<label> <path>" per line. Each epoch applies one
online update per sample; the final weights, bias and training-set
predictions are printed.

Unreadable files train as all-zero feature vectors.`,
		Example: `  # Two documents, default settings
  spam-perceptron train spam:offer.txt ham:meeting.txt

  # Manifest, 50 epochs, reproducible shuffle
  spam-perceptron train --manifest train.txt -e 50 --shuffle --seed 1

  # Continue training an existing model
  spam-perceptron train --resume --manifest more.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(cmd, opts, &o, args)
		},
	}

	cmd.Flags().StringVarP(&o.manifest, "manifest", "m", "", "Manifest file with \"<label> <path>\" lines")
	cmd.Flags().IntVarP(&o.epochs, "epochs", "e", 0, "Number of passes (default from config: 10)")
	cmd.Flags().Float64VarP(&o.learningRate, "learning-rate", "r", 0, "Learning rate (default from config: 0.1)")
	cmd.Flags().BoolVar(&o.shuffle, "shuffle", false, "Shuffle samples before each epoch")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "Seed for initialization and shuffling (0 = clock)")
	cmd.Flags().StringVarP(&o.model, "model", "o", "", "Model file (default from config: model.txt)")
	cmd.Flags().BoolVar(&o.resume, "resume", false, "Continue from the existing model file")
	cmd.Flags().BoolVar(&o.noSave, "no-save", false, "Do not write the model file")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "Print per-sample diagnostics")
	cmd.Flags().BoolVarP(&o.jsonOutput, "json", "j", false, "Output the training report as JSON")

	return cmd
}

func runTrain(cmd *cobra.Command, opts *Options, o *trainOptions, args []string) error {
	e, err := opts.load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	entries, err := collectEntries(args, o.manifest)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no training samples: pass label:path arguments or --manifest")
	}
	for _, en := range entries {
		if _, err := os.Stat(en.Path); err != nil {
			e.log.Warnf("cannot read %s, training on zero features: %v", en.Path, err)
		}
	}

	training := e.cfg.Training
	if cmd.Flags().Changed("epochs") {
		training.Epochs = o.epochs
	}
	if cmd.Flags().Changed("learning-rate") {
		training.LearningRate = o.learningRate
	}
	if cmd.Flags().Changed("shuffle") {
		training.Shuffle = o.shuffle
	}
	if cmd.Flags().Changed("seed") {
		training.Seed = o.seed
	}

	modelPath, err := e.modelPath(o.model)
	if err != nil {
		return err
	}

	store := e.openStorage()
	defer store.Close()

	var rng *rand.Rand
	if training.Seed != 0 {
		perceptron.Seed(training.Seed)
		rng = rand.New(rand.NewSource(training.Seed))
	}

	unit, err := newOrResumedUnit(cmd, e, o, training.LearningRate, modelPath, store)
	if err != nil {
		return err
	}

	samples := trainer.Samples(entries, e.keywords)

	t := &trainer.Trainer{
		Epochs:  training.Epochs,
		Shuffle: training.Shuffle,
		Rand:    rng,
		Logger:  e.log,
	}
	if o.verbose && !o.jsonOutput {
		t.OnStep = func(s trainer.StepRecord) {
			fmt.Fprintf(out, "[epoch %d] %s label=%d score=%.6f pred=%s grad=%.6f loss=%.6f score_after=%.6f\n",
				s.Epoch, s.Source, s.Label, s.Before.Score, classLabel(s.Before.Prediction),
				s.Before.Grad, s.Before.Loss, s.ScoreAfter)
		}
	}

	report, err := t.Run(cmd.Context(), unit, samples)
	if err != nil {
		return err
	}

	if !o.noSave {
		if err := unit.SaveFile(modelPath); err != nil {
			return err
		}
		e.registerModel(modelPath, unit, store)
	}

	savedPath := modelPath
	if o.noSave {
		savedPath = ""
	}
	if err := store.RecordTrainingRun(storage.TrainingRun{
		RunID:      report.RunID,
		ModelPath:  absPath(savedPath),
		Samples:    report.Samples,
		Epochs:     report.Epochs,
		FinalLoss:  report.FinalLoss(),
		Accuracy:   report.Accuracy,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
	}); err != nil {
		e.log.Warnf("failed to record training run: %v", err)
	}
	e.cleanup(store)

	indexDocuments(e, entries)

	if o.jsonOutput {
		s, err := formatJSON(struct {
			*trainer.Report
			Model    string    `json:"model,omitempty"`
			Keywords []string  `json:"keywords"`
			Weights  []float64 `json:"weights"`
			Bias     float64   `json:"bias"`
		}{report, savedPath, e.keywords, unit.Weights(), unit.Bias()})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
		return nil
	}

	printTrainSummary(out, e, unit, report)
	if savedPath != "" {
		fmt.Fprintf(out, "\n✓ Model saved to %s\n", savedPath)
	}
	return nil
}

// newOrResumedUnit loads the model for --resume or initializes a new one.
func newOrResumedUnit(cmd *cobra.Command, e *env, o *trainOptions, lr float64, modelPath string, store storage.Storage) (*perceptron.LinearUnit, error) {
	if !o.resume {
		return perceptron.New(e.keywords.Len(), lr)
	}

	unit, err := e.loadModel(modelPath, store)
	if err != nil {
		return nil, fmt.Errorf("failed to resume: %w", err)
	}
	if cmd.Flags().Changed("learning-rate") {
		return perceptron.FromParams(unit.Weights(), unit.Bias(), lr)
	}
	return unit, nil
}

// collectEntries merges label:path arguments and the manifest.
func collectEntries(args []string, manifest string) ([]trainer.Entry, error) {
	var entries []trainer.Entry
	for _, arg := range args {
		en, err := trainer.ParseEntry(arg)
		if err != nil {
			return nil, err
		}
		entries = append(entries, en)
	}

	if manifest != "" {
		more, err := trainer.LoadManifestFile(manifest)
		if err != nil {
			return nil, err
		}
		entries = append(entries, more...)
	}
	return entries, nil
}

// indexDocuments adds the training documents to the corpus index, if any.
func indexDocuments(e *env, entries []trainer.Entry) {
	idx := e.openIndex()
	if idx == nil {
		return
	}
	defer idx.Close()

	docs := make([]index.Document, 0, len(entries))
	for _, en := range entries {
		data, err := os.ReadFile(en.Path)
		if err != nil {
			continue
		}
		docs = append(docs, index.Document{
			ID:     absPath(en.Path),
			Text:   string(data),
			Label:  index.LabelName(en.Label),
			Origin: "train",
		})
	}

	if err := idx.IndexBatch(docs); err != nil {
		e.log.Warnf("failed to index training documents: %v", err)
	}
}

func printTrainSummary(out io.Writer, e *env, unit *perceptron.LinearUnit, report *trainer.Report) {
	fmt.Fprintf(out, "Trained on %d samples for %d epochs (run %s)\n", report.Samples, report.Epochs, report.RunID)
	fmt.Fprintf(out, "Final mean loss: %.6f   Training accuracy: %.1f%%   Time: %v\n\n",
		report.FinalLoss(), report.Accuracy*100, report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))

	printWeights(out, e.keywords, unit.Weights())
	fmt.Fprintf(out, "  %-16s %+.6f\n\n", "(bias)", unit.Bias())

	fmt.Fprintln(out, "Predictions:")
	for _, p := range report.Predictions {
		mark := "✓"
		if p.Prediction != p.Label {
			mark = "✗"
		}
		fmt.Fprintf(out, "  %s %-4s (label %-4s score %+.4f)  %s\n",
			mark, classLabel(p.Prediction), classLabel(p.Label), p.Score, p.Source)
	}
}

// printWeights lists weights next to their keywords.
func printWeights(out io.Writer, keywords []string, weights []float64) {
	fmt.Fprintln(out, "Weights:")
	for i, w := range weights {
		name := fmt.Sprintf("#%d", i)
		if i < len(keywords) {
			name = keywords[i]
		}
		fmt.Fprintf(out, "  %-16s %+.6f\n", name, w)
	}
}
