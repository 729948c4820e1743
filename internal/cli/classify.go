package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanglvm/spam-perceptron/internal/features"
	"github.com/khanglvm/spam-perceptron/internal/history"
	"github.com/khanglvm/spam-perceptron/internal/index"
	"github.com/khanglvm/spam-perceptron/internal/perceptron"
)

// Verdict is the classification of one document.
type Verdict struct {
	Source     string          `json:"source"`
	Features   features.Vector `json:"features"`
	Score      float64         `json:"score"`
	Prediction int             `json:"prediction"`
	Label      string          `json:"label"`
}

// NewClassifyCmd creates the 'classify' command.
func NewClassifyCmd(opts *Options) *cobra.Command {
	var (
		model      string
		jsonOutput bool
		noRecord   bool
	)

	cmd := &cobra.Command{
		Use:   "classify <file> [file...]",
		Short: "Classify text files as SPAM or HAM",
		Long: `Load the trained model and classify each file.

Files that cannot be opened are reported and skipped. Results are recorded
in the history database unless --no-record is set.`,
		Example: `  spam-perceptron classify inbox/*.txt
  spam-perceptron classify --model models/spam.txt --json mail.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, opts, args, model, jsonOutput, noRecord)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "o", "", "Model file (default from config: model.txt)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Do not record results in history")

	return cmd
}

func runClassify(cmd *cobra.Command, opts *Options, files []string, model string, jsonOutput, noRecord bool) error {
	e, err := opts.load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	modelPath, err := e.modelPath(model)
	if err != nil {
		return err
	}

	store := e.openStorage()
	defer store.Close()

	unit, err := e.loadModel(modelPath, store)
	if err != nil {
		return err
	}

	var rec *history.Recorder
	if !noRecord {
		rec = e.newRecorder(store)
		defer rec.Stop()
	}

	verdicts := make([]Verdict, 0, len(files))
	var docs []index.Document
	failed := 0

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Could not open %s: %v\n", path, err)
			failed++
			continue
		}

		v, err := classify(unit, e.keywords, path, data)
		if err != nil {
			return err
		}
		verdicts = append(verdicts, v)

		if rec != nil {
			rec.Record(history.NewEvent(absPath(modelPath), absPath(path), data, v.Score, v.Prediction))
		}
		docs = append(docs, index.Document{
			ID:     absPath(path),
			Text:   string(data),
			Label:  index.LabelUnlabeled,
			Origin: "classify",
		})
	}

	if len(docs) > 0 {
		if idx := e.openIndex(); idx != nil {
			if err := idx.IndexBatch(docs); err != nil {
				e.log.Warnf("failed to index classified documents: %v", err)
			}
			idx.Close()
		}
	}

	if jsonOutput {
		s, err := formatJSON(verdicts)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
	} else {
		for _, v := range verdicts {
			fmt.Fprintf(out, "%-4s  score %+.4f  %s\n", v.Label, v.Score, v.Source)
		}
	}

	if failed > 0 && len(verdicts) == 0 {
		return fmt.Errorf("none of the %d files could be opened", failed)
	}
	return nil
}

// classify extracts features from data and scores them.
func classify(unit *perceptron.LinearUnit, kw features.Keywords, source string, data []byte) (Verdict, error) {
	vec := features.ExtractFrom(bytes.NewReader(data), kw)

	score, err := unit.Score(vec)
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to score %s: %w", source, err)
	}
	pred := perceptron.Activate(score)

	return Verdict{
		Source:     source,
		Features:   vec,
		Score:      score,
		Prediction: pred,
		Label:      classLabel(pred),
	}, nil
}
