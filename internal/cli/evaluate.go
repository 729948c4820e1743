package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/spam-perceptron/internal/evaluate"
	"github.com/khanglvm/spam-perceptron/internal/trainer"
)

// NewEvaluateCmd creates the 'evaluate' command.
func NewEvaluateCmd(opts *Options) *cobra.Command {
	var (
		manifest   string
		model      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Measure model accuracy on a labeled manifest",
		Long: `Score every document in a manifest with the saved model and report the
confusion matrix, accuracy, precision, recall, F1 and mean loss.

The model is not modified.`,
		Example: `  spam-perceptron evaluate --manifest test.txt
  spam-perceptron evaluate -m test.txt --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}

			entries, err := collectEntries(args, manifest)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("no evaluation samples: pass label:path arguments or --manifest")
			}

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

			result, err := evaluate.Evaluate(unit, trainer.Samples(entries, e.keywords))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				s, err := formatJSON(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
				return nil
			}

			fmt.Fprint(out, evaluate.FormatResult(result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "Manifest file with \"<label> <path>\" lines")
	cmd.Flags().StringVarP(&model, "model", "o", "", "Model file (default from config: model.txt)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}
