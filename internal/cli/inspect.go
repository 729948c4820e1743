package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInspectCmd creates the 'inspect' command.
func NewInspectCmd(opts *Options) *cobra.Command {
	var (
		model      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the parameters of a saved model",
		Long: `Print the weight count, learning rate, bias and per-keyword weights of
a model file. Weights are labeled with the currently configured keywords.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
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

			out := cmd.OutOrStdout()
			if jsonOutput {
				s, err := formatJSON(map[string]interface{}{
					"model":        modelPath,
					"size":         unit.Size(),
					"learningRate": unit.LearningRate(),
					"bias":         unit.Bias(),
					"keywords":     e.keywords,
					"weights":      unit.Weights(),
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
				return nil
			}

			fmt.Fprintf(out, "Model:         %s\n", modelPath)
			fmt.Fprintf(out, "Weights:       %d\n", unit.Size())
			fmt.Fprintf(out, "Learning rate: %g\n", unit.LearningRate())
			fmt.Fprintf(out, "Bias:          %+.6f\n\n", unit.Bias())
			printWeights(out, e.keywords, unit.Weights())
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "o", "", "Model file (default from config: model.txt)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}
