/*
Package cli provides commands for viewing and clearing the history database.

Classifications and training runs are stored locally in
~/.spam-perceptron/history.db; documents are identified by SHA256 hash,
their text is never stored.
*/
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanglvm/spam-perceptron/internal/config"
	"github.com/khanglvm/spam-perceptron/internal/storage"
)

// NewHistoryCmd creates the 'history' command group.
func NewHistoryCmd(opts *Options) *cobra.Command {
	var (
		runs       bool
		limit      int
		since      time.Duration
		model      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent classifications or training runs",
		Long: `Show what the filter has done recently.

Without flags, lists recent classifications. With --runs, lists training
runs (optionally for one --model).

Commands:
  clear  Delete the history database`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}

			store := e.openStorage()
			defer store.Close()

			if !store.Enabled() {
				fmt.Fprintln(cmd.OutOrStdout(), "History storage is disabled")
				return nil
			}

			if runs {
				return showRuns(cmd, store, model, limit, jsonOutput)
			}
			return showClassifications(cmd, store, since, limit, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&runs, "runs", false, "List training runs instead of classifications")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries")
	cmd.Flags().DurationVar(&since, "since", 30*24*time.Hour, "Only classifications newer than this")
	cmd.Flags().StringVarP(&model, "model", "o", "", "Only runs for this model file")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	cmd.AddCommand(newHistoryClearCmd(opts))

	return cmd
}

func showRuns(cmd *cobra.Command, store storage.Storage, model string, limit int, jsonOutput bool) error {
	runs, err := store.GetTrainingRuns(absPath(model), limit)
	if err != nil {
		return fmt.Errorf("failed to read training runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		s, err := formatJSON(runs)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
		return nil
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No training runs recorded")
		return nil
	}

	fmt.Fprintf(out, "%-20s %-8s %7s %6s %10s %8s  %s\n", "FINISHED", "RUN", "SAMPLES", "EPOCHS", "LOSS", "ACCURACY", "MODEL")
	for _, r := range runs {
		fmt.Fprintf(out, "%-20s %-8s %7d %6d %10.6f %7.1f%%  %s\n",
			r.FinishedAt.Local().Format("2006-01-02 15:04:05"), shortID(r.RunID),
			r.Samples, r.Epochs, r.FinalLoss, r.Accuracy*100, r.ModelPath)
	}
	return nil
}

func showClassifications(cmd *cobra.Command, store storage.Storage, since time.Duration, limit int, jsonOutput bool) error {
	items, err := store.GetClassifications(time.Now().Add(-since), limit)
	if err != nil {
		return fmt.Errorf("failed to read classifications: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		s, err := formatJSON(items)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
		return nil
	}

	if len(items) == 0 {
		fmt.Fprintln(out, "No classifications recorded")
		return nil
	}

	fmt.Fprintf(out, "%-20s %-4s %9s  %s\n", "TIME", "", "SCORE", "SOURCE")
	for _, c := range items {
		fmt.Fprintf(out, "%-20s %-4s %+9.4f  %s\n",
			c.Timestamp.Local().Format("2006-01-02 15:04:05"), classLabel(c.Prediction), c.Score, c.Source)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// newHistoryClearCmd deletes the history database.
func newHistoryClearCmd(opts *Options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history data",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !yes {
				fmt.Fprint(out, "This will delete all history data. Continue? (y/N): ")
				response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				response = strings.TrimSpace(response)
				if response != "y" && response != "Y" {
					fmt.Fprintln(out, "Cancelled")
					return nil
				}
			}

			dbPath, err := config.ExpandHome(e.cfg.Storage.Path)
			if err != nil {
				return err
			}
			if dbPath == "" {
				if dbPath, err = storage.DefaultPath(); err != nil {
					return err
				}
			}

			if err := os.Remove(dbPath); err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintln(out, "No history data found")
					return nil
				}
				return fmt.Errorf("failed to delete database: %w", err)
			}

			fmt.Fprintln(out, "History cleared successfully")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}
