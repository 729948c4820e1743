package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanglvm/spam-perceptron/internal/index"
)

// NewSearchCmd creates the 'search' command.
func NewSearchCmd(opts *Options) *cobra.Command {
	var (
		label      string
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the document corpus",
		Long: `Full-text search over documents seen by train and classify.

Requires index.path to be set in the config.`,
		Example: `  spam-perceptron search "verify account"
  spam-perceptron search prize --label spam`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}

			switch label {
			case "", index.LabelSpam, index.LabelHam, index.LabelUnlabeled:
			default:
				return fmt.Errorf("invalid --label %q: use spam, ham or unlabeled", label)
			}

			if e.cfg.Index.Path == "" {
				return fmt.Errorf("no corpus index configured\n💡 Set \"index\": {\"path\": \"~/.spam-perceptron/corpus.bleve\"} in %s", e.cfgPath)
			}
			idx := e.openIndex()
			if idx == nil {
				return fmt.Errorf("failed to open corpus index at %s", e.cfg.Index.Path)
			}
			defer idx.Close()

			query := strings.Join(args, " ")
			var hits []index.Hit
			if label != "" {
				hits, err = idx.SearchByLabel(query, label, limit)
			} else {
				hits, err = idx.Search(query, limit)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				s, err := formatJSON(hits)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
				return nil
			}

			if len(hits) == 0 {
				fmt.Fprintf(out, "No documents match %q\n", query)
				return nil
			}
			for _, h := range hits {
				fmt.Fprintf(out, "%7.3f  %-9s %-8s %s\n", h.Score, h.Label, h.Origin, h.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "Only documents with this label (spam, ham, unlabeled)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}
