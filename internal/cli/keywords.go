package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewKeywordsCmd creates the 'keywords' command.
func NewKeywordsCmd(opts *Options) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "keywords",
		Aliases: []string{"kw"},
		Short:   "Show the effective keyword list",
		Long: `Print the keyword list that defines the feature space, where it came
from, and its hash. A model only makes sense with the list it was trained on.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				s, err := formatJSON(map[string]interface{}{
					"source":   e.keywordSource,
					"hash":     e.keywords.Hash(),
					"keywords": e.keywords,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
				return nil
			}

			fmt.Fprintf(out, "Source: %s\n", e.keywordSource)
			fmt.Fprintf(out, "Hash:   %s\n", e.keywords.Hash())
			fmt.Fprintf(out, "Count:  %d\n\n", e.keywords.Len())
			for i, kw := range e.keywords {
				fmt.Fprintf(out, "  %2d  %s\n", i, kw)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}
