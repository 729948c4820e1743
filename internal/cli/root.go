/*
Package cli implements the spam-perceptron commands.

Every command resolves the same environment: .env file, config file,
SPAM_PERCEPTRON_* overrides, global flags, logger and keyword list.
*/
package cli

import (
	"github.com/spf13/cobra"

	"github.com/khanglvm/spam-perceptron/internal/version"
)

// Options holds the global flags shared by all commands.
type Options struct {
	ConfigPath   string
	LogLevel     string
	Keywords     string
	KeywordsFile string
}

// NewRootCmd creates the spam-perceptron root command with all subcommands.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "spam-perceptron",
		Short: "Keyword-count perceptron spam filter",
		Long: `spam-perceptron classifies text files as SPAM or HAM with a single
linear unit over keyword-count features.

Each document becomes a vector with one count per keyword: the number of
whitespace tokens that contain the keyword after lowercasing and stripping
trailing punctuation. The unit scores w·x + b and reports SPAM when the
score is at least 0.

Typical workflow:
  1. spam-perceptron train spam:offer.txt ham:notes.txt
  2. spam-perceptron classify inbox/*.txt
  3. spam-perceptron evaluate --manifest test.txt`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Config file (default: $SPAM_PERCEPTRON_CONFIG or ~/.spam-perceptron.json)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error, none")
	flags.StringVarP(&opts.Keywords, "keywords", "k", "", "Comma separated keyword list (overrides config)")
	flags.StringVar(&opts.KeywordsFile, "keywords-file", "", "File with one keyword per line (overrides config)")

	cmd.AddCommand(NewInitCmd(opts))
	cmd.AddCommand(NewTrainCmd(opts))
	cmd.AddCommand(NewClassifyCmd(opts))
	cmd.AddCommand(NewInspectCmd(opts))
	cmd.AddCommand(NewEvaluateCmd(opts))
	cmd.AddCommand(NewKeywordsCmd(opts))
	cmd.AddCommand(NewHistoryCmd(opts))
	cmd.AddCommand(NewSearchCmd(opts))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}
