package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanglvm/spam-perceptron/internal/config"
	"github.com/khanglvm/spam-perceptron/internal/features"
)

// NewInitCmd creates the 'init' command.
func NewInitCmd(opts *Options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Create the config file with default settings and the built-in keyword
list, ready for editing. The format (JSON or YAML) follows the file
extension of --config.`,
		Example: `  spam-perceptron init
  spam-perceptron init --config ./spam.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.configPath()
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists: %s\n💡 Use --force to overwrite (a .bak copy is kept)", path)
			}

			cfg := config.NewConfig()
			cfg.Keywords = features.DefaultKeywords()
			if err := config.Save(cfg, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Config written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config")

	return cmd
}
