// Package cli implements the nlogctl commands.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/philipp01105/nlogconf/provider"
)

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the nlogctl command tree. Each call returns a fresh
// tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "nlogctl",
		Short: "Inspect and exercise nlog configurations",
		Long: `nlogctl validates logging configuration documents, renders
patterns against a sample event and runs a rotation pass over a log
directory.

Settings can also be given through NLOG_* environment variables,
e.g. NLOG_CONFIG_FILE.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "configuration document (default is "+provider.DefaultConfigFile+")")
	_ = v.BindPFlag("config_file", root.PersistentFlags().Lookup("config"))

	root.AddCommand(
		newValidateCommand(v),
		newRenderCommand(),
		newRotateCommand(),
	)
	return root
}

// settings reads provider settings from flags, the environment and defaults
func settings(v *viper.Viper) (provider.Settings, error) {
	return provider.LoadSettings(v)
}
