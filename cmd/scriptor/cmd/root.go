// Package cmd provides the CLI commands for the scriptor application.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dshills/scriptor/internal/config"
	"github.com/dshills/scriptor/internal/logging"
	"github.com/dshills/scriptor/internal/plugin"
)

var pluginsDir string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "scriptor",
	Short:         "Scriptor editor shell utilities",
	Long:          `Plugin management and event tooling for the Scriptor editor: install, list, remove, and reload plugins, and fire editor hooks without the GUI shell.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return err
		}
		if pluginsDir != "" {
			if err := config.Set("plugins.dir", pluginsDir); err != nil {
				return err
			}
		}
		cfg := config.Get()
		logging.Init(cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&pluginsDir, "plugins-dir", "", "plugins directory (overrides config)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// newManager builds a plugin manager from the loaded configuration.
func newManager() *plugin.Manager {
	cfg := config.Get()
	return plugin.NewManager(plugin.ManagerConfig{
		Root:             cfg.Plugins.Dir,
		ExecTimeout:      cfg.Plugins.ExecTimeout,
		InstructionLimit: cfg.Plugins.InstructionLimit,
	})
}
