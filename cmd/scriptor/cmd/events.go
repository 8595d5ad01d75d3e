package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dshills/scriptor/internal/plugin"
)

// openCmd fires the on_open hook as the editor shell would after
// opening a file.
var openCmd = &cobra.Command{
	Use:   "open FILE",
	Short: "Fire the on_open hook for a file path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newManager()
		defer mgr.Close()
		mgr.LoadAll()

		hooks := plugin.NewHooks(mgr)
		hooks.OnOpen(args[0])
		return nil
	},
}

// saveCmd fires the on_save hook.
var saveCmd = &cobra.Command{
	Use:   "save FILE",
	Short: "Fire the on_save hook for a file path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newManager()
		defer mgr.Close()
		mgr.LoadAll()

		hooks := plugin.NewHooks(mgr)
		hooks.OnSave(args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(saveCmd)
}
