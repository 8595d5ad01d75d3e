package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// pluginCmd represents the plugin command group.
var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Plugin management commands",
	Long:  `Commands for managing Scriptor plugins.`,
}

// listCmd lists the currently installed plugins.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed plugins",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newManager()
		defer mgr.Close()

		names := mgr.LoadAll()
		if len(names) == 0 {
			cmd.Println("no plugins installed")
			return nil
		}
		for _, name := range names {
			p, _ := mgr.Get(name)
			hooks := p.HookNames()
			if len(hooks) == 0 {
				cmd.Printf("%s\t(no hooks)\n", name)
				continue
			}
			cmd.Printf("%s\t%s\n", name, strings.Join(hooks, ", "))
		}
		return nil
	},
}

// installCmd installs a plugin from a package archive.
var installCmd = &cobra.Command{
	Use:   "install PACKAGE",
	Short: "Install a plugin from a package (.scpl zip archive)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newManager()
		defer mgr.Close()
		mgr.LoadAll()

		dest, err := mgr.Install(args[0])
		if err != nil {
			return fmt.Errorf("install failed: %w", err)
		}
		cmd.Printf("installed to %s\n", dest)
		return nil
	},
}

// uninstallCmd removes an installed plugin.
var uninstallCmd = &cobra.Command{
	Use:   "uninstall NAME",
	Short: "Uninstall a plugin and delete its directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newManager()
		defer mgr.Close()
		mgr.LoadAll()

		if err := mgr.Uninstall(args[0]); err != nil {
			return err
		}
		cmd.Printf("%s removed\n", args[0])
		return nil
	},
}

// reloadCmd re-scans the plugins directory.
var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload all plugins from the plugins directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newManager()
		defer mgr.Close()

		names := mgr.LoadAll()
		if len(names) == 0 {
			cmd.Println("loaded plugins: none")
			return nil
		}
		cmd.Printf("loaded plugins: %s\n", strings.Join(names, ", "))
		return nil
	},
}

func init() {
	pluginCmd.AddCommand(listCmd)
	pluginCmd.AddCommand(installCmd)
	pluginCmd.AddCommand(uninstallCmd)
	pluginCmd.AddCommand(reloadCmd)
	rootCmd.AddCommand(pluginCmd)
}
