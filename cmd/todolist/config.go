package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/todolist/internal/config"
	"github.com/muurk/todolist/internal/ui"
	"github.com/muurk/todolist/internal/urls"
)

// makeDefault is the set-endpoint --default flag. The endpoint's feed
// comes from the global --feed flag.
var makeDefault bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetEndpointCmd)
	configCmd.AddCommand(configUseCmd)
	configCmd.AddCommand(configRemoveCmd)

	configSetEndpointCmd.Flags().BoolVar(&makeDefault, "default", false, "Also make it the default endpoint")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage saved endpoints and preferences",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := registry.Path()
		if err != nil {
			return err
		}

		printer := ui.NewPrinter(cmd.OutOrStdout())
		printer.PrintHeader("Configuration", "todolist config show",
			ui.Param{Key: "File", Value: path},
			ui.Param{Key: "Default", Value: valueOr(registry.DefaultEndpoint, "(built-in)")},
		)

		names := registry.EndpointNames()
		if len(names) == 0 {
			printer.PrintWarning("No saved endpoints",
				ui.Param{Key: "Built-in", Value: urls.DefaultEndpoint},
				ui.Param{Key: "Hint", Value: "run 'todolist config init' to create a starter file"},
			)
		}
		for _, name := range names {
			ep := registry.GetEndpoint(name)
			details := []ui.Param{{Key: "URL", Value: ep.URL}}
			if ep.Feed != "" {
				details = append(details, ui.Param{Key: "Feed", Value: ep.Feed})
			}
			if !ep.LastUsed.IsZero() {
				details = append(details, ui.Param{Key: "Last used", Value: ep.LastUsed.Format("2006-01-02 15:04")})
			}
			title := name
			if name == registry.DefaultEndpoint {
				title += " (default)"
			}
			printer.PrintSuccess(title, details...)
		}

		prefs := registry.Preferences
		printer.PrintSuccess("Preferences",
			ui.Param{Key: "Timeout", Value: prefs.Timeout().String()},
			ui.Param{Key: "Discover", Value: prefs.DiscoverDuration().String()},
			ui.Param{Key: "Live", Value: fmt.Sprint(prefs.Live)},
			ui.Param{Key: "Log level", Value: valueOr(prefs.LogLevel, "(silent)")},
		)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write a config file with two saved endpoints: "default" (the hosted
collection) and "local" (a todolist-server on this machine).

An existing file is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := registry.Path()
		if err != nil {
			return err
		}
		if err := config.CreateDefaultConfigAt(path, urls.DefaultEndpoint); err != nil {
			return err
		}

		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Config file created",
			ui.Param{Key: "File", Value: path},
			ui.Param{Key: "Guide", Value: urls.GettingStarted},
		)
		return nil
	},
}

var configSetEndpointCmd = &cobra.Command{
	Use:   "set-endpoint NAME URL",
	Short: "Save a named endpoint",
	Example: `  todolist config set-endpoint local http://127.0.0.1:8080/todos --feed ws://127.0.0.1:8080/ws
  todolist config set-endpoint work https://example.mockapi.io/api/v1/todos --default`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, url := args[0], args[1]
		if err := registry.SetEndpoint(name, url, feedURL); err != nil {
			return err
		}
		if makeDefault {
			if err := registry.UseEndpoint(name); err != nil {
				return err
			}
		}
		if err := registry.Save(); err != nil {
			return err
		}

		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Endpoint saved",
			ui.Param{Key: "Name", Value: name},
			ui.Param{Key: "URL", Value: url},
			ui.Param{Key: "Default", Value: fmt.Sprint(registry.DefaultEndpoint == name)},
		)
		return nil
	},
}

var configUseCmd = &cobra.Command{
	Use:   "use NAME",
	Short: "Make a saved endpoint the default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := registry.UseEndpoint(args[0]); err != nil {
			return fmt.Errorf("%w (saved: %s)", err, valueOr(strings.Join(registry.EndpointNames(), ", "), "none"))
		}
		if err := registry.Save(); err != nil {
			return err
		}

		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Default endpoint set",
			ui.Param{Key: "Name", Value: args[0]},
		)
		return nil
	},
}

var configRemoveCmd = &cobra.Command{
	Use:   "rm NAME",
	Short: "Forget a saved endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !registry.RemoveEndpoint(args[0]) {
			return fmt.Errorf("no endpoint named %q", args[0])
		}
		if err := registry.Save(); err != nil {
			return err
		}

		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Endpoint removed",
			ui.Param{Key: "Name", Value: args[0]},
		)
		return nil
	},
}

func valueOr(s string, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
