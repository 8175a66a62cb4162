// Todolist is a client for a remote todo collection.
//
// It talks to any REST collection of {id, title} records: the hosted mock
// endpoint by default, or a local todolist-server found by mDNS. Running
// without arguments opens the interactive list; the subcommands do the same
// operations one at a time for scripts.
//
// Usage:
//
//	todolist [command] [flags]
//
// See 'todolist --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/todolist/internal/version"
)

// errReported marks a failure that has already been shown to the user
var errReported = errors.New("failure already reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "todolist",
	Short: "Todo list client for a remote REST collection",
	Long: `A client for a remote todo collection of {id, title} records.

With no command it opens the interactive list: type a title and press
Add, select a row to edit or delete it. The subcommands run the same
operations once, for scripts.

The endpoint is chosen in this order: --endpoint, $TODOLIST_ENDPOINT,
--profile, the default endpoint in the config file, then the built-in
hosted collection.`,
	Version: version.Version,
	Example: `  # Open the interactive list on the default endpoint
  todolist

  # Find a local todolist-server and follow its change feed
  todolist --discover --live

  # One-shot commands
  todolist ls
  todolist add "Buy milk"
  todolist update 3 "Buy oat milk"
  todolist rm 3 --yes`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	// Assigned here because setup refers to rootCmd (initialization cycle)
	rootCmd.PersistentPreRunE = setup

	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), version.Details("todolist"))
	},
}
