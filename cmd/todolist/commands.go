package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/todolist/internal/collection"
	"github.com/muurk/todolist/internal/discovery"
	"github.com/muurk/todolist/internal/feed"
	"github.com/muurk/todolist/internal/todo"
	"github.com/muurk/todolist/internal/tui"
	"github.com/muurk/todolist/internal/ui"
)

// Command flags
var (
	listAll     bool
	assumeYes   bool
	scanTimeout int
)

func init() {
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(watchCmd)

	lsCmd.Flags().BoolVar(&listAll, "all", false, "Show every record instead of the first "+strconv.Itoa(tui.MaxVisibleRecords))
	rmCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Delete without asking")
	scanCmd.Flags().IntVar(&scanTimeout, "scan-timeout", 0, "Scan timeout in seconds (default from config, 3)")
}

// lsCmd lists the collection
var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List records",
	Long: `Fetch the collection and print its records in server order.

Like the interactive list, only the first 20 records are shown unless
--all is given.`,
	Example: `  todolist ls
  todolist ls --all --endpoint http://127.0.0.1:8080/todos`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	res, err := resolveEndpoint()
	if err != nil {
		return err
	}

	controller := newController(cmd, res.URL)
	printer := ui.NewPrinter(cmd.OutOrStdout())

	if err := controller.Refresh(cmd.Context()); err != nil {
		ui.NewPrinter(cmd.ErrOrStderr()).PrintError("Failed to fetch records", err)
		return errReported
	}

	records := controller.Snapshot().Data
	shown := records
	if !listAll && len(shown) > tui.MaxVisibleRecords {
		shown = shown[:tui.MaxVisibleRecords]
	}
	printer.PrintRecords(shown, len(records))
	return nil
}

// addCmd creates a record
var addCmd = &cobra.Command{
	Use:   "add TITLE...",
	Short: "Add a record",
	Long: `Create a record with the given title. Words are joined with spaces.

A blank title is rejected before any request is sent.`,
	Example: `  todolist add Buy milk
  todolist add "Call the plumber"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	res, err := resolveEndpoint()
	if err != nil {
		return err
	}

	controller := newController(cmd, res.URL)
	controller.Draft().OnChangeText(strings.Join(args, " "))
	controller.HandleAdd(cmd.Context())

	return report(cmd, controller, "Record added", ui.Param{Key: "Endpoint", Value: res.URL})
}

// updateCmd renames a record
var updateCmd = &cobra.Command{
	Use:     "update ID TITLE...",
	Short:   "Change a record's title",
	Example: `  todolist update 3 Buy oat milk`,
	Args:    cobra.MinimumNArgs(2),
	RunE:    runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	res, err := resolveEndpoint()
	if err != nil {
		return err
	}

	controller := newController(cmd, res.URL)
	rec, err := selectRecord(cmd.Context(), controller, args[0])
	if err != nil {
		return err
	}

	controller.Draft().OnChangeText(strings.Join(args[1:], " "))
	controller.HandleUpdate(cmd.Context())

	return report(cmd, controller, "Record updated",
		ui.Param{Key: "ID", Value: rec.ID},
		ui.Param{Key: "Was", Value: rec.Title},
	)
}

// rmCmd deletes a record
var rmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a record",
	Long: `Delete the record with the given id after asking for confirmation.

Use --yes to skip the question in scripts.`,
	Example: `  todolist rm 3
  todolist rm 3 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	res, err := resolveEndpoint()
	if err != nil {
		return err
	}

	controller := newController(cmd, res.URL)
	rec, err := selectRecord(cmd.Context(), controller, args[0])
	if err != nil {
		return err
	}

	if !assumeYes && !ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete %q?", rec.Title)) {
		return nil
	}

	controller.HandleDelete(cmd.Context())
	return report(cmd, controller, "Record deleted", ui.Param{Key: "ID", Value: rec.ID})
}

// selectRecord fetches the collection and selects the record with id, the
// way clicking its row does
func selectRecord(ctx context.Context, controller *todo.Controller, id string) (*collection.Record, error) {
	if err := controller.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch records: %s", collection.MessageOf(err))
	}

	rec := collection.FindByID(controller.Snapshot().Data, id)
	if rec == nil {
		return nil, fmt.Errorf("no record with id %q", id)
	}
	controller.HandleSelectItem(*rec)
	return rec, nil
}

// report prints the outcome of an action. The controller has already
// alerted on failure.
func report(cmd *cobra.Command, controller *todo.Controller, title string, details ...ui.Param) error {
	if controller.LastActionFailed() {
		if collection.IsNotFound(controller.LastError()) {
			ui.NewPrinter(cmd.ErrOrStderr()).PrintWarning("Record already deleted",
				ui.Param{Key: "Hint", Value: "it was removed after the list was fetched; run 'todolist ls'"},
			)
		}
		return errReported
	}

	if data := controller.Snapshot().Data; data != nil {
		details = append(details, ui.Param{Key: "Records", Value: strconv.Itoa(len(data))})
	}
	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess(title, details...)
	return nil
}

// scanCmd lists local servers
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find todolist servers on the local network",
	Long: `Browse mDNS for todolist-server instances (` + discovery.ServiceType + `)
and print their collection and feed URLs.`,
	Example: `  todolist scan
  todolist scan --scan-timeout 10`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	d := registry.Preferences.DiscoverDuration()
	if scanTimeout > 0 {
		d = time.Duration(scanTimeout) * time.Second
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	printer.PrintHeader("Scanning for servers", "todolist scan",
		ui.Param{Key: "Service", Value: discovery.ServiceType},
		ui.Param{Key: "Timeout", Value: d.String()},
	)

	endpoints, err := discovery.Scan(cmd.Context(), d)
	if err != nil {
		ui.NewPrinter(cmd.ErrOrStderr()).PrintError("Scan failed", err)
		return errReported
	}

	if len(endpoints) == 0 {
		printer.PrintWarning("No servers found",
			ui.Param{Key: "Hint", Value: "start one with 'todolist-server serve'"},
			ui.Param{Key: "Hint", Value: "try a longer --scan-timeout"},
		)
		return nil
	}

	for _, ep := range endpoints {
		details := []ui.Param{{Key: "URL", Value: ep.URL()}}
		if feed := ep.FeedURL(); feed != "" {
			details = append(details, ui.Param{Key: "Feed", Value: feed})
		}
		if v := ep.GetMetadata("version"); v != "" {
			details = append(details, ui.Param{Key: "Version", Value: v})
		}
		printer.PrintSuccess(ep.Instance, details...)
	}

	printer.Println("Save one with 'todolist config set-endpoint NAME URL --feed FEED'")
	return nil
}

// watchCmd prints change feed events
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes from the endpoint's change feed",
	Long: `Subscribe to the change feed of a todolist-server and print each
created, updated and deleted record until interrupted.

The feed URL comes from --feed or from the saved endpoint.`,
	Example: `  todolist watch --profile local
  todolist watch --feed ws://127.0.0.1:8080/ws`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	res, err := resolveEndpoint()
	if err != nil {
		return err
	}
	if res.Feed == "" {
		return fmt.Errorf("no change feed known for %s (use --feed, or save one with 'todolist config set-endpoint')", res.URL)
	}

	out := cmd.OutOrStdout()
	printer := ui.NewPrinter(out)
	printer.PrintHeader("Watching changes", "todolist watch", ui.Param{Key: "Feed", Value: res.Feed})

	err = feed.Subscribe(cmd.Context(), res.Feed, func(e feed.Event) {
		fmt.Fprintf(out, "%s  %s\n", e.At.Local().Format("15:04:05"), e)
	})
	if err != nil {
		if feed.IsUnavailable(err) {
			return fmt.Errorf("%s does not offer a change feed", res.Feed)
		}
		return err
	}
	return nil
}
