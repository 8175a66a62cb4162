// Todolist-server is a local, in-memory todo collection server.
//
// It implements the same REST contract as the hosted collection the todolist
// client uses by default, adds a websocket change feed, and announces itself
// on mDNS so clients can find it with 'todolist --discover'.
//
// Usage:
//
//	todolist-server serve [flags]
//
// See 'todolist-server serve --help' for available options.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/todolist/internal/logging"
	"github.com/muurk/todolist/internal/server"
	"github.com/muurk/todolist/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "todolist-server",
	Short: "Local todo collection server",
	Long: `An in-memory REST collection of {id, title} records.

Point the todolist client at http://HOST:PORT/todos, or let it find the
server on the local network with 'todolist --discover'. Records are lost
when the server stops.`,
	Version: version.Version,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command flags
var (
	host        string
	port        int
	collection  string
	idMode      string
	noAdvertise bool
	instance    string
	seed        []string
	logLevel    string
	logFile     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the collection server",
	Long: `Start serving the collection until interrupted.

Routes:
  GET/POST          /{collection}
  GET/PUT/DELETE    /{collection}/{id}
  GET               /healthz, /metrics, /ws

The configured collection is advertised on mDNS and published on the /ws
change feed. Other collection names work but are not fed.`,
	Example: `  # Serve /todos on port 8080
  todolist-server serve

  # UUID ids, a few starter records, debug logging
  todolist-server serve --ids uuid --seed "Buy milk" --seed "Walk dog" --log-level debug

  # Loopback only, without mDNS
  todolist-server serve --host 127.0.0.1 --no-advertise`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", server.DefaultPort, "Listen port")
	serveCmd.Flags().StringVar(&collection, "collection", server.DefaultCollection, "Collection to advertise and publish changes for")
	serveCmd.Flags().StringVar(&idMode, "ids", string(server.IDSequential), "Record id scheme (seq, uuid)")
	serveCmd.Flags().BoolVar(&noAdvertise, "no-advertise", false, "Do not announce the server on mDNS")
	serveCmd.Flags().StringVar(&instance, "instance", "", "mDNS instance name (default is the hostname)")
	serveCmd.Flags().StringArrayVar(&seed, "seed", nil, "Title of a starter record (repeatable)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&logFile, "log-file", "", "Log file (default stderr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeWithOutput(logLevel, logFile); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	ids, err := server.ParseIDMode(idMode)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Host:       host,
		Port:       port,
		Collection: collection,
		IDs:        ids,
		Advertise:  !noAdvertise,
		Instance:   instance,
		Seed:       seed,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logging.Info("Starting todolist server",
		zap.String("version", version.Full()),
		zap.Int("seed_records", len(seed)),
	)

	return srv.Start(context.Background())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), version.Details("todolist-server"))
	},
}
