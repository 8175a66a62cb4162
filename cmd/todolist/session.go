package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/todolist/internal/collection"
	"github.com/muurk/todolist/internal/config"
	"github.com/muurk/todolist/internal/logging"
	"github.com/muurk/todolist/internal/todo"
	"github.com/muurk/todolist/internal/ui"
	"github.com/muurk/todolist/internal/urls"
	"github.com/muurk/todolist/internal/version"
)

// Global flags
var (
	configPath     string
	endpointURL    string
	profileName    string
	feedURL        string
	timeoutSeconds int
	logLevel       string
	logFile        string
	live           bool
	discover       bool
)

// registry is loaded once per invocation by setup
var registry *config.Registry

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default is the user config directory)")
	flags.StringVar(&endpointURL, "endpoint", "", "Collection URL (overrides $"+config.EndpointEnvVar+" and the config file)")
	flags.StringVar(&profileName, "profile", "", "Saved endpoint to use")
	flags.StringVar(&feedURL, "feed", "", "Change feed websocket URL")
	flags.IntVar(&timeoutSeconds, "timeout", 0, "HTTP request timeout in seconds (default from config, 10)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")
	flags.StringVar(&logFile, "log-file", "", "Log file (the interactive list logs to the config directory)")

	rootCmd.Flags().BoolVar(&live, "live", false, "Follow the endpoint's change feed")
	rootCmd.Flags().BoolVar(&discover, "discover", false, "Pick a local server found by mDNS")
}

// setup loads the config registry and starts logging
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		registry, err = config.LoadRegistryFrom(configPath)
	} else {
		registry, err = config.LoadRegistry()
	}
	if err != nil {
		return err
	}

	level := logLevel
	if level == "" {
		level = registry.Preferences.LogLevel
	}
	path := logFile
	if path == "" {
		path = registry.Preferences.LogFile
	}
	// The interactive list owns the terminal
	if path == "" && level != "" && cmd == rootCmd {
		if dir, err := config.GetConfigDir(); err == nil {
			path = filepath.Join(dir, "todolist.log")
		}
	}

	return logging.InitializeWithOutput(level, path)
}

// timeout returns the request timeout from the flag or the config
func timeout() time.Duration {
	if timeoutSeconds > 0 {
		return time.Duration(timeoutSeconds) * time.Second
	}
	return registry.Preferences.Timeout()
}

// resolveEndpoint picks the collection URL and records its use
func resolveEndpoint() (*config.Resolution, error) {
	res, err := registry.Resolve(config.OptionsFromEnv(endpointURL, profileName, urls.DefaultEndpoint))
	if err != nil {
		return nil, err
	}
	if feedURL != "" {
		if err := config.ValidateURL(feedURL, "ws", "wss"); err != nil {
			return nil, fmt.Errorf("--feed: %w", err)
		}
		res.Feed = feedURL
	}

	logging.Debug("Resolved endpoint",
		zap.String("url", res.URL),
		zap.String("source", string(res.Source)),
		zap.String("profile", res.Profile),
	)

	if res.Profile != "" {
		registry.TouchEndpoint(res.Profile)
		if err := registry.Save(); err != nil {
			logging.Warn("Failed to record endpoint use", zap.Error(err))
		}
	}
	return res, nil
}

// newClient creates a collection client for url with the configured timeout
func newClient(url string) *collection.Client {
	client := collection.NewClient(url)
	client.SetTimeout(timeout())
	client.UserAgent = version.UserAgent("todolist")
	return client
}

// newController creates a controller whose alerts print to stderr
func newController(cmd *cobra.Command, url string) *todo.Controller {
	printer := ui.NewPrinter(cmd.ErrOrStderr())
	return todo.NewController(newClient(url), todo.AlerterFunc(printer.PrintAlert))
}
