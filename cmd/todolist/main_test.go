package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muurk/todolist/internal/config"
	"github.com/muurk/todolist/internal/server"
	"github.com/muurk/todolist/internal/todo"
)

// startServer runs an in-memory collection seeded with titles
func startServer(t *testing.T, seed ...string) (*server.Server, string) {
	t.Helper()

	srv, err := server.New(server.Config{Seed: seed})
	if err != nil {
		t.Fatalf("server.New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts.URL + "/todos"
}

// execute runs the root command with fresh flag values and a private config file
func execute(t *testing.T, configFile string, stdin string, args ...string) (string, string, error) {
	t.Helper()

	configPath, endpointURL, profileName, feedURL = "", "", "", ""
	logLevel, logFile = "", ""
	timeoutSeconds, scanTimeout = 0, 0
	live, discover, listAll, assumeYes, makeDefault = false, false, false, false, false
	t.Setenv(config.EndpointEnvVar, "")

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", configFile}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func titles(srv *server.Server) []string {
	var out []string
	for _, rec := range srv.Collections().Get("todos", true).List() {
		out = append(out, rec.Title)
	}
	return out
}

func TestList_CapsAtTwenty(t *testing.T) {
	seed := make([]string, 25)
	for i := range seed {
		seed[i] = fmt.Sprintf("item %d", i+1)
	}
	_, url := startServer(t, seed...)
	cfg := filepath.Join(t.TempDir(), "config.yaml")

	out, _, err := execute(t, cfg, "", "ls", "--endpoint", url)
	if err != nil {
		t.Fatalf("ls error = %v", err)
	}
	if !strings.Contains(out, "showing 20 of 25 records") {
		t.Errorf("ls output should be capped at 20 rows, got:\n%s", out)
	}
	if strings.Contains(out, "item 21") {
		t.Error("ls should not print the 21st record")
	}

	out, _, err = execute(t, cfg, "", "ls", "--all", "--endpoint", url)
	if err != nil {
		t.Fatalf("ls --all error = %v", err)
	}
	if !strings.Contains(out, "25 records") || !strings.Contains(out, "item 25") {
		t.Errorf("ls --all should print every record, got:\n%s", out)
	}
}

func TestList_FetchError(t *testing.T) {
	ts := httptest.NewServer(nil)
	url := ts.URL + "/todos"
	ts.Close()

	_, stderr, err := execute(t, filepath.Join(t.TempDir(), "config.yaml"), "", "ls", "--endpoint", url)
	if !errors.Is(err, errReported) {
		t.Fatalf("ls error = %v, want errReported", err)
	}
	if !strings.Contains(stderr, "Failed to fetch records") {
		t.Errorf("stderr should describe the failure, got:\n%s", stderr)
	}
}

func TestAdd(t *testing.T) {
	srv, url := startServer(t, "A")
	cfg := filepath.Join(t.TempDir(), "config.yaml")

	out, _, err := execute(t, cfg, "", "add", "Buy", "milk", "--endpoint", url)
	if err != nil {
		t.Fatalf("add error = %v", err)
	}
	if !strings.Contains(out, "Record added") {
		t.Errorf("add output = %q", out)
	}
	if got := titles(srv); len(got) != 2 || got[1] != "Buy milk" {
		t.Errorf("titles after add = %v", got)
	}
}

func TestAdd_BlankTitleSendsNothing(t *testing.T) {
	srv, url := startServer(t)

	_, stderr, err := execute(t, filepath.Join(t.TempDir(), "config.yaml"), "", "add", "   ", "--endpoint", url)
	if !errors.Is(err, errReported) {
		t.Fatalf("add error = %v, want errReported", err)
	}
	if !strings.Contains(stderr, todo.MsgInvalidTitle) {
		t.Errorf("stderr = %q, want %q alert", stderr, todo.MsgInvalidTitle)
	}
	if got := titles(srv); len(got) != 0 {
		t.Errorf("blank add should not create records, got %v", got)
	}
}

func TestUpdate(t *testing.T) {
	srv, url := startServer(t, "A", "B")
	cfg := filepath.Join(t.TempDir(), "config.yaml")

	if _, _, err := execute(t, cfg, "", "update", "2", "B2", "--endpoint", url); err != nil {
		t.Fatalf("update error = %v", err)
	}
	if got := titles(srv); strings.Join(got, ",") != "A,B2" {
		t.Errorf("titles after update = %v, want [A B2]", got)
	}

	_, _, err := execute(t, cfg, "", "update", "9", "X", "--endpoint", url)
	if err == nil || !strings.Contains(err.Error(), `no record with id "9"`) {
		t.Errorf("update of unknown id error = %v", err)
	}
}

func TestRemove(t *testing.T) {
	srv, url := startServer(t, "A", "B")
	cfg := filepath.Join(t.TempDir(), "config.yaml")

	// Declining keeps the record
	if _, _, err := execute(t, cfg, "n\n", "rm", "1", "--endpoint", url); err != nil {
		t.Fatalf("rm (declined) error = %v", err)
	}
	if got := titles(srv); len(got) != 2 {
		t.Fatalf("declined rm should keep records, got %v", got)
	}

	_, stderr, err := execute(t, cfg, "y\n", "rm", "1", "--endpoint", url)
	if err != nil {
		t.Fatalf("rm error = %v", err)
	}
	if !strings.Contains(stderr, todo.DeletedMessage("A")) {
		t.Errorf("stderr = %q, want deletion alert", stderr)
	}
	if got := titles(srv); strings.Join(got, ",") != "B" {
		t.Errorf("titles after rm = %v, want [B]", got)
	}

	if _, _, err := execute(t, cfg, "", "rm", "2", "--yes", "--endpoint", url); err != nil {
		t.Fatalf("rm --yes error = %v", err)
	}
	if got := titles(srv); len(got) != 0 {
		t.Errorf("titles after rm --yes = %v", got)
	}
}

func TestRemove_AlreadyDeleted(t *testing.T) {
	srv, err := server.New(server.Config{Seed: []string{"A"}})
	if err != nil {
		t.Fatalf("server.New() error = %v", err)
	}
	// Another client removes the record between the fetch and the DELETE
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			srv.Collections().Get("todos", true).Delete("1")
		}
		srv.Handler().ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	_, stderr, err := execute(t, filepath.Join(t.TempDir(), "config.yaml"), "", "rm", "1", "--yes", "--endpoint", ts.URL+"/todos")
	if !errors.Is(err, errReported) {
		t.Fatalf("rm error = %v, want errReported", err)
	}
	for _, want := range []string{todo.MsgDeleteFailed, "Record already deleted"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr should contain %q, got:\n%s", want, stderr)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	_, url := startServer(t, "A")
	cfg := filepath.Join(t.TempDir(), "config.yaml")

	if _, _, err := execute(t, cfg, "", "config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, _, err := execute(t, cfg, "", "config", "init"); err == nil {
		t.Error("second config init should refuse to overwrite")
	}

	if _, _, err := execute(t, cfg, "", "config", "set-endpoint", "test", url, "--default"); err != nil {
		t.Fatalf("config set-endpoint error = %v", err)
	}

	reg, err := config.LoadRegistryFrom(cfg)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.DefaultEndpoint != "test" {
		t.Errorf("DefaultEndpoint = %q, want test", reg.DefaultEndpoint)
	}

	// ls now uses the saved default and records its use
	out, _, err := execute(t, cfg, "", "ls")
	if err != nil {
		t.Fatalf("ls error = %v", err)
	}
	if !strings.Contains(out, "1 record") {
		t.Errorf("ls output = %q", out)
	}
	reg, _ = config.LoadRegistryFrom(cfg)
	if reg.GetEndpoint("test").LastUsed.IsZero() {
		t.Error("ls should record last_used on the resolved endpoint")
	}

	if _, _, err := execute(t, cfg, "", "config", "use", "nope"); err == nil {
		t.Error("config use of an unknown name should fail")
	}
	if _, _, err := execute(t, cfg, "", "config", "use", "local"); err != nil {
		t.Fatalf("config use error = %v", err)
	}
	if _, _, err := execute(t, cfg, "", "config", "rm", "test"); err != nil {
		t.Fatalf("config rm error = %v", err)
	}

	out, _, err = execute(t, cfg, "", "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"local (default)", "ws://127.0.0.1:8080/ws", "Preferences"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output should contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, url) {
		t.Error("config show should not list a removed endpoint")
	}
}

func TestWatch_RequiresFeed(t *testing.T) {
	_, url := startServer(t)

	_, _, err := execute(t, filepath.Join(t.TempDir(), "config.yaml"), "", "watch", "--endpoint", url)
	if err == nil || !strings.Contains(err.Error(), "no change feed known") {
		t.Errorf("watch without a feed error = %v", err)
	}

	_, _, err = execute(t, filepath.Join(t.TempDir(), "config.yaml"), "", "watch", "--endpoint", url, "--feed", "http://x")
	if err == nil || !strings.Contains(err.Error(), "--feed") {
		t.Errorf("watch with a non-websocket feed error = %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, filepath.Join(t.TempDir(), "config.yaml"), "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "todolist ") {
		t.Errorf("version output = %q", out)
	}
}
