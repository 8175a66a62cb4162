package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/todolist/internal/collection"
)

func TestHeader_Render(t *testing.T) {
	out := NewHeader("Todo List", "todolist ls",
		Param{Key: "Endpoint", Value: "http://127.0.0.1:8080/todos"},
		Param{Key: "Profile", Value: "local"},
	).SetWidth(80).Render()

	for _, want := range []string{"TODO LIST", "todolist ls", "Endpoint:", "http://127.0.0.1:8080/todos", "Profile:"} {
		if !strings.Contains(out, want) {
			t.Errorf("header should contain %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Endpoint") > strings.Index(out, "Profile") {
		t.Error("params should render in the order given")
	}
}

func TestRenderRecords(t *testing.T) {
	records := []collection.Record{
		{ID: "1", Title: "Buy milk"},
		{ID: "10", Title: "Walk dog"},
	}

	out := RenderRecords(records, 2, 80)
	for _, want := range []string{" 1  Buy milk", "10  Walk dog", "2 records"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderRecords() should contain %q:\n%s", want, out)
		}
	}
}

func TestRenderRecords_LongTitleKept(t *testing.T) {
	title := strings.Repeat("long ", 30) + "END"
	out := RenderRecords([]collection.Record{{ID: "1", Title: title}}, 1, 60)

	if strings.Contains(out, "…") {
		t.Errorf("titles should not be shortened:\n%s", out)
	}
	squash := func(s string) string { return strings.Join(strings.Fields(s), "") }
	if !strings.Contains(squash(out), squash(title)) {
		t.Errorf("RenderRecords() should carry the whole title:\n%s", out)
	}
}

func TestRenderRecords_Partial(t *testing.T) {
	out := RenderRecords([]collection.Record{{ID: "1", Title: "A"}}, 30, 80)
	if !strings.Contains(out, "showing 1 of 30 records") {
		t.Errorf("RenderRecords() should note the cap:\n%s", out)
	}
}

func TestRenderRecords_Empty(t *testing.T) {
	if out := RenderRecords(nil, 0, 80); !strings.Contains(out, "No records.") {
		t.Errorf("RenderRecords(nil) = %q", out)
	}
}

func TestResult_Render(t *testing.T) {
	ok := NewSuccessResult("Record added", Param{Key: "ID", Value: "7"}).SetWidth(80).Render()
	if !strings.Contains(ok, "SUCCESS") || !strings.Contains(ok, "Record added") || !strings.Contains(ok, "7") {
		t.Errorf("success box:\n%s", ok)
	}

	failed := NewFailureResult("Add failed", errors.New("boom"), []string{"Check the URL"}).SetWidth(80).Render()
	for _, want := range []string{"FAILED", "Error: boom", "Troubleshooting:", "Check the URL"} {
		if !strings.Contains(failed, want) {
			t.Errorf("failure box should contain %q:\n%s", want, failed)
		}
	}

	warn := NewWarningResult("Nothing selected").AddDetail("Hint", "pass an id").SetWidth(80).Render()
	if !strings.Contains(warn, "WARNING") || !strings.Contains(warn, "pass an id") {
		t.Errorf("warning box:\n%s", warn)
	}
}

func TestHints(t *testing.T) {
	tips := Hints(collection.NewHTTPError(404, "example.com"))
	if len(tips) == 0 {
		t.Fatal("404 should have troubleshooting tips")
	}
	for _, tip := range tips {
		if strings.HasPrefix(tip, "•") {
			t.Errorf("tip %q should not keep its bullet", tip)
		}
	}

	if Hints(nil) != nil {
		t.Error("nil error should have no tips")
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		if got := Confirm(strings.NewReader(tt.input), &out, "Delete 1: A?"); got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Delete 1: A? [y/N]") {
			t.Errorf("prompt not printed: %q", out.String())
		}
	}
}

func TestPrinter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out).SetWidth(10)

	if p.Width() != MinTerminalWidth {
		t.Errorf("Width() = %d, should clamp to %d", p.Width(), MinTerminalWidth)
	}

	p.PrintAlert("Please enter a valid title")
	if !strings.Contains(out.String(), "Please enter a valid title") {
		t.Errorf("PrintAlert output = %q", out.String())
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"canceled", collection.NewNetworkError("GET request failed", context.Canceled, "example.com"), "canceled"},
		{"timeout", collection.NewNetworkError("GET request failed", context.DeadlineExceeded, "example.com"), "endpoint unreachable"},
		{"http", collection.NewHTTPError(500, "example.com"), "endpoint rejected the request"},
		{"parse", collection.NewParseError("bad json", errors.New("eof")), "unexpected response"},
		{"validation", collection.NewValidationError("record id is required"), "invalid request"},
		{"plain", errors.New("boom"), "unexpected error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorKind(tt.err); got != tt.want {
				t.Errorf("ErrorKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrinter_PrintErrorLeadsWithSummary(t *testing.T) {
	var out bytes.Buffer
	NewPrinter(&out).SetWidth(80).PrintError("Failed to fetch records", collection.NewHTTPError(503, "example.com"))

	for _, want := range []string{"Failed to fetch records", "endpoint rejected the request", "Endpoint error (HTTP 503)"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("PrintError output should contain %q:\n%s", want, out.String())
		}
	}
}
