package collection

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const mockListResponse = `[{"id":"1","title":"A"},{"id":"2","title":"B"}]`

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/todos")

	if client.BaseURL != "http://localhost:8080/todos" {
		t.Errorf("BaseURL = %s, want http://localhost:8080/todos", client.BaseURL)
	}

	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should not be nil")
	}

	if client.HTTPClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.HTTPClient.Timeout, DefaultTimeout)
	}
}

func TestSetTimeout(t *testing.T) {
	client := NewClient("http://localhost:8080/todos")
	client.SetTimeout(5 * time.Second)

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
}

func TestRecordURL(t *testing.T) {
	tests := []struct {
		base string
		id   string
		want string
	}{
		{"http://h/api/todos", "3", "http://h/api/todos/3"},
		{"http://h/api/todos/", "3", "http://h/api/todos/3"},
		{"http://h/api/todos", "a b", "http://h/api/todos/a%20b"},
	}

	for _, tt := range tests {
		client := NewClient(tt.base)
		if got := client.RecordURL(tt.id); got != tt.want {
			t.Errorf("RecordURL(%q) with base %q = %q, want %q", tt.id, tt.base, got, tt.want)
		}
	}
}

func TestList_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/todos" {
			t.Errorf("Path = %s, want /todos", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mockListResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL + "/todos")
	records, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []Record{{ID: "1", Title: "A"}, {ID: "2", Title: "B"}}
	if len(records) != len(want) {
		t.Fatalf("len(records) = %d, want %d", len(records), len(want))
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("records[%d] = %+v, want %+v", i, records[i], want[i])
		}
	}
}

func TestList_NumericIDsAndExtraFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":12,"title":"X","createdAt":"2024-01-01"}]`))
	}))
	defer server.Close()

	records, err := NewClient(server.URL).List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != "12" || records[0].Title != "X" {
		t.Errorf("records = %+v, want [{12 X}]", records)
	}
}

func TestList_EmptyBodyArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	records, err := NewClient(server.URL).List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if records == nil {
		t.Error("List() should return an empty slice, not nil")
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}

func TestList_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).List(context.Background())
	if err == nil {
		t.Fatal("List() should fail on HTTP 500")
	}

	if !IsHTTPError(err) {
		t.Errorf("expected HTTP error, got %v", err)
	}

	if got := MessageOf(err); got != "Request failed with status code 500" {
		t.Errorf("MessageOf() = %q, want %q", got, "Request failed with status code 500")
	}
}

func TestList_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).List(context.Background())
	if !IsParseError(err) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestList_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := server.URL
	server.Close()

	_, err := NewClient(target).List(context.Background())
	if err == nil {
		t.Fatal("List() should fail when the server is gone")
	}
	if !IsNetworkError(err) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestList_Canceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(mockListResponse))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(server.URL).List(ctx)
	if !IsCanceled(err) {
		t.Errorf("expected canceled error, got %v", err)
	}
}

func TestCreate_SendsTitle(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", ct)
		}
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"9","title":"Buy milk"}`))
	}))
	defer server.Close()

	rec, err := NewClient(server.URL).Create(context.Background(), "Buy milk")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if gotBody["title"] != "Buy milk" {
		t.Errorf("body title = %q, want Buy milk", gotBody["title"])
	}
	if len(gotBody) != 1 {
		t.Errorf("body = %v, want only a title field", gotBody)
	}
	if rec.ID != "9" {
		t.Errorf("ID = %s, want 9", rec.ID)
	}
}

func TestUpdate_PutsToRecordURL(t *testing.T) {
	var gotPath, gotMethod, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		_, _ = w.Write([]byte(`{"id":"2","title":"B2"}`))
	}))
	defer server.Close()

	rec, err := NewClient(server.URL+"/todos").Update(context.Background(), "2", "B2")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("Method = %s, want PUT", gotMethod)
	}
	if gotPath != "/todos/2" {
		t.Errorf("Path = %s, want /todos/2", gotPath)
	}
	if gotBody != `{"title":"B2"}` {
		t.Errorf("Body = %s, want {\"title\":\"B2\"}", gotBody)
	}
	if rec.Title != "B2" {
		t.Errorf("Title = %s, want B2", rec.Title)
	}
}

func TestUpdate_EmptyID(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1").Update(context.Background(), "", "x")
	if !IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDelete_IgnoresBody(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("Method = %s, want DELETE", r.Method)
		}
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`this is not json`))
	}))
	defer server.Close()

	if err := NewClient(server.URL+"/todos").Delete(context.Background(), "3"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if gotPath != "/todos/3" {
		t.Errorf("Path = %s, want /todos/3", gotPath)
	}
}

func TestDelete_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`"Not found"`))
	}))
	defer server.Close()

	err := NewClient(server.URL).Delete(context.Background(), "3")
	if !IsNotFound(err) {
		t.Errorf("expected 404 error, got %v", err)
	}

	var collErr *Error
	if !errors.As(err, &collErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !strings.Contains(collErr.Endpoint, "127.0.0.1") {
		t.Errorf("Endpoint = %q, want host of test server", collErr.Endpoint)
	}
}
