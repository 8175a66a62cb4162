package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/todolist/internal/collection"
	"github.com/muurk/todolist/internal/feed"
)

func newTestServer(t *testing.T, config Config) (*Server, *httptest.Server) {
	t.Helper()

	srv, err := New(config)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.Hub().Run(ctx)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return srv, ts
}

func do(t *testing.T, method string, url string, body string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestNew_Defaults(t *testing.T) {
	srv, err := New(Config{})
	require.NoError(t, err)

	assert.Equal(t, DefaultCollection, srv.config.Collection)
	assert.Equal(t, IDSequential, srv.config.IDs)
	assert.Equal(t, "", srv.Addr())
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(Config{Collection: "metrics"})
	assert.ErrorContains(t, err, "reserved")

	_, err = New(Config{Port: 70000})
	assert.ErrorContains(t, err, "invalid port")
}

func TestServer_CRUDWithClient(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	client := collection.NewClient(ts.URL + "/todos")
	ctx := context.Background()

	records, err := client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	a, err := client.Create(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, collection.Record{ID: "1", Title: "A"}, *a)

	b, err := client.Create(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, "2", b.ID)

	updated, err := client.Update(ctx, "2", "B2")
	require.NoError(t, err)
	assert.Equal(t, collection.Record{ID: "2", Title: "B2"}, *updated)

	require.NoError(t, client.Delete(ctx, "1"))

	records, err = client.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []collection.Record{{ID: "2", Title: "B2"}}, records)
}

func TestServer_UnknownRecord(t *testing.T) {
	_, ts := newTestServer(t, Config{Seed: []string{"A"}})

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		resp, body := do(t, method, ts.URL+"/todos/42", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, method)
		assert.JSONEq(t, `{"message":"Not found"}`, body)
	}

	resp, _ := do(t, http.MethodPut, ts.URL+"/todos/42", `{"title":"X"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The client surfaces this as an HTTP error
	err := collection.NewClient(ts.URL+"/todos").Delete(context.Background(), "42")
	require.Error(t, err)
	assert.Equal(t, "Request failed with status code 404", collection.MessageOf(err))
}

func TestServer_UnknownCollection(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	resp, body := do(t, http.MethodGet, ts.URL+"/notes", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)

	resp, _ = do(t, http.MethodGet, ts.URL+"/notes/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/a/b/c", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ReservedCollection(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	resp, body := do(t, http.MethodPost, ts.URL+"/metrics", `{"title":"A"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Not found"}`, body)
}

func TestServer_CreateValidation(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing title", `{}`, `{"message":"title is required"}`},
		{"empty title", `{"title":""}`, `{"message":"title is required"}`},
		{"malformed", `{"title":`, `{"message":"Invalid request payload"}`},
		{"wrong type", `{"title":5}`, `{"message":"Invalid request payload"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, ts.URL+"/todos", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.JSONEq(t, tt.want, body)
		})
	}

	resp, body := do(t, http.MethodGet, ts.URL+"/todos", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body, "rejected creates must not store anything")
}

func TestServer_UpdateWithoutTitle(t *testing.T) {
	_, ts := newTestServer(t, Config{Seed: []string{"A"}})

	resp, body := do(t, http.MethodPut, ts.URL+"/todos/1", `{}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"1","title":"A"}`, body)
}

func TestServer_DeleteEchoesRecord(t *testing.T) {
	_, ts := newTestServer(t, Config{Seed: []string{"A", "B"}})

	resp, body := do(t, http.MethodDelete, ts.URL+"/todos/2", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"2","title":"B"}`, body)

	resp, _ = do(t, http.MethodGet, ts.URL+"/todos/2", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Seed(t *testing.T) {
	srv, ts := newTestServer(t, Config{Collection: "tasks", Seed: []string{"A", "B"}})

	_, body := do(t, http.MethodGet, ts.URL+"/tasks", "")

	var records []collection.Record
	require.NoError(t, json.Unmarshal([]byte(body), &records))
	assert.Equal(t, []collection.Record{{ID: "1", Title: "A"}, {ID: "2", Title: "B"}}, records)
	assert.Equal(t, map[string]int{"tasks": 2}, srv.Collections().Sizes())
}

func TestServer_RequestID(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	resp, _ := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestServer_HealthAndMetrics(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)

	do(t, http.MethodPost, ts.URL+"/todos", `{"title":"A"}`)
	do(t, http.MethodGet, ts.URL+"/nowhere/at/all", "")

	resp, body = do(t, http.MethodGet, ts.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `todolist_http_requests_total{method="POST",route="/{collection}",status="201"} 1`)
	assert.Contains(t, body, `route="unmatched",status="404"`)
	assert.Contains(t, body, `todolist_records{collection="todos"} 1`)
	assert.Contains(t, body, `todolist_feed_events_total{type="created"} 1`)
	assert.Contains(t, body, "todolist_feed_subscribers 0")
}

func TestServer_BroadcastsChanges(t *testing.T) {
	srv, ts := newTestServer(t, Config{Seed: []string{"A"}})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan feed.Event, 8)
	done := make(chan error, 1)
	go func() {
		done <- feed.Subscribe(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", func(e feed.Event) {
			received <- e
		})
	}()
	require.Eventually(t, func() bool { return srv.Hub().Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	do(t, http.MethodPost, ts.URL+"/todos", `{"title":"B"}`)
	do(t, http.MethodPut, ts.URL+"/todos/1", `{"title":"A2"}`)
	do(t, http.MethodDelete, ts.URL+"/todos/2", "")
	// Other collections are not fed
	do(t, http.MethodPost, ts.URL+"/notes", `{"title":"N"}`)

	want := []feed.Event{
		{Type: feed.EventCreated, Record: collection.Record{ID: "2", Title: "B"}},
		{Type: feed.EventUpdated, Record: collection.Record{ID: "1", Title: "A2"}},
		{Type: feed.EventDeleted, Record: collection.Record{ID: "2", Title: "B"}},
	}
	for _, w := range want {
		select {
		case e := <-received:
			assert.Equal(t, w.Type, e.Type)
			assert.Equal(t, w.Record, e.Record)
		case <-ctx.Done():
			t.Fatalf("timed out waiting for %s event", w.Type)
		}
	}

	select {
	case e := <-received:
		t.Fatalf("unexpected event %s", e)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestServer_ListenServeShutdown(t *testing.T) {
	srv, err := New(Config{Host: "127.0.0.1", Port: 0})
	require.NoError(t, err)

	assert.Error(t, srv.Serve(context.Background()), "Serve before Listen")

	require.NoError(t, srv.Listen())
	addr := srv.Addr()
	require.NotEmpty(t, addr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	_, err = http.Get("http://" + addr + "/healthz")
	assert.Error(t, err, "listener should be closed")
}
