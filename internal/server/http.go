package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/muurk/todolist/internal/collection"
	"github.com/muurk/todolist/internal/feed"
	"github.com/muurk/todolist/internal/logging"
)

const (
	// RequestIDHeader carries the request id in both directions
	RequestIDHeader = "X-Request-ID"

	// maxBodySize caps request bodies
	maxBodySize = 1 << 20

	routeUnmatched = "unmatched"
)

// reserved paths that can never be collection names
var reserved = map[string]bool{
	"healthz": true,
	"metrics": true,
	"ws":      true,
}

// messageBody is the error body, in the same shape mockapi.io uses
type messageBody struct {
	Message string `json:"message"`
}

// routes builds the router. Fixed paths are registered before the
// collection patterns so they win.
func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	r.Handle("/ws", s.hub).Methods(http.MethodGet)

	r.HandleFunc("/{collection}", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/{collection}", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/{collection}/{id}", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/{collection}/{id}", s.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/{collection}/{id}", s.handleDelete).Methods(http.MethodDelete)

	// Router middleware only wraps matched routes
	r.NotFoundHandler = s.instrument(http.HandlerFunc(handleNotFound))
	r.MethodNotAllowedHandler = s.instrument(http.HandlerFunc(handleMethodNotAllowed))

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

// handleList handles GET /{collection}. An unknown collection is empty.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	name, ok := collectionName(w, r)
	if !ok {
		return
	}

	records := []collection.Record{}
	if store := s.collections.Get(name, false); store != nil {
		records = store.List()
	}
	writeJSON(w, http.StatusOK, records)
}

// handleCreate handles POST /{collection}
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	name, ok := collectionName(w, r)
	if !ok {
		return
	}

	var req createRequest
	if !s.decode(w, r, &req) {
		return
	}

	rec := s.collections.Get(name, true).Create(req.Title)
	s.publish(feed.EventCreated, name, rec)
	writeJSON(w, http.StatusCreated, rec)
}

// handleGet handles GET /{collection}/{id}
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	store, id, ok := s.record(w, r)
	if !ok {
		return
	}

	rec, found := store.Get(id)
	if !found {
		handleNotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleUpdate handles PUT /{collection}/{id}. A body without a title
// returns the record unchanged.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	store, id, ok := s.record(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if !s.decode(w, r, &req) {
		return
	}

	var (
		rec   collection.Record
		found bool
	)
	if req.Title == nil {
		rec, found = store.Get(id)
	} else {
		rec, found = store.Update(id, *req.Title)
	}
	if !found {
		handleNotFound(w, r)
		return
	}

	if req.Title != nil {
		s.publish(feed.EventUpdated, mux.Vars(r)["collection"], rec)
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleDelete handles DELETE /{collection}/{id} and echoes the deleted record
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	store, id, ok := s.record(w, r)
	if !ok {
		return
	}

	rec, found := store.Delete(id)
	if !found {
		handleNotFound(w, r)
		return
	}

	s.publish(feed.EventDeleted, mux.Vars(r)["collection"], rec)
	writeJSON(w, http.StatusOK, rec)
}

// record resolves the store and id of a /{collection}/{id} request,
// writing a 404 when the collection does not exist
func (s *Server) record(w http.ResponseWriter, r *http.Request) (*Store, string, bool) {
	name, ok := collectionName(w, r)
	if !ok {
		return nil, "", false
	}

	store := s.collections.Get(name, false)
	if store == nil {
		handleNotFound(w, r)
		return nil, "", false
	}
	return store, mux.Vars(r)["id"], true
}

// decode reads a JSON body into req and validates it, writing a 400 on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(req); err != nil {
		logging.Debug("Rejected request body",
			zap.String("request_id", requestID(r)),
			zap.Error(err),
		)
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}

	if err := s.validator.Validate(req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// publish broadcasts a change on the default collection. Other collections
// have no feed.
func (s *Server) publish(t feed.EventType, name string, rec collection.Record) {
	if name != s.config.Collection {
		return
	}
	s.hub.Publish(feed.NewEvent(t, rec))
	s.metrics.RecordEvent(t)
}

func collectionName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := mux.Vars(r)["collection"]
	if reserved[name] {
		handleNotFound(w, r)
		return "", false
	}
	return name, true
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotFound, "Not found")
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageBody{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("Failed to write response body", zap.Error(err))
	}
}

type requestIDKey struct{}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

// instrument assigns a request id, then logs and measures the request
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := routeUnmatched
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		elapsed := time.Since(start)
		s.metrics.RecordRequest(r.Method, route, rec.status, elapsed)
		logging.LogServerRequest(id, r.RemoteAddr, r.Method, r.URL.Path, rec.status, elapsed)
	})
}

// statusRecorder captures the response status. It passes Hijack through so
// the feed can upgrade to a websocket.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *statusRecorder) WriteHeader(status int) {
	if !w.wrote {
		w.status = status
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(b)
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	// A hijacked feed connection is logged as a protocol switch
	w.status = http.StatusSwitchingProtocols
	w.wrote = true
	return hj.Hijack()
}

func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

