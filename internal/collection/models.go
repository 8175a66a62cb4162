package collection

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Record is a single todo item in the remote collection.
// The endpoint assigns ID on creation; the client never generates one.
type Record struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// String renders the record the way list rows show it: "id: title"
func (r Record) String() string {
	return fmt.Sprintf("%s: %s", r.ID, r.Title)
}

// titleBody is the request body for create and update
type titleBody struct {
	Title string `json:"title"`
}

// FindByID returns the record with the given id, or nil.
func FindByID(records []Record, id string) *Record {
	for i := range records {
		if records[i].ID == id {
			rec := records[i]
			return &rec
		}
	}
	return nil
}

// JoinURL appends a path-escaped record id to a collection URL.
func JoinURL(base string, id string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(id)
}

// UnmarshalJSON accepts numeric ids as well as strings; some collection
// servers (json-server, for one) emit ids as numbers.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    json.RawMessage `json:"id"`
		Title string          `json:"title"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Title = raw.Title
	r.ID = ""
	if len(raw.ID) == 0 || string(raw.ID) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw.ID, &s); err == nil {
		r.ID = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw.ID, &n); err != nil {
		return fmt.Errorf("record id must be a string or number: %s", string(raw.ID))
	}
	r.ID = n.String()
	return nil
}
