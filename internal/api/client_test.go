package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mpetrov/folio/pkg/models"
)

func TestSavePosition(t *testing.T) {
	var got models.ReadingPosition
	var gotPath, gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	pos := models.ReadingPosition{BookID: "abc123", Chapter: 2, ScrollOffset: 500, Progress: 0.33}
	if err := c.SavePosition(pos); err != nil {
		t.Fatal(err)
	}

	if gotPath != "/api/books/abc123/progress" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth = %q", gotAuth)
	}
	if got.Chapter != 2 || got.Progress != 0.33 {
		t.Errorf("payload = %+v", got)
	}
}

func TestSavePositionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if err := c.SavePosition(models.ReadingPosition{BookID: "x"}); err == nil {
		t.Error("server error should surface from SavePosition")
	}
}

func TestGetPosition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.ReadingPosition{BookID: "abc", Chapter: 5, Progress: 0.8})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	pos, err := c.GetPosition("abc")
	if err != nil {
		t.Fatal(err)
	}
	if pos.Chapter != 5 || pos.Progress != 0.8 {
		t.Errorf("pos = %+v", pos)
	}
}

func TestSyncPositionSwallowsFailure(t *testing.T) {
	// Endpoint does not exist at all; the fire-and-forget path must not
	// panic or surface anything.
	c := NewClient("http://127.0.0.1:1", "")
	c.SyncPosition(models.ReadingPosition{BookID: "gone"})
}
