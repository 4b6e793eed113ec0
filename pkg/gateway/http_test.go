package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kittclouds/gowell/pkg/mood"
)

func testEntry() *mood.Entry {
	return &mood.Entry{
		ID:          "local-abc",
		UserID:      "user-1",
		Value:       4,
		ClientToken: "token-abc",
		CreatedAt:   time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC),
	}
}

func TestInsert(t *testing.T) {
	var gotAuth, gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		gotPath = r.URL.Path

		var e mood.Entry
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		e.Synced = true
		json.NewEncoder(w).Encode(&e)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, "secret")
	confirmed, err := g.Insert(context.Background(), testEntry())
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotMethod != http.MethodPost || gotPath != "/v1/mood-entries" {
		t.Errorf("Unexpected request: %s %s", gotMethod, gotPath)
	}
	if confirmed.ID != "local-abc" {
		t.Errorf("Backend must echo the locally minted id, got %q", confirmed.ID)
	}
}

func TestQueryMarksSynced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("userId") != "user-1" || q.Get("start") == "" || q.Get("end") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode([]*mood.Entry{testEntry()})
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, "secret")
	entries, err := g.Query(context.Background(), "user-1", time.Now().AddDate(0, 0, -7), time.Now())
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 1 || !entries[0].Synced {
		t.Errorf("Expected 1 synced entry, got %+v", entries)
	}
}

func TestUpsertSendsConflictKey(t *testing.T) {
	var gotConflict string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotConflict = r.URL.Query().Get("onConflict")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, "secret")
	if err := g.Upsert(context.Background(), testEntry()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if gotConflict != "clientToken" {
		t.Errorf("Expected clientToken conflict key, got %q", gotConflict)
	}
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthenticated},
		{http.StatusForbidden, ErrUnauthenticated},
		{http.StatusInternalServerError, ErrUnreachable},
		{http.StatusBadGateway, ErrUnreachable},
		{http.StatusUnprocessableEntity, ErrRejected},
		{http.StatusConflict, ErrRejected},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		g := NewHTTPGateway(srv.URL, "secret")
		err := g.Upsert(context.Background(), testEntry())
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: got %v, want %v", tc.status, err, tc.want)
		}
		srv.Close()
	}
}

func TestTransportFailureIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	g := NewHTTPGateway(srv.URL, "secret")
	if err := g.Upsert(context.Background(), testEntry()); !errors.Is(err, ErrUnreachable) {
		t.Errorf("Expected ErrUnreachable, got %v", err)
	}
}

func TestMissingAPIKeyIsUnauthenticated(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, "")
	if err := g.Upsert(context.Background(), testEntry()); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated, got %v", err)
	}
	if called {
		t.Error("Unauthenticated calls must not hit the wire")
	}
}
