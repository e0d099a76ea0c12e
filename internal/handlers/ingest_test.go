package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"coldwatch/internal/handlers"
	"coldwatch/internal/storage"
)

func newTestHandler(t *testing.T) (*handlers.ReadingHandler, *storage.GormStore) {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return handlers.NewReadingHandler(handlers.ReadingConfig{Store: store}), store
}

func postReading(handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/fridge-reading", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestReadingHandler_ValidReading(t *testing.T) {
	handler, store := newTestHandler(t)

	w := postReading(handler, `{"id":1,"temperature":4.2,"humidity":55.0,"fridgeNo":2}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp handlers.ReadingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.Success || resp.ID != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}

	readings, err := store.RecentReadings(context.Background(), time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("expected exactly 1 row, got %d", len(readings))
	}

	got := readings[0]
	if got.ID != 1 || got.Temperature != 4.2 || got.Humidity != 55.0 || got.FridgeNo != 2 {
		t.Errorf("stored fields do not match payload: %+v", got)
	}
}

func TestReadingHandler_OmittedTimestampDefaultsToNow(t *testing.T) {
	handler, store := newTestHandler(t)

	before := time.Now().Add(-time.Second)
	w := postReading(handler, `{"id":7,"temperature":3.0,"humidity":40.0,"fridgeNo":1}`)
	after := time.Now().Add(time.Second)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}

	readings, err := store.RecentReadings(context.Background(), before.Add(-time.Minute))
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("expected 1 row, got %d", len(readings))
	}

	ts := readings[0].Timestamp
	if ts.Before(before) || ts.After(after) {
		t.Errorf("timestamp %v not within insertion window [%v, %v]", ts, before, after)
	}
}

func TestReadingHandler_DuplicateID(t *testing.T) {
	handler, store := newTestHandler(t)

	body := `{"id":1,"temperature":4.2,"humidity":55.0,"fridgeNo":2}`

	if w := postReading(handler, body); w.Code != http.StatusCreated {
		t.Fatalf("first insert: expected 201, got %d", w.Code)
	}

	w := postReading(handler, body)
	if w.Code != http.StatusConflict {
		t.Fatalf("second insert: expected 409, got %d: %s", w.Code, w.Body.String())
	}

	var resp handlers.ReadingResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Success {
		t.Error("duplicate insert reported success")
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 row with the reused id, got %d", count)
	}
}

func TestReadingHandler_MalformedPayload(t *testing.T) {
	handler, _ := newTestHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"wrong types", `{"id":"abc","temperature":"hot"}`},
		{"missing id", `{"temperature":4.2,"humidity":55.0,"fridgeNo":2}`},
		{"missing temperature", `{"id":1,"humidity":55.0,"fridgeNo":2}`},
		{"missing humidity", `{"id":1,"temperature":4.2,"fridgeNo":2}`},
		{"missing fridgeNo", `{"id":1,"temperature":4.2,"humidity":55.0}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postReading(handler, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestReadingHandler_MethodNotAllowed(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/fridge-reading", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestReadingHandler_UnsupportedContentType(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/fridge-reading",
		bytes.NewBufferString("id=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", w.Code)
	}
}
