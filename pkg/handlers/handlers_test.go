package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/handlers"
)

type selection struct {
	Index int `json:"index"`
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusAccepted, map[string]string{"state": "awaiting_selection"})

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusAccepted {
		t.Errorf("status: got %d, want 202", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %s", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["state"] != "awaiting_selection" {
		t.Errorf("state: got %q", body["state"])
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, status := range []int{http.StatusNotFound, http.StatusBadGateway} {
		rec := httptest.NewRecorder()
		handlers.RespondError(rec, logger, status, errors.New("no employee matches \"Casey\""))

		if rec.Code != status {
			t.Errorf("status: got %d, want %d", rec.Code, status)
		}

		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if body["error"] != "no employee matches \"Casey\"" {
			t.Errorf("error: got %q", body["error"])
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		limit     int64
		want      int
		wantErr   bool
		wantLarge bool
	}{
		{name: "valid", body: `{"index":2}`, limit: 1024, want: 2},
		{name: "no limit", body: `{"index":0}`, want: 0},
		{name: "unknown field", body: `{"index":1,"extra":true}`, limit: 1024, wantErr: true},
		{name: "malformed", body: `{"index":`, limit: 1024, wantErr: true},
		{name: "too large", body: `{"index":1234567890}`, limit: 8, wantErr: true, wantLarge: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			got, err := handlers.DecodeJSON[selection](rec, req, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantLarge && !errors.Is(err, handlers.ErrBodyTooLarge) {
				t.Errorf("error = %v, want ErrBodyTooLarge", err)
			}
			if !tt.wantErr && got.Index != tt.want {
				t.Errorf("Index = %d, want %d", got.Index, tt.want)
			}
		})
	}
}
