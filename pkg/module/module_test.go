package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/module"
)

func TestNewInvalidPrefixPanics(t *testing.T) {
	for _, prefix := range []string{"", "api", "/api/v1"} {
		t.Run(prefix, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("expected panic for prefix %q", prefix)
				}
			}()
			module.New(prefix, http.NewServeMux())
		})
	}
}

func TestRouterDispatch(t *testing.T) {
	inner := http.NewServeMux()
	var seen string
	inner.HandleFunc("POST /requests/{id}/selection", func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path + "|" + r.PathValue("id")
		w.WriteHeader(http.StatusOK)
	})

	api := module.New("/api", inner)
	var hits int
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			next.ServeHTTP(w, r)
		})
	})

	router := module.NewRouter()
	router.Mount(api)
	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"module route", http.MethodPost, "/api/requests/abc/selection", http.StatusOK},
		{"trailing slash", http.MethodPost, "/api/requests/abc/selection/", http.StatusOK},
		{"native route", http.MethodGet, "/healthz", http.StatusNoContent},
		{"unknown", http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}

	if seen != "/requests/abc/selection|abc" {
		t.Errorf("inner saw %q", seen)
	}
	if hits != 2 {
		t.Errorf("module middleware hits: got %d, want 2", hits)
	}
}
