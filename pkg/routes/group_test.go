package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/requests",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: ok},
			{Method: "DELETE", Pattern: "/{id}", Handler: ok},
		},
		Children: []routes.Group{{
			Prefix: "/{id}",
			Routes: []routes.Route{{Method: "POST", Pattern: "/selection", Handler: ok}},
		}},
	})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"POST", "/requests", http.StatusOK},
		{"DELETE", "/requests/7", http.StatusOK},
		{"POST", "/requests/7/selection", http.StatusOK},
		{"GET", "/requests", http.StatusMethodNotAllowed},
		{"GET", "/usage", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
