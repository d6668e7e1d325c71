package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/remiblancher/device-registry/internal/api/dto"
	"github.com/remiblancher/device-registry/pkg/device"
)

func TestU_Negotiate(t *testing.T) {
	tests := []struct {
		accept string
		want   string
		ok     bool
	}{
		{"", MediaTypeJSON, true},
		{"application/json", MediaTypeJSON, true},
		{"application/cbor", MediaTypeCBOR, true},
		{"application/cbor, application/json;q=0.5", MediaTypeCBOR, true},
		{"text/plain, application/*", MediaTypeJSON, true},
		{"*/*", MediaTypeJSON, true},
		{"text/html", "", false},
		{"garbage;;", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.accept != "" {
				r.Header.Set("Accept", tt.accept)
			}
			got, ok := negotiate(r)
			if got != tt.want || ok != tt.ok {
				t.Errorf("negotiate(%q) = %q, %v; want %q, %v", tt.accept, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestU_Respond_CBORDeterministic(t *testing.T) {
	body := func() []byte {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Accept", MediaTypeCBOR)
		rec := httptest.NewRecorder()
		respond(rec, r, http.StatusOK, dto.ReadyResponse{
			Ready:  true,
			Checks: map[string]bool{"server": true, "catalog": true, "audit": true},
		})
		return rec.Body.Bytes()
	}

	first := body()
	for i := 0; i < 10; i++ {
		if !bytes.Equal(first, body()) {
			t.Fatal("CBOR encoding is not deterministic")
		}
	}
}

func TestU_Ready_EmptyCatalog(t *testing.T) {
	catalog, err := device.NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	h := NewHealthHandler("test", catalog)

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
