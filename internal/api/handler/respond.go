package handler

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/remiblancher/device-registry/internal/api/dto"
	apierrors "github.com/remiblancher/device-registry/internal/api/errors"
)

// Media types served by the API.
const (
	MediaTypeJSON = "application/json"
	MediaTypeCBOR = "application/cbor"
)

// cborEnc uses core deterministic encoding so identical responses produce
// identical bytes.
var cborEnc, _ = cbor.CoreDetEncOptions().EncMode()

// negotiate picks the response media type from the Accept header. JSON is
// the default; ok is false when the client only accepts types we cannot
// produce.
func negotiate(r *http.Request) (mediaType string, ok bool) {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return MediaTypeJSON, true
	}
	for _, part := range strings.Split(accept, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mt {
		case MediaTypeCBOR:
			return MediaTypeCBOR, true
		case MediaTypeJSON, "application/*", "*/*":
			return MediaTypeJSON, true
		}
	}
	return "", false
}

// respond writes data as JSON or CBOR depending on the Accept header.
func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	mediaType, ok := negotiate(r)
	if !ok {
		writeJSON(w, http.StatusNotAcceptable, apierrors.NewNotAcceptable(r.Header.Get("Accept")))
		return
	}

	if mediaType == MediaTypeCBOR {
		body, err := cborEnc.Marshal(data)
		if err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", MediaTypeCBOR)
		w.WriteHeader(status)
		_, _ = w.Write(body)
		return
	}

	writeJSON(w, status, data)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", MediaTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// respondError writes an error response.
func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *dto.APIError) {
	respond(w, r, status, apiErr)
}

// respondErr maps err through the API error taxonomy.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := apierrors.MapError(err)
	respondError(w, r, status, apiErr)
}
