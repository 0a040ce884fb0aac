package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// errorBody is the shape of every transport-level failure.
type errorBody struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// readBody reads the raw request body up to limit bytes. The raw bytes are
// needed for signature verification, so the body is never decoded in place.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, bodyError(err)
	}
	return body, nil
}

// writeJSON writes v as a JSON response with the given status code.
// The Content-Type is set to application/json.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, httpStatus(err), errorBody{Status: "error", Reason: reason(err)})
}

// payloadFields flattens a typed payload into its JSON object fields.
// Non-object payloads (and nil) contribute nothing.
func payloadFields(payload any) (map[string]any, error) {
	fields := map[string]any{}
	if payload == nil {
		return fields, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 || b[0] != '{' {
		return fields, nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}
