package server

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the JSON body for all error replies.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeJSON encodes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"encoding failure"}`, http.StatusInternalServerError)
	}
}

// writeError writes a JSON error reply.
func writeError(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, errorResponse{Error: message, Detail: detail})
}
