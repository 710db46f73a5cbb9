// Package httputil holds the JSON response helpers and the error-code
// vocabulary shared by every handler. Error bodies carry a human-readable
// message plus a stable machine-readable code the mobile clients branch on;
// internal error text never reaches a response body.
package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the error body shape for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// RespondJSON writes data as a JSON response with the given status code.
// By the time encoding can fail the status line is already on the wire, so
// the failure is logged rather than answered.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondErrorWithCode writes an ErrorResponse. code must be one of the
// constants in codes.go; clients treat unknown codes as internal errors.
func RespondErrorWithCode(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, ErrorResponse{Error: message, Code: code}, statusCode)
}
