package httpapi

import (
	"encoding/json"
	"net/http"

	"clubhub.org/internal/obs"
)

// envelope is the uniform response shape for every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, envelope{Success: true, Message: message, Data: data})
}

func writeFailure(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, envelope{Success: false, Message: message})
}

func writeErrors(w http.ResponseWriter, code int, message string, errs any) {
	writeJSON(w, code, envelope{Success: false, Message: message, Errors: errs})
}

// writeNotFound emits the standard "<Resource> not found" failure.
func writeNotFound(w http.ResponseWriter, resource string) {
	writeFailure(w, http.StatusNotFound, resource+" not found")
}

func writeInternal(w http.ResponseWriter, err error) {
	obs.Logger().Printf("internal error: %v", err)
	writeFailure(w, http.StatusInternalServerError, "Internal server error")
}

// decodeJSON parses the request body into v. A false return means the
// failure response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
