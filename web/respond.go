// Package web holds the response helpers shared by every handler package:
// JSON envelopes, the structured not-found payload, and XML writing for the
// legacy feed endpoints.
package web

import (
	"encoding/json"
	"encoding/xml"
	"net/http"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// Error writes an {"error": msg} payload.
func Error(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, map[string]string{"error": msg})
}

// NotFound writes the structured not-found payload. The shape is fixed so
// single-item lookups stay distinguishable from an empty list.
func NotFound(w http.ResponseWriter) {
	JSON(w, http.StatusNotFound, map[string]string{"detail": "Not found"})
}

// XML marshals v and writes it with the XML content type.
func XML(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(code)
	w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	enc.Encode(v)
}

// IsAJAX reports whether the request came from the site's fetch wrapper.
func IsAJAX(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}
