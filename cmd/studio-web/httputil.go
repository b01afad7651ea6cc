package main

import (
	"encoding/json"
	"net/http"
)

// respondJSON writes the API's standard JSON envelope. Every handler
// except media streaming and the export download responds through it.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// httpError responds with {"error": message} at the given status.
func httpError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
