package server

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// ReturnJSON writes resp as the JSON body with the given status code.
func ReturnJSON(w http.ResponseWriter, resp any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// ReturnErrorJSON writes an error body with the given status code.
func ReturnErrorJSON(w http.ResponseWriter, msg, kind string, statusCode int) {
	ReturnJSON(w, errorResponse{Error: msg, Kind: kind}, statusCode)
}
