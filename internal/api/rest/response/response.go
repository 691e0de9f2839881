// Package response writes JSON bodies for the REST API.
package response

import (
	"encoding/json"
	"net/http"
)

// Message is the body of every status-only reply.
type Message struct {
	Message string `json:"message"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes {"message": msg} with the given status code.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Message{Message: msg})
}
