package handlers

import (
	"encoding/json"
	"net/http"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	storage := make(map[string]any)
	for _, pl := range payload {
		storage[pl.Key] = pl.Payload
	}
	json.NewEncoder(w).Encode(storage)
}

// responseWithBody пишет объект как есть, без обёртки в map
func responseWithBody(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func responseWithError(w http.ResponseWriter, code int, message string) {
	responseWithJSON(w, code, toPayload("error", message))
}

func healthCheck(w http.ResponseWriter) {
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}
