package handlers

import (
	"encoding/json"
	"net/http"
)

// meta mirrors the upstream provider's response envelope so clients see the
// same shape whether an answer came from cache or from the provider.
type meta struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Cached  bool   `json:"cached"`
}

type envelope struct {
	Meta meta        `json:"meta"`
	Data interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, cached bool, data interface{}) {
	writeJSON(w, http.StatusOK, envelope{
		Meta: meta{Code: http.StatusOK, Status: "success", Cached: cached},
		Data: data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{
		Meta: meta{Code: status, Status: "error", Message: message},
	})
}
