package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

// envelope is the uniform response wrapper: every endpoint returns
// either OK with data or ERROR with a description, never both.
type envelope struct {
	TransactionTime string      `json:"transactionTime"`
	ResultCode      string      `json:"resultCode"`
	Description     string      `json:"description"`
	Data            interface{} `json:"data,omitempty"`
}

func writeOK(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{
		TransactionTime: time.Now().UTC().Format(time.RFC3339),
		ResultCode:      "OK",
		Description:     "OK",
		Data:            data,
	})
}

func writeError(w http.ResponseWriter, status int, description string) {
	writeJSON(w, status, envelope{
		TransactionTime: time.Now().UTC().Format(time.RFC3339),
		ResultCode:      "ERROR",
		Description:     description,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
