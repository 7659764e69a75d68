package web

import (
	"MasarWeb/internal/core/validation"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxJSONBody = 1 << 20

// envelope is the shape of every JSON response.
type envelope struct {
	Status          string `json:"status"`
	Data            any    `json:"data,omitempty"`
	Message         string `json:"message,omitempty"`
	Field           string `json:"field,omitempty"`
	Redirect        string `json:"redirect,omitempty"`
	RedirectAfterMS int64  `json:"redirectAfterMs,omitempty"`
	Toast           *Toast `json:"toast,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: data})
}

func writeError(w http.ResponseWriter, status int, message string, toast *Toast) {
	writeJSON(w, status, envelope{Status: "error", Message: message, Toast: toast})
}

func redirectAfter(d time.Duration) int64 {
	return d.Milliseconds()
}

var errEmptyBody = errors.New("request body is empty")

func decodeJSON(w http.ResponseWriter, r *http.Request, out interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// badRequest answers a body that could not be decoded.
func badRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, err.Error(), nil)
}

// writeInvalid answers a failed local form check with 422.
func writeInvalid(w http.ResponseWriter, err error, d time.Duration) {
	env := envelope{Status: "error", Message: err.Error()}
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		env.Field = vErr.Field
	}
	env.Toast = errorToast(env.Message, d)
	writeJSON(w, http.StatusUnprocessableEntity, env)
}
