// Package handlers provides the HTTP handlers of the hapsite server.
package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/humanagencyprotocol/hapsite/internal/logfields"
)

// writeJSON serializes v and writes it with the given status code. Encoding
// happens into a buffer first so a failed encode sends nothing.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed writing JSON response body", logfields.Error(err))
		return err
	}
	return nil
}

// allowReadOnly rejects methods other than GET and HEAD with 405.
func allowReadOnly(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	_ = writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
		"code":  "validation",
	})
	return false
}
