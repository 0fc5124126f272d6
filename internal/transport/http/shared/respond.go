// Package shared centralizes response encoding for the HTTP layer so every
// handler speaks the same JSON envelope.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "docroute/pkg/domain-errors"
)

// statusByCode maps the error taxonomy onto HTTP statuses.
var statusByCode = map[dErrors.Code]int{
	dErrors.CodeNotFound:              http.StatusNotFound,
	dErrors.CodeForbidden:             http.StatusForbidden,
	dErrors.CodeInvalidTransition:     http.StatusUnprocessableEntity,
	dErrors.CodeCommentRequired:       http.StatusUnprocessableEntity,
	dErrors.CodeUnverifiedAttachments: http.StatusConflict,
	dErrors.CodeConflict:              http.StatusConflict,
	dErrors.CodeInvalidInput:          http.StatusBadRequest,
	dErrors.CodeBadRequest:            http.StatusBadRequest,
	dErrors.CodeInternal:              http.StatusInternalServerError,
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a coded domain error into its HTTP status and a JSON
// error envelope. Uncoded errors map to 500 without leaking their message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := "internal error"
	var de *dErrors.Error
	if errors.As(err, &de) {
		message = de.Message
	}
	WriteJSON(w, status, map[string]string{
		"error":   string(code),
		"message": message,
	})
}
