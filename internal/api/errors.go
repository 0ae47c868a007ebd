package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"go.uber.org/zap"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	Details any    `json:"details,omitempty"`
}

// writeError пишет ошибку в JSON. Текст внутренних ошибок только в лог.
func writeError(w http.ResponseWriter, err error, logger *zap.Logger) {
	code := apperr.CodeOf(err)

	body := errorBody{
		Code:    string(code),
		Message: apperr.UserMessage(err),
	}
	if code == apperr.CodeInternal {
		logger.Error("Request failed", zap.Error(err))
	} else {
		body.Reason = err.Error()
		var e *apperr.Error
		if errors.As(err, &e) {
			body.Details = e.Details
		}
	}

	writeJSON(w, code.HTTPStatus(), body, logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.InvalidInput("malformed JSON body").WithCause(err)
	}
	return nil
}
