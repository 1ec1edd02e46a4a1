package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// Error codes returned in the "error" field
const (
	CodeValidationFailed  = "validation_failed"
	CodeDuplicateSIM      = "duplicate_sim_number"
	CodeDuplicateDeviceID = "duplicate_device_id"
	CodeNotFound          = "not_found"
	CodeInvalidBody       = "invalid_request_body"
	CodeInternal          = "internal_error"
)

const maxBodyBytes = 1 << 20

// Envelope is the success body: a message, one payload key and an optional totalCount
type Envelope map[string]any

// Message starts an envelope
func Message(message string) Envelope {
	return Envelope{"message": message}
}

// With sets the payload under key
func (e Envelope) With(key string, payload any) Envelope {
	e[key] = payload
	return e
}

// Count sets totalCount
func (e Envelope) Count(n int) Envelope {
	e["totalCount"] = n
	return e
}

// ErrorBody is the failure body. Driver errors never appear in it.
type ErrorBody struct {
	Message string   `json:"message"`
	Error   string   `json:"error"`
	Fields  []string `json:"fields,omitempty"`
}

// WriteJSON writes data as a JSON response
func WriteJSON(w http.ResponseWriter, logger *zap.Logger, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// WriteError writes an ErrorBody
func WriteError(w http.ResponseWriter, logger *zap.Logger, statusCode int, code, message string, fields ...string) {
	WriteJSON(w, logger, statusCode, ErrorBody{Message: message, Error: code, Fields: fields})
}

// errEmptyBody is returned by decodeJSON when the request has no body
var errEmptyBody = errors.New("empty request body")

// decodeJSON parses the request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}
