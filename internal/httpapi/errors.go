package httpapi

import (
	"errors"
	"net/http"

	"github.com/septivank/fleet-admin-api/internal/service"
	"go.uber.org/zap"
)

// failure describes how a handler reports a store failure
type failure struct {
	status   int
	message  string
	notFound string
}

// writeServiceError maps a service error onto the response contract.
// Store failures were already logged by the service.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error, f failure) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		message := "Invalid data. Please provide all required fields."
		if verr.Reason != "" {
			message = verr.Reason
		}
		WriteError(w, logger, http.StatusBadRequest, CodeValidationFailed, message, verr.Fields...)
	case errors.Is(err, service.ErrDuplicateSIM):
		WriteError(w, logger, http.StatusBadRequest, CodeDuplicateSIM, "Device with this SIM number already exists")
	case errors.Is(err, service.ErrDuplicateDeviceID):
		WriteError(w, logger, http.StatusBadRequest, CodeDuplicateDeviceID, "Device with this device id already exists")
	case errors.Is(err, service.ErrNotFound):
		message := f.notFound
		if message == "" {
			message = "Record not found"
		}
		WriteError(w, logger, http.StatusNotFound, CodeNotFound, message)
	default:
		status := f.status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		WriteError(w, logger, status, CodeInternal, f.message)
	}
}

// writeBodyError reports an undecodable request body
func writeBodyError(w http.ResponseWriter, logger *zap.Logger, err error) {
	logger.Debug("invalid request body", zap.Error(err))
	WriteError(w, logger, http.StatusBadRequest, CodeInvalidBody, "Invalid JSON request body")
}

// actorFrom returns the body userUUID, or the X-User-UUID header when the body has none
func actorFrom(bodyActor string, r *http.Request) string {
	if bodyActor != "" {
		return bodyActor
	}
	return r.Header.Get("X-User-UUID")
}
