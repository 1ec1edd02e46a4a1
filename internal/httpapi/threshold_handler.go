package httpapi

import (
	"errors"
	"net/http"

	"github.com/septivank/fleet-admin-api/internal/logging"
	"github.com/septivank/fleet-admin-api/internal/service"
	"go.uber.org/zap"
)

// ThresholdHandler serves /api/admin/thresholds
type ThresholdHandler struct {
	svc    *service.ThresholdService
	codes  StatusCodes
	logger *zap.Logger
}

// NewThresholdHandler creates a new threshold handler
func NewThresholdHandler(svc *service.ThresholdService, codes StatusCodes, logger *zap.Logger) *ThresholdHandler {
	return &ThresholdHandler{svc: svc, codes: codes, logger: logger}
}

// Create handles POST /api/admin/thresholds
func (h *ThresholdHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	var req service.CreateThresholdRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeBodyError(w, logger, err)
		return
	}

	created, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, logger, err, failure{message: "Error in Add Analytics Thresholds"})
		return
	}

	WriteJSON(w, logger, http.StatusCreated, Message("Analytics Thresholds Added Successfully!").With("results", created))
}

// List handles GET /api/admin/thresholds
func (h *ThresholdHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	list, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, logger, err, failure{message: "Error in fetching the list of analytical thresholds"})
		return
	}

	WriteJSON(w, logger, http.StatusOK, Message("Successfully fetched the list of analytical thresholds").
		With("analyticData", list).
		Count(len(list)))
}

// Update handles PUT /api/admin/thresholds/{threshold_uuid}
func (h *ThresholdHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	var req service.UpdateThresholdRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeBodyError(w, logger, err)
		return
	}

	updated, err := h.svc.Update(r.Context(), r.PathValue("threshold_uuid"), req)
	if err != nil {
		writeServiceError(w, logger, err, failure{
			message:  "Error in Updating Analytics Thresholds",
			notFound: "Analytics Thresholds not found",
		})
		return
	}

	WriteJSON(w, logger, http.StatusOK, Message("Analytics Thresholds Updated Successfully").With("results", updated))
}

// Delete handles DELETE /api/admin/thresholds/{threshold_uuid}
func (h *ThresholdHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	var body struct {
		UserUUID string `json:"userUUID"`
	}
	if err := decodeJSON(w, r, &body); err != nil && !errors.Is(err, errEmptyBody) {
		writeBodyError(w, logger, err)
		return
	}

	thresholdUUID := r.PathValue("threshold_uuid")
	if err := h.svc.Delete(r.Context(), thresholdUUID, actorFrom(body.UserUUID, r)); err != nil {
		writeServiceError(w, logger, err, failure{
			message:  "Error in deleting the Analytics Thresholds",
			notFound: "Analytics Thresholds not found",
		})
		return
	}

	WriteJSON(w, logger, h.codes.ThresholdDeleted, Message("Analytics Thresholds deleted successfully").
		With("results", map[string]string{"threshold_uuid": thresholdUUID}))
}

// Get handles GET /api/admin/thresholds/{threshold_uuid}
func (h *ThresholdHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	t, err := h.svc.Get(r.Context(), r.PathValue("threshold_uuid"))
	if err != nil {
		writeServiceError(w, logger, err, failure{
			message:  "Error In getting Analytics Thresholds",
			notFound: "Analytics Thresholds not found",
		})
		return
	}

	WriteJSON(w, logger, h.codes.ThresholdFetched, Message("Analytics Thresholds Get Successfully").With("results", t))
}
