package httpapi

import (
	"errors"
	"net/http"

	"github.com/septivank/fleet-admin-api/internal/db"
	"github.com/septivank/fleet-admin-api/internal/logging"
	"github.com/septivank/fleet-admin-api/internal/service"
	"go.uber.org/zap"
)

// DeviceHandler serves /api/admin/devices and the per-customer device lookups
type DeviceHandler struct {
	svc    *service.DeviceService
	codes  StatusCodes
	logger *zap.Logger
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(svc *service.DeviceService, codes StatusCodes, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{svc: svc, codes: codes, logger: logger}
}

// Create handles POST /api/admin/devices
func (h *DeviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	var req service.CreateDeviceRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeBodyError(w, logger, err)
		return
	}

	d, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, logger, err, failure{message: "Internal server error"})
		return
	}

	WriteJSON(w, logger, http.StatusCreated, Message("Device added successfully").With("results", d).Count(1))
}

// Update handles PUT /api/admin/devices/{device_id}
func (h *DeviceHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	var req service.UpdateDeviceRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeBodyError(w, logger, err)
		return
	}

	d, err := h.svc.Update(r.Context(), r.PathValue("device_id"), req)
	if err != nil {
		writeServiceError(w, logger, err, failure{
			message:  "Error in updating device",
			notFound: "Device not found",
		})
		return
	}

	WriteJSON(w, logger, h.codes.DeviceUpdated, Message("Device updated successfully").With("results", d).Count(1))
}

// Delete handles DELETE /api/admin/devices/{device_id}
func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	var body struct {
		UserUUID string `json:"userUUID"`
	}
	if err := decodeJSON(w, r, &body); err != nil && !errors.Is(err, errEmptyBody) {
		writeBodyError(w, logger, err)
		return
	}

	deviceID := r.PathValue("device_id")
	if err := h.svc.Delete(r.Context(), deviceID, actorFrom(body.UserUUID, r)); err != nil {
		writeServiceError(w, logger, err, failure{
			message:  "Error in deleting the device",
			notFound: "Device not found",
		})
		return
	}

	WriteJSON(w, logger, h.codes.DeviceDeleted, Message("Device deleted successfully").
		With("results", map[string]string{"device_id": deviceID}))
}

// List handles GET /api/admin/devices
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	devices, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, logger, err, failure{message: "Error in getting the list"})
		return
	}

	WriteJSON(w, logger, http.StatusOK, Message("Successfully fetched list of all devices with full names").
		With("devices", devices).
		Count(len(devices)))
}

// Get handles GET /api/admin/devices/{device_id}. The device is returned as a
// one-element list, the shape existing admin clients read.
func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	d, err := h.svc.Get(r.Context(), r.PathValue("device_id"))
	if err != nil {
		writeServiceError(w, logger, err, failure{
			message:  "Error in getting the device details",
			notFound: "Device not found",
		})
		return
	}

	WriteJSON(w, logger, http.StatusOK, Message("Successfully fetched the device details").
		With("device", []*db.Device{d}).
		Count(1))
}

// Customers handles GET /api/admin/devices/customers
func (h *DeviceHandler) Customers(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	users, err := h.svc.Customers(r.Context())
	if err != nil {
		writeServiceError(w, logger, err, failure{message: "Error in getting the list"})
		return
	}

	WriteJSON(w, logger, http.StatusOK, Message("Successfully fetched list of customers").
		With("users", users).
		Count(len(users)))
}

// Count handles GET /api/admin/devices/count
func (h *DeviceHandler) Count(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	count, err := h.svc.Count(r.Context())
	if err != nil {
		writeServiceError(w, logger, err, failure{status: h.codes.CountFailed, message: "Unable to fetch total devices!"})
		return
	}

	// result is a row set: [{"count": n}]
	WriteJSON(w, logger, http.StatusOK, Message("Successfully received devices count.").
		With("result", []map[string]int64{{"count": count}}))
}

// CustomerDevices handles GET /api/admin/customers/{user_uuid}/devices
func (h *DeviceHandler) CustomerDevices(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	devices, err := h.svc.CustomerDevices(r.Context(), r.PathValue("user_uuid"))
	if err != nil {
		writeServiceError(w, logger, err, failure{message: "Error in getting users devices"})
		return
	}

	WriteJSON(w, logger, http.StatusOK, Message("Successfully got list of users devices").
		With("devices", devices).
		Count(len(devices)))
}

// Unassigned handles GET /api/admin/customers/{user_uuid}/devices/unassigned?type=
func (h *DeviceHandler) Unassigned(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)

	deviceType := r.URL.Query().Get("type")
	devices, err := h.svc.Unassigned(r.Context(), r.PathValue("user_uuid"), deviceType)
	if err != nil {
		writeServiceError(w, logger, err, failure{message: "Error in getting the users " + deviceType})
		return
	}

	WriteJSON(w, logger, http.StatusOK, Message("Successfully got list of "+deviceType).
		With("results", devices).
		Count(len(devices)))
}
