package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/septivank/fleet-admin-api/internal/metrics"
	"go.uber.org/zap"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter registers every admin route on a new ServeMux
func NewRouter(thresholds *ThresholdHandler, devices *DeviceHandler, pinger Pinger, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, Chain(h,
			WithRequestID,
			WithLogging(logger),
			WithMetrics(pattern),
			WithRecover(logger),
		))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			WriteJSON(w, logger, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		WriteJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Analytics thresholds
	handle("POST /api/admin/thresholds", thresholds.Create)
	handle("GET /api/admin/thresholds", thresholds.List)
	handle("PUT /api/admin/thresholds/{threshold_uuid}", thresholds.Update)
	handle("DELETE /api/admin/thresholds/{threshold_uuid}", thresholds.Delete)
	handle("GET /api/admin/thresholds/{threshold_uuid}", thresholds.Get)

	// Devices
	handle("POST /api/admin/devices", devices.Create)
	handle("GET /api/admin/devices", devices.List)
	handle("GET /api/admin/devices/customers", devices.Customers)
	handle("GET /api/admin/devices/count", devices.Count)
	handle("PUT /api/admin/devices/{device_id}", devices.Update)
	handle("DELETE /api/admin/devices/{device_id}", devices.Delete)
	handle("GET /api/admin/devices/{device_id}", devices.Get)

	// Customer device lookups
	handle("GET /api/admin/customers/{user_uuid}/devices", devices.CustomerDevices)
	handle("GET /api/admin/customers/{user_uuid}/devices/unassigned", devices.Unassigned)

	return mux
}
