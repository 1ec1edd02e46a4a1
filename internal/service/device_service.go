package service

import (
	"context"
	"fmt"

	"github.com/septivank/fleet-admin-api/internal/db"
	"github.com/septivank/fleet-admin-api/internal/logging"
	"github.com/septivank/fleet-admin-api/internal/mq"
	"github.com/septivank/fleet-admin-api/tools/civiltime"
	"go.uber.org/zap"
)

// CreateDeviceRequest registers a device for a customer
type CreateDeviceRequest struct {
	DeviceID   string       `json:"device_id"`
	DeviceType string       `json:"device_type"`
	UserUUID   string       `json:"user_uuid"`
	SimNumber  string       `json:"sim_number"`
	Status     *db.IntValue `json:"status"`
	CreatedBy  string       `json:"userUUID"`
}

// UpdateDeviceRequest rewrites every field of a device. DeviceID may rename it.
type UpdateDeviceRequest struct {
	DeviceID     string       `json:"device_id"`
	DeviceType   string       `json:"device_type"`
	UserUUID     string       `json:"user_uuid"`
	SimNumber    string       `json:"sim_number"`
	DeviceStatus *db.IntValue `json:"device_status"`
	ModifiedBy   string       `json:"userUUID"`
}

// UnmarshalJSON treats empty form inputs as absent, so "status": "" defaults
func (r *CreateDeviceRequest) UnmarshalJSON(data []byte) error {
	type plain CreateDeviceRequest
	return db.DecodeForm(data, (*plain)(r))
}

func (r *UpdateDeviceRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateDeviceRequest
	return db.DecodeForm(data, (*plain)(r))
}

// DeviceService implements the device and customer lookup operations
type DeviceService struct {
	devices   DeviceStore
	customers CustomerStore
	publisher EventPublisher
	clock     *civiltime.Clock
	logger    *zap.Logger
}

// NewDeviceService creates a new device service
func NewDeviceService(devices DeviceStore, customers CustomerStore, publisher EventPublisher, clock *civiltime.Clock, logger *zap.Logger) *DeviceService {
	return &DeviceService{
		devices:   devices,
		customers: customers,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// Create inserts a device unless its SIM number is already taken
func (s *DeviceService) Create(ctx context.Context, req CreateDeviceRequest) (*db.Device, error) {
	d := &db.Device{
		DeviceID:     req.DeviceID,
		DeviceType:   req.DeviceType,
		UserUUID:     req.UserUUID,
		SimNumber:    req.SimNumber,
		DeviceStatus: db.IntOr(req.Status, db.DeviceActive),
		CreatedAt:    s.clock.Now(),
		CreatedBy:    req.CreatedBy,
	}

	if err := s.devices.CreateDevice(ctx, d); err != nil {
		return nil, s.storeFailed(ctx, "create_device", err)
	}

	logging.FromContext(ctx, s.logger).Info("device created",
		zap.String("device_id", d.DeviceID),
		zap.String("device_type", d.DeviceType),
		zap.String("user_uuid", d.UserUUID),
	)
	s.publish(ctx, mq.EventCreated, d.DeviceID, d.CreatedBy, d.CreatedAt)

	return d, nil
}

// Update rewrites the device currently stored under deviceID
func (s *DeviceService) Update(ctx context.Context, deviceID string, req UpdateDeviceRequest) (*db.Device, error) {
	modifiedAt := s.clock.Now()
	modifiedBy := req.ModifiedBy
	d := &db.Device{
		DeviceID:     req.DeviceID,
		DeviceType:   req.DeviceType,
		UserUUID:     req.UserUUID,
		SimNumber:    req.SimNumber,
		DeviceStatus: db.IntOr(req.DeviceStatus, db.DeviceActive),
		ModifiedAt:   &modifiedAt,
		ModifiedBy:   &modifiedBy,
	}

	if err := s.devices.UpdateDevice(ctx, deviceID, d); err != nil {
		return nil, s.storeFailed(ctx, "update_device", err)
	}

	s.publish(ctx, mq.EventUpdated, d.DeviceID, modifiedBy, modifiedAt)
	return d, nil
}

// Delete marks a device inactive. Repeating it succeeds.
func (s *DeviceService) Delete(ctx context.Context, deviceID, actor string) error {
	modifiedAt := s.clock.Now()
	if err := s.devices.SetDeviceStatus(ctx, deviceID, db.DeviceInactive, modifiedAt, actor); err != nil {
		return s.storeFailed(ctx, "delete_device", err)
	}

	s.publish(ctx, mq.EventDeleted, deviceID, actor, modifiedAt)
	return nil
}

// List returns every active device with its owner's name
func (s *DeviceService) List(ctx context.Context) ([]db.DeviceWithOwner, error) {
	list, err := s.devices.ListActiveDevices(ctx)
	if err != nil {
		return nil, s.storeFailed(ctx, "list_devices", err)
	}
	return list, nil
}

// Get returns a device in any status
func (s *DeviceService) Get(ctx context.Context, deviceID string) (*db.Device, error) {
	d, err := s.devices.GetDevice(ctx, deviceID)
	if err != nil {
		return nil, s.storeFailed(ctx, "get_device", err)
	}
	return d, nil
}

// Count returns the number of active devices
func (s *DeviceService) Count(ctx context.Context) (int64, error) {
	count, err := s.devices.CountActiveDevices(ctx)
	if err != nil {
		return 0, s.storeFailed(ctx, "count_devices", err)
	}
	return count, nil
}

// Customers returns the active customer accounts devices can be assigned to
func (s *DeviceService) Customers(ctx context.Context) ([]db.Customer, error) {
	list, err := s.customers.ListActiveCustomers(ctx)
	if err != nil {
		return nil, s.storeFailed(ctx, "list_customers", err)
	}
	return list, nil
}

// CustomerDevices returns a customer's active devices
func (s *DeviceService) CustomerDevices(ctx context.Context, userUUID string) ([]db.Device, error) {
	list, err := s.devices.ListCustomerDevices(ctx, userUUID)
	if err != nil {
		return nil, s.storeFailed(ctx, "list_customer_devices", err)
	}
	return list, nil
}

// Unassigned returns a customer's active devices of deviceType not fitted to any vehicle
func (s *DeviceService) Unassigned(ctx context.Context, userUUID, deviceType string) ([]db.Device, error) {
	if !db.IsValidDeviceType(deviceType) {
		return nil, &ValidationError{
			Fields: []string{"type"},
			Reason: fmt.Sprintf("type must be one of %s, %s, %s", db.DeviceTypeECU, db.DeviceTypeIoT, db.DeviceTypeDMS),
		}
	}

	list, err := s.devices.ListUnassignedDevices(ctx, userUUID, deviceType)
	if err != nil {
		return nil, s.storeFailed(ctx, "list_unassigned_devices", err)
	}
	return list, nil
}

func (s *DeviceService) publish(ctx context.Context, eventType, id, actor, at string) {
	publishEvent(ctx, s.publisher, s.logger, mq.AdminEvent{
		EventType:  eventType,
		Resource:   mq.ResourceDevice,
		ResourceID: id,
		Actor:      actor,
		OccurredAt: at,
	})
}

func (s *DeviceService) storeFailed(ctx context.Context, op string, err error) error {
	return storeFailed(ctx, s.logger, op, err)
}
