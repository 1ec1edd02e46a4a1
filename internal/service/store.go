package service

import (
	"context"

	"github.com/septivank/fleet-admin-api/internal/db"
	"github.com/septivank/fleet-admin-api/internal/mq"
)

// ThresholdStore persists analytics thresholds
type ThresholdStore interface {
	CreateThreshold(ctx context.Context, t *db.Threshold) error
	ListThresholds(ctx context.Context, excluded []int) ([]db.ThresholdWithCustomer, error)
	UpdateThreshold(ctx context.Context, t *db.Threshold) error
	SetThresholdStatus(ctx context.Context, thresholdUUID string, status int, modifiedAt, modifiedBy string) error
	GetThreshold(ctx context.Context, thresholdUUID string, status int) (*db.Threshold, error)
}

// DeviceStore persists devices
type DeviceStore interface {
	CreateDevice(ctx context.Context, d *db.Device) error
	UpdateDevice(ctx context.Context, deviceID string, d *db.Device) error
	SetDeviceStatus(ctx context.Context, deviceID string, status int, modifiedAt, modifiedBy string) error
	ListActiveDevices(ctx context.Context) ([]db.DeviceWithOwner, error)
	GetDevice(ctx context.Context, deviceID string) (*db.Device, error)
	CountActiveDevices(ctx context.Context) (int64, error)
	ListCustomerDevices(ctx context.Context, userUUID string) ([]db.Device, error)
	ListUnassignedDevices(ctx context.Context, userUUID, deviceType string) ([]db.Device, error)
}

// CustomerStore reads customer accounts
type CustomerStore interface {
	ListActiveCustomers(ctx context.Context) ([]db.Customer, error)
}

// EventPublisher sends admin audit events
type EventPublisher interface {
	PublishAdminEvent(ctx context.Context, event mq.AdminEvent) error
}
