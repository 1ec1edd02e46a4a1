package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ApplySchema creates the tables this service owns.
// Safe to call multiple times - uses IF NOT EXISTS.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	return WithConn(ctx, pool, func(conn *pgxpool.Conn) error {
		if _, err := conn.Exec(ctx, Schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	})
}

// Schema is the DDL for thresholds and devices. users and vehicles belong to
// other services; minimal versions are created only when absent so that a
// fresh database can serve the joins.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    user_uuid TEXT PRIMARY KEY,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    user_status SMALLINT NOT NULL DEFAULT 1,
    user_type SMALLINT NOT NULL DEFAULT 2
);

CREATE TABLE IF NOT EXISTS vehicles (
    vehicle_uuid TEXT PRIMARY KEY,
    ecu TEXT,
    iot TEXT,
    dms TEXT
);

-- Analytics thresholds
CREATE TABLE IF NOT EXISTS thresholds (
    threshold_id BIGSERIAL PRIMARY KEY,
    threshold_uuid TEXT NOT NULL UNIQUE,
    user_uuid TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    score JSONB NOT NULL DEFAULT '{}',
    incentive JSONB NOT NULL DEFAULT '{}',
    accident JSONB NOT NULL DEFAULT '{}',
    leadership_board JSONB NOT NULL DEFAULT '{}',
    halt JSONB NOT NULL DEFAULT '{}',
    status SMALLINT NOT NULL DEFAULT 1,
    created_at TEXT NOT NULL,
    created_by TEXT NOT NULL DEFAULT '',
    modified_at TEXT,
    modified_by TEXT
);

CREATE INDEX IF NOT EXISTS idx_thresholds_status ON thresholds(status);
CREATE INDEX IF NOT EXISTS idx_thresholds_user_uuid ON thresholds(user_uuid);

-- Devices
CREATE TABLE IF NOT EXISTS devices (
    id BIGSERIAL PRIMARY KEY,
    device_id TEXT NOT NULL,
    device_type TEXT NOT NULL DEFAULT '',
    user_uuid TEXT NOT NULL DEFAULT '',
    sim_number TEXT NOT NULL,
    device_status SMALLINT NOT NULL DEFAULT 1,
    created_at TEXT NOT NULL,
    created_by TEXT NOT NULL DEFAULT '',
    modified_at TEXT,
    modified_by TEXT,
    CONSTRAINT devices_device_id_key UNIQUE (device_id),
    CONSTRAINT devices_sim_number_key UNIQUE (sim_number)
);

CREATE INDEX IF NOT EXISTS idx_devices_status ON devices(device_status);
CREATE INDEX IF NOT EXISTS idx_devices_user_uuid ON devices(user_uuid);
`

// Constraint names referenced when mapping unique violations
const (
	ConstraintDeviceID  = "devices_device_id_key"
	ConstraintSimNumber = "devices_sim_number_key"
)
