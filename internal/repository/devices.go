package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/septivank/fleet-admin-api/internal/db"
)

// DeviceRepository handles device rows and the customer lookup they depend on
type DeviceRepository struct {
	pool *pgxpool.Pool
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(pool *pgxpool.Pool) *DeviceRepository {
	return &DeviceRepository{pool: pool}
}

const deviceColumns = `
	d.id, d.device_id, d.device_type, d.user_uuid, d.sim_number, d.device_status,
	d.created_at, d.created_by, d.modified_at, d.modified_by`

// vehicleSlot maps a device type to the vehicles column that references it
var vehicleSlot = map[string]string{
	db.DeviceTypeECU: "ecu",
	db.DeviceTypeIoT: "iot",
	db.DeviceTypeDMS: "dms",
}

// CreateDevice inserts a device unless any device, in any status, already
// holds its SIM number. The check and the insert share one transaction and a
// per-SIM advisory lock so concurrent creates cannot both pass the check.
func (r *DeviceRepository) CreateDevice(ctx context.Context, d *db.Device) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, d.SimNumber); err != nil {
			return fmt.Errorf("failed to lock sim number: %w", err)
		}

		var existing string
		err := tx.QueryRow(ctx, `SELECT sim_number FROM devices WHERE sim_number = $1 LIMIT 1`, d.SimNumber).Scan(&existing)
		if err == nil {
			return db.ErrDuplicateSIM
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to check sim number: %w", err)
		}

		insertQuery := `
			INSERT INTO devices (device_id, device_type, user_uuid, sim_number, device_status, created_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		err = tx.QueryRow(ctx, insertQuery,
			d.DeviceID,
			d.DeviceType,
			d.UserUUID,
			d.SimNumber,
			d.DeviceStatus,
			d.CreatedAt,
			d.CreatedBy,
		).Scan(&d.ID)
		if err != nil {
			if mapped := mapUniqueViolation(err); mapped != err {
				return mapped
			}
			return fmt.Errorf("failed to insert device: %w", err)
		}
		return nil
	})
}

// UpdateDevice rewrites every column of the device currently identified by
// deviceID. d.DeviceID may differ from deviceID to rename the device.
func (r *DeviceRepository) UpdateDevice(ctx context.Context, deviceID string, d *db.Device) error {
	query := `
		UPDATE devices
		SET device_id = $1, device_type = $2, user_uuid = $3, sim_number = $4,
			device_status = $5, modified_at = $6, modified_by = $7
		WHERE device_id = $8
	`

	return db.WithConn(ctx, r.pool, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, query,
			d.DeviceID,
			d.DeviceType,
			d.UserUUID,
			d.SimNumber,
			d.DeviceStatus,
			d.ModifiedAt,
			d.ModifiedBy,
			deviceID,
		)
		if err != nil {
			if mapped := mapUniqueViolation(err); mapped != err {
				return mapped
			}
			return fmt.Errorf("failed to update device: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return db.ErrNotFound
		}
		return nil
	})
}

// SetDeviceStatus changes device_status and stamps the modifier
func (r *DeviceRepository) SetDeviceStatus(ctx context.Context, deviceID string, status int, modifiedAt, modifiedBy string) error {
	query := `
		UPDATE devices
		SET device_status = $1, modified_at = $2, modified_by = $3
		WHERE device_id = $4
	`

	return db.WithConn(ctx, r.pool, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, query, status, modifiedAt, modifiedBy, deviceID)
		if err != nil {
			return fmt.Errorf("failed to update device status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return db.ErrNotFound
		}
		return nil
	})
}

// ListActiveDevices returns devices with nonzero status joined with the
// owner's full name, newest first
func (r *DeviceRepository) ListActiveDevices(ctx context.Context) ([]db.DeviceWithOwner, error) {
	query := `
		SELECT ` + deviceColumns + `,
			CONCAT(u.first_name, ' ', u.last_name) AS full_name
		FROM devices d
		INNER JOIN users u ON d.user_uuid = u.user_uuid
		WHERE d.device_status != $1
		ORDER BY d.id DESC
	`

	out := []db.DeviceWithOwner{}
	err := db.WithConn(ctx, r.pool, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, db.DeviceInactive)
		if err != nil {
			return fmt.Errorf("failed to query devices: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var item db.DeviceWithOwner
			if err := scanDevice(rows, &item.Device, &item.FullName); err != nil {
				return err
			}
			out = append(out, item)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows iteration error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetDevice returns the device with the given device_id, in any status
func (r *DeviceRepository) GetDevice(ctx context.Context, deviceID string) (*db.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices d WHERE d.device_id = $1`

	var d db.Device
	err := db.WithConn(ctx, r.pool, func(conn *pgxpool.Conn) error {
		return scanDevice(conn.QueryRow(ctx, query, deviceID), &d)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CountActiveDevices returns the number of devices with nonzero status
func (r *DeviceRepository) CountActiveDevices(ctx context.Context) (int64, error) {
	var count int64
	err := db.WithConn(ctx, r.pool, func(conn *pgxpool.Conn) error {
		err := conn.QueryRow(ctx, `SELECT COUNT(*) AS count FROM devices WHERE device_status != $1`, db.DeviceInactive).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to count devices: %w", err)
		}
		return nil
	})
	return count, err
}

// ListCustomerDevices returns the active devices owned by a customer
func (r *DeviceRepository) ListCustomerDevices(ctx context.Context, userUUID string) ([]db.Device, error) {
	query := `
		SELECT ` + deviceColumns + `
		FROM devices d
		WHERE d.device_status = $1 AND d.user_uuid = $2
		ORDER BY d.id DESC
	`
	return r.queryDevices(ctx, query, db.DeviceActive, userUUID)
}

// ListUnassignedDevices returns a customer's active devices of one type that
// no vehicle references yet
func (r *DeviceRepository) ListUnassignedDevices(ctx context.Context, userUUID, deviceType string) ([]db.Device, error) {
	slot, ok := vehicleSlot[deviceType]
	if !ok {
		return nil, fmt.Errorf("unknown device type '%s'", deviceType)
	}

	query := `
		SELECT ` + deviceColumns + `
		FROM devices d
		LEFT JOIN vehicles v ON d.device_id = v.` + slot + `
		WHERE d.device_type = $1 AND v.vehicle_uuid IS NULL
			AND d.user_uuid = $2 AND d.device_status = $3
		ORDER BY d.id DESC
	`
	return r.queryDevices(ctx, query, deviceType, userUUID, db.DeviceActive)
}

func (r *DeviceRepository) queryDevices(ctx context.Context, query string, args ...any) ([]db.Device, error) {
	out := []db.Device{}
	err := db.WithConn(ctx, r.pool, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query devices: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var d db.Device
			if err := scanDevice(rows, &d); err != nil {
				return err
			}
			out = append(out, d)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows iteration error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveCustomers returns active customer accounts for the assignment dropdown
func (r *DeviceRepository) ListActiveCustomers(ctx context.Context) ([]db.Customer, error) {
	query := `
		SELECT user_uuid, first_name, last_name
		FROM users
		WHERE user_status = $1 AND user_type = $2
	`

	out := []db.Customer{}
	err := db.WithConn(ctx, r.pool, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, db.UserStatusActive, db.UserTypeCustomer)
		if err != nil {
			return fmt.Errorf("failed to query customers: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var c db.Customer
			if err := rows.Scan(&c.UserUUID, &c.FirstName, &c.LastName); err != nil {
				return fmt.Errorf("failed to scan customer: %w", err)
			}
			out = append(out, c)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows iteration error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Ping checks that a pooled connection can reach the database
func (r *DeviceRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanDevice(row pgx.Row, d *db.Device, extra ...any) error {
	dest := []any{
		&d.ID,
		&d.DeviceID,
		&d.DeviceType,
		&d.UserUUID,
		&d.SimNumber,
		&d.DeviceStatus,
		&d.CreatedAt,
		&d.CreatedBy,
		&d.ModifiedAt,
		&d.ModifiedBy,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		return fmt.Errorf("failed to scan device: %w", err)
	}
	return nil
}
