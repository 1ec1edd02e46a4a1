package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/septivank/fleet-admin-api/internal/db"
)

// ThresholdRepository handles analytics threshold rows
type ThresholdRepository struct {
	pool *pgxpool.Pool
}

// NewThresholdRepository creates a new threshold repository
func NewThresholdRepository(pool *pgxpool.Pool) *ThresholdRepository {
	return &ThresholdRepository{pool: pool}
}

const thresholdColumns = `
	t.threshold_id, t.threshold_uuid, t.user_uuid, t.title,
	t.score, t.incentive, t.accident, t.leadership_board, t.halt,
	t.status, t.created_at, t.created_by, t.modified_at, t.modified_by`

// CreateThreshold inserts a threshold and fills in its threshold_id
func (r *ThresholdRepository) CreateThreshold(ctx context.Context, t *db.Threshold) error {
	doc, err := encodeRules(t)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO thresholds (
			threshold_uuid, user_uuid, title, score, incentive, accident,
			leadership_board, halt, status, created_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING threshold_id
	`

	return db.WithConn(ctx, r.pool, func(conn *pgxpool.Conn) error {
		err := conn.QueryRow(ctx, query,
			t.ThresholdUUID,
			t.UserUUID,
			t.Title,
			doc.score,
			doc.incentive,
			doc.accident,
			doc.leadershipBoard,
			doc.halt,
			t.Status,
			t.CreatedAt,
			t.CreatedBy,
		).Scan(&t.ThresholdID)
		if err != nil {
			return fmt.Errorf("failed to insert threshold: %w", err)
		}
		return nil
	})
}

// ListThresholds returns thresholds whose status is not in excluded, joined
// with the owning customer's name, newest first
func (r *ThresholdRepository) ListThresholds(ctx context.Context, excluded []int) ([]db.ThresholdWithCustomer, error) {
	query := `
		SELECT ` + thresholdColumns + `,
			CONCAT(u.first_name, ' ', u.last_name) AS customer_name
		FROM thresholds t
		INNER JOIN users u ON t.user_uuid = u.user_uuid
		WHERE NOT (t.status = ANY($1))
		ORDER BY t.threshold_id DESC
	`

	out := []db.ThresholdWithCustomer{}
	err := db.WithConn(ctx, r.pool, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, excluded)
		if err != nil {
			return fmt.Errorf("failed to query thresholds: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var item db.ThresholdWithCustomer
			if err := scanThreshold(rows, &item.Threshold, &item.CustomerName); err != nil {
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

// UpdateThreshold rewrites every mutable column of the threshold identified
// by t.ThresholdUUID
func (r *ThresholdRepository) UpdateThreshold(ctx context.Context, t *db.Threshold) error {
	doc, err := encodeRules(t)
	if err != nil {
		return err
	}

	query := `
		UPDATE thresholds
		SET user_uuid = $1, title = $2, score = $3, incentive = $4, accident = $5,
			leadership_board = $6, halt = $7, status = $8, modified_at = $9, modified_by = $10
		WHERE threshold_uuid = $11
	`

	return db.WithConn(ctx, r.pool, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, query,
			t.UserUUID,
			t.Title,
			doc.score,
			doc.incentive,
			doc.accident,
			doc.leadershipBoard,
			doc.halt,
			t.Status,
			t.ModifiedAt,
			t.ModifiedBy,
			t.ThresholdUUID,
		)
		if err != nil {
			return fmt.Errorf("failed to update threshold: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return db.ErrNotFound
		}
		return nil
	})
}

// SetThresholdStatus changes the status of a threshold and stamps the modifier
func (r *ThresholdRepository) SetThresholdStatus(ctx context.Context, thresholdUUID string, status int, modifiedAt, modifiedBy string) error {
	query := `
		UPDATE thresholds
		SET status = $1, modified_at = $2, modified_by = $3
		WHERE threshold_uuid = $4
	`

	return db.WithConn(ctx, r.pool, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, query, status, modifiedAt, modifiedBy, thresholdUUID)
		if err != nil {
			return fmt.Errorf("failed to update threshold status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return db.ErrNotFound
		}
		return nil
	})
}

// GetThreshold returns the threshold with the given uuid and status
func (r *ThresholdRepository) GetThreshold(ctx context.Context, thresholdUUID string, status int) (*db.Threshold, error) {
	query := `
		SELECT ` + thresholdColumns + `
		FROM thresholds t
		WHERE t.status = $1 AND t.threshold_uuid = $2
	`

	var t db.Threshold
	err := db.WithConn(ctx, r.pool, func(conn *pgxpool.Conn) error {
		return scanThreshold(conn.QueryRow(ctx, query, status, thresholdUUID), &t)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanThreshold(row pgx.Row, t *db.Threshold, extra ...any) error {
	var doc rulesDoc
	dest := []any{
		&t.ThresholdID,
		&t.ThresholdUUID,
		&t.UserUUID,
		&t.Title,
		&doc.score,
		&doc.incentive,
		&doc.accident,
		&doc.leadershipBoard,
		&doc.halt,
		&t.Status,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.ModifiedAt,
		&t.ModifiedBy,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		return fmt.Errorf("failed to scan threshold: %w", err)
	}
	return doc.decodeInto(t)
}
