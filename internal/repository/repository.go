package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/septivank/fleet-admin-api/internal/db"
)

const uniqueViolation = "23505"

// mapUniqueViolation turns a unique-index violation on devices into the
// matching domain error; other errors are returned unchanged.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case db.ConstraintSimNumber:
		return db.ErrDuplicateSIM
	case db.ConstraintDeviceID:
		return db.ErrDuplicateDeviceID
	}
	return err
}

// rulesDoc holds the five threshold sub-objects in their stored JSON form
type rulesDoc struct {
	score, incentive, accident, leadershipBoard, halt []byte
}

func encodeRules(t *db.Threshold) (rulesDoc, error) {
	var doc rulesDoc
	var err error
	if doc.score, err = json.Marshal(t.Score); err != nil {
		return doc, fmt.Errorf("failed to encode score: %w", err)
	}
	if doc.incentive, err = json.Marshal(t.Incentive); err != nil {
		return doc, fmt.Errorf("failed to encode incentive: %w", err)
	}
	if doc.accident, err = json.Marshal(t.Accident); err != nil {
		return doc, fmt.Errorf("failed to encode accident: %w", err)
	}
	if doc.leadershipBoard, err = json.Marshal(t.LeadershipBoard); err != nil {
		return doc, fmt.Errorf("failed to encode leadership_board: %w", err)
	}
	if doc.halt, err = json.Marshal(t.Halt); err != nil {
		return doc, fmt.Errorf("failed to encode halt: %w", err)
	}
	return doc, nil
}

func (doc rulesDoc) decodeInto(t *db.Threshold) error {
	if err := json.Unmarshal(doc.score, &t.Score); err != nil {
		return fmt.Errorf("failed to decode score: %w", err)
	}
	if err := json.Unmarshal(doc.incentive, &t.Incentive); err != nil {
		return fmt.Errorf("failed to decode incentive: %w", err)
	}
	if err := json.Unmarshal(doc.accident, &t.Accident); err != nil {
		return fmt.Errorf("failed to decode accident: %w", err)
	}
	if err := json.Unmarshal(doc.leadershipBoard, &t.LeadershipBoard); err != nil {
		return fmt.Errorf("failed to decode leadership_board: %w", err)
	}
	if err := json.Unmarshal(doc.halt, &t.Halt); err != nil {
		return fmt.Errorf("failed to decode halt: %w", err)
	}
	return nil
}
