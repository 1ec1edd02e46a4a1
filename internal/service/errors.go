package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/septivank/fleet-admin-api/internal/db"
)

var (
	// ErrValidation matches every *ValidationError
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when the addressed row does not exist
	ErrNotFound = db.ErrNotFound

	// ErrDuplicateSIM is returned when another device holds the SIM number
	ErrDuplicateSIM = db.ErrDuplicateSIM

	// ErrDuplicateDeviceID is returned when a rename collides with another device
	ErrDuplicateDeviceID = db.ErrDuplicateDeviceID
)

// ValidationError lists the request fields that failed presence or value checks
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: missing required fields: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
