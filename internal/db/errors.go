package db

import "errors"

var (
	// ErrNotFound is returned when no row matches the lookup key
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateSIM is returned when another device already holds the SIM number
	ErrDuplicateSIM = errors.New("device with this SIM number already exists")

	// ErrDuplicateDeviceID is returned when another device already has the device id
	ErrDuplicateDeviceID = errors.New("device with this device id already exists")
)
