package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/septivank/fleet-admin-api/internal/db"
)

// MemoryStore serves thresholds, devices and customers from memory when the
// database is disabled. It applies the same filters, joins and ordering as
// the Postgres repositories.
type MemoryStore struct {
	mu         sync.RWMutex
	thresholds []db.Threshold // insertion order == threshold_id order
	devices    []db.Device    // insertion order == id order
	users      map[string]memoryUser
	vehicles   map[string]memoryVehicle
	nextID     int64

	// autoCustomers registers an unknown user_uuid as an active customer on write
	autoCustomers bool
}

// MemoryOption configures a MemoryStore
type MemoryOption func(*MemoryStore)

// WithCustomers seeds active customer rows
func WithCustomers(customers ...db.Customer) MemoryOption {
	return func(s *MemoryStore) {
		for _, c := range customers {
			s.users[c.UserUUID] = memoryUser{customer: c, status: db.UserStatusActive, userType: db.UserTypeCustomer}
		}
	}
}

// WithAutoCustomers makes thresholds and devices written for an unknown
// user_uuid create a placeholder customer named "Customer <uuid>", so lists
// joined on users still show them.
func WithAutoCustomers() MemoryOption {
	return func(s *MemoryStore) { s.autoCustomers = true }
}

type memoryUser struct {
	customer db.Customer
	status   int
	userType int
}

type memoryVehicle struct {
	ecu, iot, dms string
}

// NewMemoryStore creates an in-memory store, empty unless opts seed it
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		users:    map[string]memoryUser{},
		vehicles: map[string]memoryVehicle{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseSeedUsers reads a MEMORY_SEED_USERS list of the form
// "uuid:First Last,uuid:First Last". The last name may be empty.
func ParseSeedUsers(list string) ([]db.Customer, error) {
	var customers []db.Customer
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		userUUID, name, ok := strings.Cut(entry, ":")
		userUUID = strings.TrimSpace(userUUID)
		if !ok || userUUID == "" {
			return nil, fmt.Errorf("invalid seed user %q, expected uuid:First Last", entry)
		}
		first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
		customers = append(customers, db.Customer{
			UserUUID:  userUUID,
			FirstName: first,
			LastName:  strings.TrimSpace(last),
		})
	}
	return customers, nil
}

// SeedUser adds or replaces a users row
func (s *MemoryStore) SeedUser(c db.Customer, status, userType int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[c.UserUUID] = memoryUser{customer: c, status: status, userType: userType}
}

// SeedVehicle adds or replaces a vehicle and the device ids fitted to it
func (s *MemoryStore) SeedVehicle(vehicleUUID, ecu, iot, dms string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[vehicleUUID] = memoryVehicle{ecu: ecu, iot: iot, dms: dms}
}

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

// ensureCustomer must be called with s.mu held
func (s *MemoryStore) ensureCustomer(userUUID string) {
	if !s.autoCustomers || userUUID == "" {
		return
	}
	if _, ok := s.users[userUUID]; ok {
		return
	}
	s.users[userUUID] = memoryUser{
		customer: db.Customer{UserUUID: userUUID, FirstName: "Customer", LastName: userUUID},
		status:   db.UserStatusActive,
		userType: db.UserTypeCustomer,
	}
}

func (s *MemoryStore) fullName(userUUID string) (string, bool) {
	u, ok := s.users[userUUID]
	if !ok {
		return "", false
	}
	return u.customer.FirstName + " " + u.customer.LastName, true
}

// CreateThreshold stores a copy of t and assigns its threshold_id
func (s *MemoryStore) CreateThreshold(_ context.Context, t *db.Threshold) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.thresholds {
		if existing.ThresholdUUID == t.ThresholdUUID {
			return fmt.Errorf("failed to insert threshold: duplicate threshold_uuid %s", t.ThresholdUUID)
		}
	}
	t.ThresholdID = s.id()
	s.thresholds = append(s.thresholds, *t)
	s.ensureCustomer(t.UserUUID)
	return nil
}

// ListThresholds mirrors ThresholdRepository.ListThresholds
func (s *MemoryStore) ListThresholds(_ context.Context, excluded []int) ([]db.ThresholdWithCustomer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []db.ThresholdWithCustomer{}
	for i := len(s.thresholds) - 1; i >= 0; i-- {
		t := s.thresholds[i]
		if slices.Contains(excluded, t.Status) {
			continue
		}
		name, ok := s.fullName(t.UserUUID)
		if !ok {
			continue
		}
		out = append(out, db.ThresholdWithCustomer{Threshold: t, CustomerName: name})
	}
	return out, nil
}

// UpdateThreshold mirrors ThresholdRepository.UpdateThreshold
func (s *MemoryStore) UpdateThreshold(_ context.Context, t *db.Threshold) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.thresholds {
		cur := &s.thresholds[i]
		if cur.ThresholdUUID != t.ThresholdUUID {
			continue
		}
		cur.UserUUID = t.UserUUID
		cur.Title = t.Title
		cur.Score = t.Score
		cur.Incentive = t.Incentive
		cur.Accident = t.Accident
		cur.LeadershipBoard = t.LeadershipBoard
		cur.Halt = t.Halt
		cur.Status = t.Status
		cur.ModifiedAt = t.ModifiedAt
		cur.ModifiedBy = t.ModifiedBy
		s.ensureCustomer(t.UserUUID)
		return nil
	}
	return db.ErrNotFound
}

// SetThresholdStatus mirrors ThresholdRepository.SetThresholdStatus
func (s *MemoryStore) SetThresholdStatus(_ context.Context, thresholdUUID string, status int, modifiedAt, modifiedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.thresholds {
		cur := &s.thresholds[i]
		if cur.ThresholdUUID != thresholdUUID {
			continue
		}
		cur.Status = status
		cur.ModifiedAt = &modifiedAt
		cur.ModifiedBy = &modifiedBy
		return nil
	}
	return db.ErrNotFound
}

// GetThreshold mirrors ThresholdRepository.GetThreshold
func (s *MemoryStore) GetThreshold(_ context.Context, thresholdUUID string, status int) (*db.Threshold, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.thresholds {
		if t.ThresholdUUID == thresholdUUID && t.Status == status {
			found := t
			return &found, nil
		}
	}
	return nil, db.ErrNotFound
}

// CreateDevice mirrors DeviceRepository.CreateDevice. The store lock makes
// the SIM check and insert atomic.
func (s *MemoryStore) CreateDevice(_ context.Context, d *db.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.devices {
		if existing.SimNumber == d.SimNumber {
			return db.ErrDuplicateSIM
		}
	}
	for _, existing := range s.devices {
		if existing.DeviceID == d.DeviceID {
			return db.ErrDuplicateDeviceID
		}
	}
	d.ID = s.id()
	s.devices = append(s.devices, *d)
	s.ensureCustomer(d.UserUUID)
	return nil
}

// UpdateDevice mirrors DeviceRepository.UpdateDevice
func (s *MemoryStore) UpdateDevice(_ context.Context, deviceID string, d *db.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.devices {
		if s.devices[i].DeviceID == deviceID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return db.ErrNotFound
	}

	for i, other := range s.devices {
		if i == idx {
			continue
		}
		if other.SimNumber == d.SimNumber {
			return db.ErrDuplicateSIM
		}
		if other.DeviceID == d.DeviceID {
			return db.ErrDuplicateDeviceID
		}
	}

	cur := &s.devices[idx]
	cur.DeviceID = d.DeviceID
	cur.DeviceType = d.DeviceType
	cur.UserUUID = d.UserUUID
	cur.SimNumber = d.SimNumber
	cur.DeviceStatus = d.DeviceStatus
	cur.ModifiedAt = d.ModifiedAt
	cur.ModifiedBy = d.ModifiedBy
	s.ensureCustomer(d.UserUUID)
	return nil
}

// SetDeviceStatus mirrors DeviceRepository.SetDeviceStatus
func (s *MemoryStore) SetDeviceStatus(_ context.Context, deviceID string, status int, modifiedAt, modifiedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.devices {
		cur := &s.devices[i]
		if cur.DeviceID != deviceID {
			continue
		}
		cur.DeviceStatus = status
		cur.ModifiedAt = &modifiedAt
		cur.ModifiedBy = &modifiedBy
		return nil
	}
	return db.ErrNotFound
}

// ListActiveDevices mirrors DeviceRepository.ListActiveDevices
func (s *MemoryStore) ListActiveDevices(_ context.Context) ([]db.DeviceWithOwner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []db.DeviceWithOwner{}
	for i := len(s.devices) - 1; i >= 0; i-- {
		d := s.devices[i]
		if d.DeviceStatus == db.DeviceInactive {
			continue
		}
		name, ok := s.fullName(d.UserUUID)
		if !ok {
			continue
		}
		out = append(out, db.DeviceWithOwner{Device: d, FullName: name})
	}
	return out, nil
}

// GetDevice mirrors DeviceRepository.GetDevice
func (s *MemoryStore) GetDevice(_ context.Context, deviceID string) (*db.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.devices {
		if d.DeviceID == deviceID {
			found := d
			return &found, nil
		}
	}
	return nil, db.ErrNotFound
}

// CountActiveDevices mirrors DeviceRepository.CountActiveDevices
func (s *MemoryStore) CountActiveDevices(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, d := range s.devices {
		if d.DeviceStatus != db.DeviceInactive {
			count++
		}
	}
	return count, nil
}

// ListCustomerDevices mirrors DeviceRepository.ListCustomerDevices
func (s *MemoryStore) ListCustomerDevices(_ context.Context, userUUID string) ([]db.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []db.Device{}
	for i := len(s.devices) - 1; i >= 0; i-- {
		d := s.devices[i]
		if d.DeviceStatus == db.DeviceActive && d.UserUUID == userUUID {
			out = append(out, d)
		}
	}
	return out, nil
}

// ListUnassignedDevices mirrors DeviceRepository.ListUnassignedDevices
func (s *MemoryStore) ListUnassignedDevices(_ context.Context, userUUID, deviceType string) ([]db.Device, error) {
	if !db.IsValidDeviceType(deviceType) {
		return nil, fmt.Errorf("unknown device type '%s'", deviceType)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	fitted := map[string]bool{}
	for _, v := range s.vehicles {
		switch deviceType {
		case db.DeviceTypeECU:
			fitted[v.ecu] = true
		case db.DeviceTypeIoT:
			fitted[v.iot] = true
		case db.DeviceTypeDMS:
			fitted[v.dms] = true
		}
	}

	out := []db.Device{}
	for i := len(s.devices) - 1; i >= 0; i-- {
		d := s.devices[i]
		if d.DeviceType != deviceType || d.UserUUID != userUUID || d.DeviceStatus != db.DeviceActive {
			continue
		}
		if fitted[d.DeviceID] {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// ListActiveCustomers mirrors DeviceRepository.ListActiveCustomers
func (s *MemoryStore) ListActiveCustomers(_ context.Context) ([]db.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []db.Customer{}
	for _, u := range s.users {
		if u.status == db.UserStatusActive && u.userType == db.UserTypeCustomer {
			out = append(out, u.customer)
		}
	}
	slices.SortFunc(out, func(a, b db.Customer) int {
		if a.UserUUID < b.UserUUID {
			return -1
		}
		if a.UserUUID > b.UserUUID {
			return 1
		}
		return 0
	})
	return out, nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
