package db

// Threshold status values. Status 2 is written by soft delete; 0 marks an
// inactive configuration.
const (
	ThresholdInactive = 0
	ThresholdActive   = 1
	ThresholdDeleted  = 2
)

// Device status values. Any nonzero status is active.
const (
	DeviceInactive = 0
	DeviceActive   = 1
)

// Customer filters for the assignment lookup.
const (
	UserStatusActive = 1
	UserTypeCustomer = 2
)

// Device types tracked by the back office
const (
	DeviceTypeECU = "ECU"
	DeviceTypeIoT = "IoT"
	DeviceTypeDMS = "DMS"
)

// ScoreRule holds the per-event weights of the driver score
type ScoreRule struct {
	Brake       *Number `json:"brake,omitempty"`
	Tailgating  *Number `json:"tailgating,omitempty"`
	RashDriving *Number `json:"rash_driving,omitempty"`
	SleepAlert  *Number `json:"sleep_alert,omitempty"`
	OverSpeed   *Number `json:"over_speed,omitempty"`
	GreenZone   *Number `json:"green_zone,omitempty"`
}

// IncentiveRule holds the minimums a driver must reach for an incentive
type IncentiveRule struct {
	MinimumDistance     *Number `json:"minimum_distance,omitempty"`
	MinimumDriverRating *Number `json:"minimum_driver_rating,omitempty"`
}

// AccidentRule holds the time-to-collision trigger
type AccidentRule struct {
	TTCDifferencePercentage *Number `json:"ttc_difference_percentage,omitempty"`
}

// LeadershipBoardRule holds the distance needed to rank on the board
type LeadershipBoardRule struct {
	TotalDistance *Number `json:"total_distance,omitempty"`
}

// HaltRule holds the duration after which a stop counts as a halt
type HaltRule struct {
	Duration *Number `json:"duration,omitempty"`
}

// Threshold represents an analytics threshold row
type Threshold struct {
	ThresholdID     int64               `json:"threshold_id"`
	ThresholdUUID   string              `json:"threshold_uuid"`
	UserUUID        string              `json:"user_uuid"`
	Title           string              `json:"title"`
	Score           ScoreRule           `json:"score"`
	Incentive       IncentiveRule       `json:"incentive"`
	Accident        AccidentRule        `json:"accident"`
	LeadershipBoard LeadershipBoardRule `json:"leadership_board"`
	Halt            HaltRule            `json:"halt"`
	Status          int                 `json:"status"`
	CreatedAt       string              `json:"created_at"`
	CreatedBy       string              `json:"created_by"`
	ModifiedAt      *string             `json:"modified_at"`
	ModifiedBy      *string             `json:"modified_by"`
}

// ThresholdWithCustomer is a threshold joined with its owner's display name
type ThresholdWithCustomer struct {
	Threshold
	CustomerName string `json:"customer_name"`
}

// Device represents a tracking unit row
type Device struct {
	ID           int64   `json:"id"`
	DeviceID     string  `json:"device_id"`
	DeviceType   string  `json:"device_type"`
	UserUUID     string  `json:"user_uuid"`
	SimNumber    string  `json:"sim_number"`
	DeviceStatus int     `json:"device_status"`
	CreatedAt    string  `json:"created_at"`
	CreatedBy    string  `json:"created_by"`
	ModifiedAt   *string `json:"modified_at"`
	ModifiedBy   *string `json:"modified_by"`
}

// DeviceWithOwner is a device joined with its owner's full name
type DeviceWithOwner struct {
	Device
	FullName string `json:"full_name"`
}

// Customer is the subset of a users row needed to assign devices
type Customer struct {
	UserUUID  string `json:"user_uuid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// IsValidDeviceType reports whether t is one of the known device types
func IsValidDeviceType(t string) bool {
	switch t {
	case DeviceTypeECU, DeviceTypeIoT, DeviceTypeDMS:
		return true
	}
	return false
}
