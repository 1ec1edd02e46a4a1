package httpapi

import "net/http"

// StatusCodes holds the success and failure codes that differ between the
// current contract and the one older admin clients were written against
type StatusCodes struct {
	ThresholdDeleted int
	ThresholdFetched int
	DeviceUpdated    int
	DeviceDeleted    int
	CountFailed      int
}

// DefaultStatusCodes: 200 for every non-create success, 500 for store failures
func DefaultStatusCodes() StatusCodes {
	return StatusCodes{
		ThresholdDeleted: http.StatusOK,
		ThresholdFetched: http.StatusOK,
		DeviceUpdated:    http.StatusOK,
		DeviceDeleted:    http.StatusOK,
		CountFailed:      http.StatusInternalServerError,
	}
}

// LegacyStatusCodes reproduces the codes of the previous admin API
func LegacyStatusCodes() StatusCodes {
	return StatusCodes{
		ThresholdDeleted: http.StatusCreated,
		ThresholdFetched: http.StatusCreated,
		DeviceUpdated:    http.StatusCreated,
		DeviceDeleted:    http.StatusCreated,
		CountFailed:      http.StatusNotImplemented,
	}
}

// StatusCodesFor picks the legacy or default set
func StatusCodesFor(legacy bool) StatusCodes {
	if legacy {
		return LegacyStatusCodes()
	}
	return DefaultStatusCodes()
}
