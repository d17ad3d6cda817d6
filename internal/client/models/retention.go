package models

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidRetention marks retention parameters rejected before upload.
var ErrInvalidRetention = errors.New("invalid retention")

type ExpiryUnit string

const (
	ExpiryMinutes ExpiryUnit = "minutes"
	ExpiryHours   ExpiryUnit = "hours"
	ExpiryDays    ExpiryUnit = "days"
)

// maxExpiry bounds the expiry value per unit.
var maxExpiry = map[ExpiryUnit]int{
	ExpiryMinutes: 1440,
	ExpiryHours:   240,
	ExpiryDays:    10,
}

// MaxExpiry returns the largest accepted value for unit, or 0 for unknown units.
func MaxExpiry(unit ExpiryUnit) int {
	return maxExpiry[unit]
}

// Retention is the operator-chosen lifetime of an upload.
// MaxDownloads == 0 means unlimited.
type Retention struct {
	ExpiryValue  int
	ExpiryUnit   ExpiryUnit
	MaxDownloads int
}

func DefaultRetention() Retention {
	return Retention{ExpiryValue: 7, ExpiryUnit: ExpiryDays}
}

func (r Retention) Validate() error {
	limit, ok := maxExpiry[r.ExpiryUnit]
	if !ok {
		return fmt.Errorf("%w: unknown expiry unit %q", ErrInvalidRetention, r.ExpiryUnit)
	}
	if r.ExpiryValue < 1 || r.ExpiryValue > limit {
		return fmt.Errorf("%w: expiry must be between 1 and %d %s", ErrInvalidRetention, limit, r.ExpiryUnit)
	}
	if r.MaxDownloads < 0 {
		return fmt.Errorf("%w: max downloads must not be negative", ErrInvalidRetention)
	}
	return nil
}

// FormFields returns the multipart fields in the order the server expects.
func (r Retention) FormFields() [][2]string {
	return [][2]string{
		{"expiry_value", strconv.Itoa(r.ExpiryValue)},
		{"expiry_unit", string(r.ExpiryUnit)},
		{"max_downloads", strconv.Itoa(r.MaxDownloads)},
	}
}
