package models

import (
	"errors"
	"time"
)

// SearchRecord is one entry of the recent-searches list.
type SearchRecord struct {
	ID             string    `json:"id"`
	Dip            float64   `json:"dip"`
	Volume         int64     `json:"volume"` // Rounded total in liters
	Timestamp      time.Time `json:"timestamp"`
	HasFraction    bool      `json:"has_fraction"`
	BaseDip        int       `json:"base_dip,omitempty"`
	BaseVolume     float64   `json:"base_volume,omitempty"`
	Fraction       int       `json:"fraction,omitempty"`
	FractionVolume float64   `json:"fraction_volume,omitempty"`
	Method         Method    `json:"method,omitempty"`
}

// NewSearchRecord copies the provenance of result into a record.
func NewSearchRecord(id string, dip float64, result VolumeResult, at time.Time) SearchRecord {
	return SearchRecord{
		ID:             id,
		Dip:            dip,
		Volume:         result.Rounded(),
		Timestamp:      at,
		HasFraction:    result.HasFraction,
		BaseDip:        result.BaseDip,
		BaseVolume:     result.BaseVolume,
		Fraction:       result.Fraction,
		FractionVolume: result.FractionVolume,
		Method:         result.Method,
	}
}

// Validate checks that all record fields are valid
func (s *SearchRecord) Validate() error {
	if s.ID == "" {
		return errors.New("search ID must not be empty")
	}
	if s.Dip < 0 {
		return errors.New("dip must not be negative")
	}
	if s.Volume < 0 {
		return errors.New("volume must not be negative")
	}
	if s.Timestamp.IsZero() {
		return errors.New("timestamp must be set")
	}
	if s.Timestamp.After(time.Now()) {
		return errors.New("timestamp must not be in the future")
	}
	if s.HasFraction && (s.Fraction < 1 || s.Fraction > 9) {
		return errors.New("fraction must be between 1 and 9")
	}
	return nil
}
