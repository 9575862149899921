package resolver

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidInput is returned for missing or non-numeric dip input.
	ErrInvalidInput = errors.New("invalid dip height")
	// ErrOutOfRange is returned for dips outside [0, max].
	ErrOutOfRange = errors.New("dip height out of range")
)

// ParseDip validates raw user input as a dip height in [0, maxDip] mm.
func ParseDip(raw string, maxDip float64) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidInput)
	}
	dip, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(dip) || math.IsInf(dip, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, s)
	}
	if err := CheckRange(dip, maxDip); err != nil {
		return 0, err
	}
	return dip, nil
}

// CheckRange rejects dips outside [0, maxDip].
func CheckRange(dip, maxDip float64) error {
	if dip < 0 || dip > maxDip {
		return fmt.Errorf("%w: %v mm (allowed 0-%v)", ErrOutOfRange, dip, maxDip)
	}
	return nil
}
