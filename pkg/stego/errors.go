package stego

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to classify a failure.
var (
	// ErrCapacity indicates the payload needs more cells than the carrier (or region) offers.
	ErrCapacity = errors.New("payload exceeds carrier capacity")

	// ErrBounds indicates a region lies outside the carrier.
	ErrBounds = errors.New("region out of carrier bounds")

	// ErrHeaderNotFound indicates no STG1 header was found in the extracted bitstream.
	ErrHeaderNotFound = errors.New("no stego header found")

	// ErrKeyMismatch indicates a header was parsed but its key hint disagrees with the key.
	ErrKeyMismatch = errors.New("key does not match embedded key hint")

	// ErrUnsupported indicates a carrier shape, region type or medium the operation cannot handle.
	ErrUnsupported = errors.New("unsupported carrier")

	// ErrInvalidLSB indicates a bits-per-cell value outside [1,8].
	ErrInvalidLSB = errors.New("bits per cell must be between 1 and 8")
)

// CapacityError reports how many bits an embed needed and how many the carrier had.
type CapacityError struct {
	Required  int
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: required %d bits, available %d bits", ErrCapacity, e.Required, e.Available)
}

func (e *CapacityError) Unwrap() error { return ErrCapacity }

// BoundsError reports a region that does not fit the carrier shape.
type BoundsError struct {
	Region Region
	Shape  string
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: %v does not fit %s", ErrBounds, e.Region, e.Shape)
}

func (e *BoundsError) Unwrap() error { return ErrBounds }

func checkLSB(lsb int) error {
	if lsb < 1 || lsb > 8 {
		return fmt.Errorf("%w: got %d", ErrInvalidLSB, lsb)
	}
	return nil
}
