package virtualdevice

import (
	"github.com/pkg/errors"
)

var (
	// ErrDuplicateKey is returned when a controller index or a controller/slot
	// pair is registered twice.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidReference is returned when a disk is added under a controller
	// index that is not part of the layout.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrNoCapacity is returned by GetFreeSlot when every slot of every
	// controller is occupied.
	ErrNoCapacity = errors.New("no free slot")

	// ErrSlotOutOfRange is returned when a slot index lies outside of the
	// addressable unit range of a controller.
	ErrSlotOutOfRange = errors.New("slot out of range")
)

// IsDuplicateKey returns true if the cause of err is ErrDuplicateKey.
func IsDuplicateKey(err error) bool {
	return errors.Cause(err) == ErrDuplicateKey
}

// IsInvalidReference returns true if the cause of err is ErrInvalidReference.
func IsInvalidReference(err error) bool {
	return errors.Cause(err) == ErrInvalidReference
}

// IsNoCapacity returns true if the cause of err is ErrNoCapacity.
func IsNoCapacity(err error) bool {
	return errors.Cause(err) == ErrNoCapacity
}

// IsSlotOutOfRange returns true if the cause of err is ErrSlotOutOfRange.
func IsSlotOutOfRange(err error) bool {
	return errors.Cause(err) == ErrSlotOutOfRange
}
