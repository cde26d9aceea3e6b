package query

import (
	"fmt"
	"strings"
)

// Kind identifies a query constraint type.
type Kind string

const (
	EnforceTimeSlot    Kind = "enforce_time_slot"
	EnforceDay         Kind = "enforce_day"
	EnforceRoom        Kind = "enforce_room"
	EnforceBeforeTime  Kind = "enforce_before_time"
	EnforceAfterTime   Kind = "enforce_after_time"
	EnforceNoLunch     Kind = "enforce_no_lunch"
	EnforceConsecutive Kind = "enforce_consecutive"
	VetoTimeSlot       Kind = "veto_time_slot"
	VetoDay            Kind = "veto_day"
	VetoRoom           Kind = "veto_room"
	VetoLunch          Kind = "veto_lunch"
	VetoInstructorDay  Kind = "veto_instructor_day"
	SwapTimeSlots      Kind = "swap_time_slots"
	SwapRooms          Kind = "swap_rooms"
)

// Kinds lists every query kind in declaration order.
var Kinds = []Kind{
	EnforceTimeSlot,
	EnforceDay,
	EnforceRoom,
	EnforceBeforeTime,
	EnforceAfterTime,
	EnforceNoLunch,
	EnforceConsecutive,
	VetoTimeSlot,
	VetoDay,
	VetoRoom,
	VetoLunch,
	VetoInstructorDay,
	SwapTimeSlots,
	SwapRooms,
}

// ParseKind resolves a kind name. Unknown names fail with UNKNOWN_QUERY_KIND.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	if k.Valid() {
		return k, nil
	}
	return "", &Error{
		Code:    ErrCodeUnknownQueryKind,
		Message: fmt.Sprintf("unknown query type %q", s),
	}
}

// Valid reports whether k is in the closed kind set.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsEnforce reports whether k requires something to happen.
func (k Kind) IsEnforce() bool {
	return strings.HasPrefix(string(k), "enforce_")
}

// IsVeto reports whether k forbids something.
func (k Kind) IsVeto() bool {
	return strings.HasPrefix(string(k), "veto_")
}

// IsSwap reports whether k exchanges two courses' placements.
func (k Kind) IsSwap() bool {
	return strings.HasPrefix(string(k), "swap_")
}
