package enums

import "fmt"

// DropStatus records the outcome of a single door visit.
type DropStatus string

const (
	DropStatusDropped        DropStatus = "dropped"
	DropStatusSkipped        DropStatus = "skipped"
	DropStatusNoSoliciting   DropStatus = "no-soliciting"
	DropStatusExistingClient DropStatus = "existing-client"
)

var validDropStatuses = []DropStatus{
	DropStatusDropped,
	DropStatusSkipped,
	DropStatusNoSoliciting,
	DropStatusExistingClient,
}

// String implements fmt.Stringer.
func (d DropStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DropStatus.
func (d DropStatus) IsValid() bool {
	for _, candidate := range validDropStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDropStatus converts raw input into a DropStatus.
func ParseDropStatus(value string) (DropStatus, error) {
	for _, candidate := range validDropStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid drop status %q", value)
}
