package enums

import "fmt"

// SessionStatus tracks the state of a scheduled shooting session.
type SessionStatus string

const (
	SessionStatusPlanned   SessionStatus = "PLANNED"
	SessionStatusConfirmed SessionStatus = "CONFIRMED"
	SessionStatusDone      SessionStatus = "DONE"
	SessionStatusCancelled SessionStatus = "CANCELLED"
)

var validSessionStatuses = []SessionStatus{
	SessionStatusPlanned,
	SessionStatusConfirmed,
	SessionStatusDone,
	SessionStatusCancelled,
}

// String implements fmt.Stringer.
func (s SessionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SessionStatus.
func (s SessionStatus) IsValid() bool {
	for _, candidate := range validSessionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSessionStatus converts raw input into a SessionStatus.
func ParseSessionStatus(value string) (SessionStatus, error) {
	for _, candidate := range validSessionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid session status %q", value)
}
