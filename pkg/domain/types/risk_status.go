package types

import "fmt"

// RiskStatus represents the lifecycle status of a risk record
type RiskStatus string

const (
	RiskStatusOpen       RiskStatus = "OPEN"
	RiskStatusInProgress RiskStatus = "IN_PROGRESS"
	RiskStatusMitigated  RiskStatus = "MITIGATED"
	RiskStatusResolved   RiskStatus = "RESOLVED"
)

// AllRiskStatuses returns all valid risk statuses
func AllRiskStatuses() []RiskStatus {
	return []RiskStatus{
		RiskStatusOpen,
		RiskStatusInProgress,
		RiskStatusMitigated,
		RiskStatusResolved,
	}
}

// IsValid checks if the risk status is valid
func (s RiskStatus) IsValid() bool {
	switch s {
	case RiskStatusOpen,
		RiskStatusInProgress,
		RiskStatusMitigated,
		RiskStatusResolved:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as RiskStatusOpen
func (s RiskStatus) Normalize() RiskStatus {
	if s == "" {
		return RiskStatusOpen
	}
	return s
}

// IsActive reports whether the risk still needs attention
func (s RiskStatus) IsActive() bool {
	return s == RiskStatusOpen || s == RiskStatusInProgress
}

func (s RiskStatus) String() string {
	return string(s)
}

// ParseRiskStatus parses a string into a RiskStatus
func ParseRiskStatus(s string) (RiskStatus, error) {
	status := RiskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid risk status: %s", s)
	}
	return status, nil
}
