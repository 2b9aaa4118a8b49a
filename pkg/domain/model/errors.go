package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors shared by repositories, use cases and controllers
var (
	ErrNotFound         = goerr.New("not found")
	ErrValidation       = goerr.New("validation failed")
	ErrFactorOutOfRange = goerr.New("GUT factor must be between 1 and 5")
	ErrPermissionDenied = goerr.New("permission denied")
	ErrConflict         = goerr.New("conflict")
	ErrUnavailable      = goerr.New("feature not configured")
)

// Context keys for error values
const (
	RiskIDKey      = "risk_id"
	AreaIDKey      = "area_id"
	EquipmentIDKey = "equipment_id"
	UserIDKey      = "user_id"
	FactorKey      = "factor"
	ValueKey       = "value"
)
