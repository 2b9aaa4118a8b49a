package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound = goerr.New("configuration file not found")
	ErrInvalidConfig  = goerr.New("invalid configuration")
	ErrDuplicateArea  = goerr.New("duplicate area name")
	ErrDuplicateUser  = goerr.New("duplicate user")
	ErrMissingName    = goerr.New("name is required")
	ErrInvalidBackend = goerr.New("invalid backend")
	ErrMissingFlag    = goerr.New("required flag is missing")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	AreaKey       = "area"
	UserKey       = "user"
	BackendKey    = "backend"
	FlagKey       = "flag"
	IndexKey      = "index"
)
