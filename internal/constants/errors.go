package constants

import "errors"

// Configuration errors.
var (
	ErrNoCredential       = errors.New("no credential configured")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
	ErrInvalidOutputValue = errors.New("output must be one of table, json, yaml")
	ErrDeviceLoginExpired = errors.New("device code expired before authorization completed")
)

// Token errors.
var (
	ErrInvalidJWTFormat  = errors.New("invalid JWT format")
	ErrNoExpirationClaim = errors.New("no expiration claim found")
)
