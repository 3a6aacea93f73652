package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API endpoints and identity.
const (
	// DefaultBaseURL is the origin used when no base URL is configured.
	DefaultBaseURL = "https://api.workos.com"

	// DefaultUserAgent is sent when the caller does not set one.
	DefaultUserAgent = "workos-client-go"

	// DeviceCodeGrantType is the grant_type of the device authorization exchange.
	DeviceCodeGrantType = "urn:ietf:params:oauth:grant-type:device_code"

	// WarrantTokenHeader carries the FGA consistency token on reads.
	WarrantTokenHeader = "Warrant-Token"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits. The client does not retry unless RetryMax is configured.
const (
	// DefaultRetryMax is the number of transport retries performed by default.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait between opt-in retries.
	DefaultRetryWaitMin = 1 * time.Second

	// ExtendedRetryWaitMax is the maximum wait between opt-in retries.
	ExtendedRetryWaitMax = 30 * time.Second
)

// Pagination.
const (
	// StandardPageSize is the page size the CLI requests by default.
	StandardPageSize = 10

	// MaxPageSize is the largest limit the API accepts.
	MaxPageSize = 100
)

// Time intervals and delays.
const (
	// DefaultPollInterval is used by device login when the server omits an interval.
	DefaultPollInterval = 5 * time.Second

	// SlowDownIncrement is added to the poll interval after a slow_down response.
	SlowDownIncrement = 5 * time.Second
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"

	// JSONIndentSize is the indent used by JSON and YAML renderers.
	JSONIndentSize = 2
)

// Common boolean strings.
const (
	BooleanTrue  = "true"
	BooleanFalse = "false"
)
