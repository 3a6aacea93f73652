package workos

import (
	"net/http"
	"time"
)

// AuthorizationClients provides access to authorization resource clients.
type AuthorizationClients interface {
	FGA() FGAClient
}

// IdentityClients provides access to identity and tenancy resource clients.
type IdentityClients interface {
	Organizations() OrganizationsClient
	OrganizationDomains() OrganizationDomainsClient
	UserManagement() UserManagementClient
	DirectorySync() DirectorySyncClient
	MFA() MFAClient
}

// EmbeddingClients provides access to clients that hand out short-lived links and tokens.
type EmbeddingClients interface {
	Portal() PortalClient
	Widgets() WidgetsClient
}

// Client is an immutable handle to the WorkOS API. It is safe for concurrent use.
type Client interface {
	AuthorizationClients
	IdentityClients
	EmbeddingClients
	Events() EventsClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a workos.Client.
//
// # Credential
//
// APIKey is sent as a Bearer token on every request, except the device code
// exchange, which authenticates with ClientID alone. The key is read once at
// construction and never changes for the lifetime of the client.
//
// # Timeouts and retries
//
// Per-request deadlines should be set on the context passed to each method.
// HTTPTimeout bounds every exchange at the transport. The client performs no
// retries by default: every 401, 429 and 5xx is returned to the caller as an
// error. Setting RetryMax opts in to transport retries of connection failures,
// 429 and 5xx responses; 401 is never retried.
type Config struct {
	// APIKey: secret key used as the Bearer credential. Required.
	APIKey string
	// BaseURL: origin of the API. Defaults to https://api.workos.com.
	// workosclient.New trims a trailing slash and adds "https://" if no scheme
	// is present; values that do not parse are rejected there.
	BaseURL string
	// ClientID: AuthKit client ID, used by the CLI for device authorization.
	ClientID string

	// HTTPTimeout: timeout applied to each HTTP exchange. Zero uses the default.
	HTTPTimeout time.Duration
	// RetryMax: number of transport retries. Zero disables retries.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug: enables HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Interceptors: optional hooks run around every exchange. The chain must not
	// be modified after the client is created.
	Interceptors *InterceptorChain
	// HTTPClient: optional underlying client, e.g. with a custom transport.
	HTTPClient *http.Client
}
