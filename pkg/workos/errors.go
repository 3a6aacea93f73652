package workos

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind identifies which branch of the error taxonomy an Error belongs to.
type ErrorKind int

const (
	// ErrorKindUnauthorized means the server rejected the credential (HTTP 401).
	ErrorKindUnauthorized ErrorKind = iota + 1
	// ErrorKindOperation means an operation-specific error; Err holds the typed variant.
	ErrorKindOperation
	// ErrorKindUnknown means any other non-success status; Body holds the response body.
	ErrorKindUnknown
	// ErrorKindURL means the request URL or query string could not be built.
	ErrorKindURL
	// ErrorKindNetwork means the exchange failed before a usable response was obtained,
	// including a success body that could not be decoded.
	ErrorKindNetwork
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindUnauthorized:
		return "unauthorized"
	case ErrorKindOperation:
		return "operation"
	case ErrorKindUnknown:
		return "unknown"
	case ErrorKindURL:
		return "url"
	case ErrorKindNetwork:
		return "network"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinel errors for err113 compliance.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoMorePages  = errors.New("no more pages")
	ErrNotAllowed   = errors.New("check result not allowed")

	ErrAuthorizationPending = errors.New("authorization pending")
	ErrSlowDown             = errors.New("slow down")
	ErrAccessDenied         = errors.New("access denied")
	ErrExpiredToken         = errors.New("expired token")
)

// Configuration errors returned before any request is sent.
var (
	ErrConfigRequired    = errors.New("config is required")
	ErrAPIKeyRequired    = errors.New("API key is required")
	ErrInvalidBaseURL    = errors.New("invalid base URL")
	ErrUnsupportedScheme = errors.New("base URL scheme must be http or https")
	ErrClientIDRequired  = errors.New("client ID is required")
	ErrParamsRequired    = errors.New("params are required")
)

// Error is the single error type returned by every operation. Exactly one Kind is set.
type Error struct {
	Kind ErrorKind
	// StatusCode is the HTTP status, zero for ErrorKindURL and ErrorKindNetwork.
	StatusCode int
	// Body is the captured response body for ErrorKindUnknown.
	Body ResponseBody
	// Err is the operation variant or the underlying transport cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case ErrorKindUnauthorized:
		return "workos: unauthorized"
	case ErrorKindOperation:
		return fmt.Sprintf("workos: %v", e.Err)
	case ErrorKindUnknown:
		return fmt.Sprintf("workos: unexpected status %d: %s", e.StatusCode, e.Body)
	case ErrorKindURL:
		return fmt.Sprintf("workos: building request: %v", e.Err)
	default:
		return fmt.Sprintf("workos: request failed: %v", e.Err)
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewOperationError wraps an operation-specific variant.
func NewOperationError(statusCode int, err error) *Error {
	return &Error{Kind: ErrorKindOperation, StatusCode: statusCode, Err: err}
}

// NewNetworkError wraps a transport failure or a success body decode failure.
func NewNetworkError(err error) *Error {
	return &Error{Kind: ErrorKindNetwork, Err: err}
}

// NewURLError wraps a failure to construct the request URL.
func NewURLError(err error) *Error {
	return &Error{Kind: ErrorKindURL, Err: err}
}

// ResponseBody holds an error response body as parsed JSON when it is valid JSON,
// otherwise as text.
type ResponseBody struct {
	raw    json.RawMessage
	text   string
	isJSON bool
}

// ParseResponseBody never fails: invalid JSON, empty and non-UTF8 bodies degrade to text.
func ParseResponseBody(data []byte) ResponseBody {
	if len(data) > 0 && json.Valid(data) {
		raw := make(json.RawMessage, len(data))
		copy(raw, data)

		return ResponseBody{raw: raw, isJSON: true}
	}

	return ResponseBody{text: strings.ToValidUTF8(string(data), "�")}
}

// IsJSON reports whether the body parsed as JSON.
func (b ResponseBody) IsJSON() bool {
	return b.isJSON
}

// JSON returns the raw JSON, or nil for a text body.
func (b ResponseBody) JSON() json.RawMessage {
	return b.raw
}

// Value returns the parsed JSON value, or nil for a text body.
func (b ResponseBody) Value() any {
	if !b.isJSON {
		return nil
	}

	var v any

	_ = json.Unmarshal(b.raw, &v)

	return v
}

// Text returns the text body, or the raw JSON text for a JSON body.
func (b ResponseBody) Text() string {
	if b.isJSON {
		return string(b.raw)
	}

	return b.text
}

// Decode unmarshals a JSON body into v.
func (b ResponseBody) Decode(v any) error {
	if !b.isJSON {
		return fmt.Errorf("decoding response body: %w", ErrBodyNotJSON)
	}

	err := json.Unmarshal(b.raw, v)
	if err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}

	return nil
}

// String implements fmt.Stringer.
func (b ResponseBody) String() string {
	return b.Text()
}

// MarshalJSON emits JSON bodies as-is and text bodies as a JSON string.
func (b ResponseBody) MarshalJSON() ([]byte, error) {
	if b.isJSON {
		return b.raw, nil
	}

	data, err := json.Marshal(b.text)
	if err != nil {
		return nil, fmt.Errorf("encoding response body: %w", err)
	}

	return data, nil
}

// ErrBodyNotJSON is returned by ResponseBody.Decode for text bodies.
var ErrBodyNotJSON = errors.New("response body is not JSON")

// ClassifyResponse maps a completed response to nil for 2xx statuses, Unauthorized
// for 401 without reading the body, and Unknown with the captured body otherwise.
func ClassifyResponse(statusCode int, body []byte) error {
	switch {
	case statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices:
		return nil
	case statusCode == http.StatusUnauthorized:
		return &Error{Kind: ErrorKindUnauthorized, StatusCode: statusCode, Err: ErrUnauthorized}
	default:
		return &Error{Kind: ErrorKindUnknown, StatusCode: statusCode, Body: ParseResponseBody(body)}
	}
}

// DeviceCodeErrorCode is the error discriminant returned while exchanging a device code.
type DeviceCodeErrorCode string

// Device code error codes.
const (
	DeviceCodeAuthorizationPending DeviceCodeErrorCode = "authorization_pending"
	DeviceCodeSlowDown             DeviceCodeErrorCode = "slow_down"
	DeviceCodeAccessDenied         DeviceCodeErrorCode = "access_denied"
	DeviceCodeExpiredToken         DeviceCodeErrorCode = "expired_token"
)

// DeviceCodeError is the operation error of AuthenticateWithDeviceCode.
// It matches ErrAuthorizationPending, ErrSlowDown, ErrAccessDenied and ErrExpiredToken
// with errors.Is.
type DeviceCodeError struct {
	Code        DeviceCodeErrorCode `json:"error"`
	Description string              `json:"error_description"`
}

// Error implements the error interface.
func (e *DeviceCodeError) Error() string {
	if e.Description == "" {
		return string(e.Code)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is maps the code to its sentinel.
func (e *DeviceCodeError) Is(target error) bool {
	switch e.Code {
	case DeviceCodeAuthorizationPending:
		return target == ErrAuthorizationPending
	case DeviceCodeSlowDown:
		return target == ErrSlowDown
	case DeviceCodeAccessDenied:
		return target == ErrAccessDenied
	case DeviceCodeExpiredToken:
		return target == ErrExpiredToken
	default:
		return false
	}
}

// AuthenticateError is any other error body returned by the authenticate endpoint.
type AuthenticateError struct {
	Code             string `json:"code,omitempty"`
	Message          string `json:"message,omitempty"`
	ErrorCode        string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
	// Raw is the complete body, which may carry extra fields such as a pending
	// authentication token.
	Raw json.RawMessage `json:"-"`
}

// Error implements the error interface.
func (e *AuthenticateError) Error() string {
	code := e.Code
	if code == "" {
		code = e.ErrorCode
	}

	msg := e.Message
	if msg == "" {
		msg = e.ErrorDescription
	}

	if msg == "" {
		return "authenticate: " + code
	}

	return fmt.Sprintf("authenticate: %s: %s", code, msg)
}

// IsUnauthorized reports whether the server rejected the client itself.
func (e *AuthenticateError) IsUnauthorized() bool {
	return e.ErrorCode == "invalid_client" || e.ErrorCode == "unauthorized_client"
}

// ClassifyDeviceCodeResponse refines ClassifyResponse for the device code exchange:
// a non-401 error body carrying a known "error" discriminant becomes a DeviceCodeError,
// invalid_client and unauthorized_client become Unauthorized, any other body with a
// code becomes an AuthenticateError, and the rest falls back to the generic
// classification.
func ClassifyDeviceCodeResponse(statusCode int, body []byte) error {
	err := ClassifyResponse(statusCode, body)
	if err == nil || statusCode == http.StatusUnauthorized {
		return err
	}

	var deviceErr DeviceCodeError

	if json.Unmarshal(body, &deviceErr) == nil {
		switch deviceErr.Code {
		case DeviceCodeAuthorizationPending, DeviceCodeSlowDown, DeviceCodeAccessDenied, DeviceCodeExpiredToken:
			return NewOperationError(statusCode, &deviceErr)
		}
	}

	authErr := AuthenticateError{}

	if json.Unmarshal(body, &authErr) == nil && (authErr.Code != "" || authErr.ErrorCode != "") {
		if authErr.IsUnauthorized() {
			return &Error{Kind: ErrorKindUnauthorized, StatusCode: statusCode, Err: ErrUnauthorized}
		}

		authErr.Raw = append(json.RawMessage(nil), body...)

		return NewOperationError(statusCode, &authErr)
	}

	return err
}

func kindOf(err error) (ErrorKind, bool) {
	var workosErr *Error
	if errors.As(err, &workosErr) {
		return workosErr.Kind, true
	}

	return 0, false
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	kind, ok := kindOf(err)

	return ok && kind == ErrorKindUnauthorized
}

// IsOperation checks if the error is an operation-specific error.
func IsOperation(err error) bool {
	kind, ok := kindOf(err)

	return ok && kind == ErrorKindOperation
}

// IsUnknown checks if the error is an unclassified non-success response.
func IsUnknown(err error) bool {
	kind, ok := kindOf(err)

	return ok && kind == ErrorKindUnknown
}

// IsNetwork checks if the error is a transport or decode failure.
func IsNetwork(err error) bool {
	kind, ok := kindOf(err)

	return ok && kind == ErrorKindNetwork
}

// IsURL checks if the error is a request construction failure.
func IsURL(err error) bool {
	kind, ok := kindOf(err)

	return ok && kind == ErrorKindURL
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var workosErr *Error
	if errors.As(err, &workosErr) {
		return workosErr.StatusCode
	}

	return 0
}
