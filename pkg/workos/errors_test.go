package workos

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantNil  bool
		wantKind ErrorKind
		wantJSON bool
	}{
		{name: "ok", status: http.StatusOK, body: `{}`, wantNil: true},
		{name: "created", status: http.StatusCreated, body: `{}`, wantNil: true},
		{name: "no content", status: http.StatusNoContent, wantNil: true},
		{name: "unauthorized ignores body", status: http.StatusUnauthorized, body: `not json`, wantKind: ErrorKindUnauthorized},
		{name: "not found json", status: http.StatusNotFound, body: `{"code":"entity_not_found"}`, wantKind: ErrorKindUnknown, wantJSON: true},
		{name: "server error text", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantKind: ErrorKindUnknown},
		{name: "redirect", status: http.StatusFound, body: ``, wantKind: ErrorKindUnknown},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := ClassifyResponse(testCase.status, []byte(testCase.body))
			if testCase.wantNil {
				assert.NoError(t, err)

				return
			}

			var workosErr *Error
			require.ErrorAs(t, err, &workosErr)
			assert.Equal(t, testCase.wantKind, workosErr.Kind)
			assert.Equal(t, testCase.status, workosErr.StatusCode)

			if testCase.wantKind == ErrorKindUnknown {
				assert.Equal(t, testCase.wantJSON, workosErr.Body.IsJSON())
			}
		})
	}
}

func TestResponseBody(t *testing.T) {
	t.Parallel()

	jsonBody := ParseResponseBody([]byte(`{"code":"invalid_request","message":"Bad"}`))
	assert.True(t, jsonBody.IsJSON())
	assert.JSONEq(t, `{"code":"invalid_request","message":"Bad"}`, jsonBody.Text())
	assert.Equal(t, map[string]any{"code": "invalid_request", "message": "Bad"}, jsonBody.Value())

	marshaled, err := json.Marshal(jsonBody)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"invalid_request","message":"Bad"}`, string(marshaled))

	textBody := ParseResponseBody([]byte("gateway timeout"))
	assert.False(t, textBody.IsJSON())
	assert.Nil(t, textBody.JSON())
	assert.Nil(t, textBody.Value())
	assert.Equal(t, "gateway timeout", textBody.Text())
	require.ErrorIs(t, textBody.Decode(&struct{}{}), ErrBodyNotJSON)

	marshaled, err = json.Marshal(textBody)
	require.NoError(t, err)
	assert.JSONEq(t, `"gateway timeout"`, string(marshaled))

	invalid := ParseResponseBody([]byte{'o', 'k', 0xff})
	assert.False(t, invalid.IsJSON())
	assert.Equal(t, "ok�", invalid.Text())

	empty := ParseResponseBody(nil)
	assert.False(t, empty.IsJSON())
	assert.Empty(t, empty.String())
}

func TestClassifyDeviceCodeResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		kind     ErrorKind
	}{
		{name: "pending", status: http.StatusBadRequest, body: `{"error":"authorization_pending"}`, sentinel: ErrAuthorizationPending, kind: ErrorKindOperation},
		{name: "slow down", status: http.StatusBadRequest, body: `{"error":"slow_down"}`, sentinel: ErrSlowDown, kind: ErrorKindOperation},
		{name: "denied", status: http.StatusBadRequest, body: `{"error":"access_denied"}`, sentinel: ErrAccessDenied, kind: ErrorKindOperation},
		{name: "expired", status: http.StatusBadRequest, body: `{"error":"expired_token"}`, sentinel: ErrExpiredToken, kind: ErrorKindOperation},
		{name: "invalid client", status: http.StatusBadRequest, body: `{"error":"invalid_client"}`, sentinel: ErrUnauthorized, kind: ErrorKindUnauthorized},
		{name: "unauthorized client", status: http.StatusBadRequest, body: `{"error":"unauthorized_client"}`, sentinel: ErrUnauthorized, kind: ErrorKindUnauthorized},
		{name: "status 401", status: http.StatusUnauthorized, body: `{"error":"authorization_pending"}`, sentinel: ErrUnauthorized, kind: ErrorKindUnauthorized},
		{name: "other code", status: http.StatusBadRequest, body: `{"code":"mfa_enrollment","message":"MFA required"}`, kind: ErrorKindOperation},
		{name: "no code", status: http.StatusBadRequest, body: `{"message":"bad"}`, kind: ErrorKindUnknown},
		{name: "text", status: http.StatusInternalServerError, body: `oops`, kind: ErrorKindUnknown},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := ClassifyDeviceCodeResponse(testCase.status, []byte(testCase.body))
			require.Error(t, err)

			var workosErr *Error
			require.ErrorAs(t, err, &workosErr)
			assert.Equal(t, testCase.kind, workosErr.Kind)

			if testCase.sentinel != nil {
				require.ErrorIs(t, err, testCase.sentinel)
			}
		})
	}

	assert.NoError(t, ClassifyDeviceCodeResponse(http.StatusOK, []byte(`{}`)))
}

func TestClassifyDeviceCodeResponse_AuthenticateError(t *testing.T) {
	t.Parallel()

	body := `{"code":"mfa_enrollment","message":"The user must enroll in MFA.","pending_authentication_token":"YQyCkYfuVw2mI3tzSrk2C1Y7S"}`
	err := ClassifyDeviceCodeResponse(http.StatusForbidden, []byte(body))

	var authErr *AuthenticateError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "mfa_enrollment", authErr.Code)
	assert.False(t, authErr.IsUnauthorized())
	assert.Equal(t, "authenticate: mfa_enrollment: The user must enroll in MFA.", authErr.Error())
	assert.JSONEq(t, body, string(authErr.Raw))
}

func TestError_Error(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")

	assert.Equal(t, "workos: unauthorized", (&Error{Kind: ErrorKindUnauthorized}).Error())
	assert.Equal(t, "workos: request failed: connection refused", NewNetworkError(cause).Error())
	assert.Equal(t, "workos: building request: connection refused", NewURLError(cause).Error())
	assert.Equal(t, "workos: slow_down: wait", NewOperationError(http.StatusBadRequest,
		&DeviceCodeError{Code: DeviceCodeSlowDown, Description: "wait"}).Error())
	assert.Equal(t, "workos: unexpected status 404: not found",
		(&Error{Kind: ErrorKindUnknown, StatusCode: http.StatusNotFound, Body: ParseResponseBody([]byte("not found"))}).Error())
	assert.Equal(t, "unknown", ErrorKindUnknown.String())
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("listing warrants: %w", NewNetworkError(errors.New("eof")))

	assert.True(t, IsNetwork(wrapped))
	assert.False(t, IsURL(wrapped))
	assert.False(t, IsUnknown(wrapped))
	assert.False(t, IsOperation(wrapped))
	assert.False(t, IsUnauthorized(wrapped))
	assert.Zero(t, StatusCode(wrapped))
	assert.False(t, IsNetwork(errors.New("plain")))

	operation := NewOperationError(http.StatusOK, ErrNotAllowed)
	assert.True(t, IsOperation(operation))
	assert.ErrorIs(t, operation, ErrNotAllowed)
	assert.Equal(t, http.StatusOK, StatusCode(operation))
}
