package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fivetwenty-io/workos-client/internal/auth"
	workoshttp "github.com/fivetwenty-io/workos-client/internal/http"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

func (l *MockLogger) messages() []string {
	messages := make([]string, 0, len(l.logs))
	for _, entry := range l.logs {
		msg, _ := entry["msg"].(string)
		messages = append(messages, msg)
	}

	return messages
}

var errCredentialUnavailable = errors.New("credential unavailable")

type failingCredential struct{}

func (failingCredential) Credential(context.Context) (string, error) {
	return "", errCredentialUnavailable
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/organizations/org_123", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer sk_test_123", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Equal(t, "workos-client-go", request.Header.Get("User-Agent"))

			response := map[string]string{"id": "org_123", "name": "Foo Corp"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		client := workoshttp.NewClient(server.URL, auth.NewStaticCredential("sk_test_123"))

		req := &workoshttp.Request{
			Method: "GET",
			Path:   "/organizations/org_123",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string

		err = workoshttp.Decode(resp, &result)
		require.NoError(t, err)
		assert.Equal(t, "org_123", result["id"])
		assert.Equal(t, "Foo Corp", result["name"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/fga/v1/warrants", request.URL.Path)
			assert.Equal(t, "limit=10&resource_type=document", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := workoshttp.NewClient(server.URL, nil)

		req := &workoshttp.Request{
			Method: "GET",
			Path:   "/fga/v1/warrants",
			Query:  url.Values{"resource_type": []string{"document"}, "limit": []string{"10"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "Foo Corp", body["name"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := workoshttp.NewClient(server.URL, nil)

		req := &workoshttp.Request{
			Method: "POST",
			Path:   "/organizations",
			Body:   map[string]string{"name": "Foo Corp"},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("request with form body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "application/x-www-form-urlencoded", request.Header.Get("Content-Type"))
			assert.NoError(t, request.ParseForm())
			assert.Equal(t, "client_123", request.PostForm.Get("client_id"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := workoshttp.NewClient(server.URL, nil)

		req := &workoshttp.Request{
			Method: "POST",
			Path:   "/user_management/authorize/device",
			Form:   url.Values{"client_id": []string{"client_123"}},
		}

		_, err := client.Do(context.Background(), req)
		require.NoError(t, err)
	})

	t.Run("unknown error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"message":"Organization not found","code":"entity_not_found"}`))
		}))
		defer server.Close()

		client := workoshttp.NewClient(server.URL, nil)

		req := &workoshttp.Request{
			Method: "GET",
			Path:   "/organizations/invalid",
		}

		resp, err := client.Do(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		var workosErr *workos.Error
		require.ErrorAs(t, err, &workosErr)
		assert.Equal(t, workos.ErrorKindUnknown, workosErr.Kind)
		assert.Equal(t, 404, workosErr.StatusCode)
		assert.True(t, workosErr.Body.IsJSON())
		assert.Contains(t, workosErr.Body.String(), "entity_not_found")
	})

	t.Run("unauthorized response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusUnauthorized)
			_, _ = writer.Write([]byte("not json"))
		}))
		defer server.Close()

		client := workoshttp.NewClient(server.URL, auth.NewStaticCredential("sk_test_bad"))

		_, err := client.Get(context.Background(), "/organizations", nil)
		require.ErrorIs(t, err, workos.ErrUnauthorized)
		assert.True(t, workos.IsUnauthorized(err))
	})

	t.Run("custom classifier", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadRequest)
			_, _ = writer.Write([]byte(`{"error":"authorization_pending","error_description":"pending"}`))
		}))
		defer server.Close()

		client := workoshttp.NewClient(server.URL, nil)

		req := &workoshttp.Request{
			Method:   "POST",
			Path:     "/user_management/authenticate",
			Body:     map[string]string{"grant_type": "device_code"},
			Classify: workos.ClassifyDeviceCodeResponse,
		}

		_, err := client.Do(context.Background(), req)
		require.ErrorIs(t, err, workos.ErrAuthorizationPending)
	})

	t.Run("custom headers and token override", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "warrant-token-1", request.Header.Get("Warrant-Token"))
			assert.Equal(t, "Bearer override", request.Header.Get("Authorization"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := workoshttp.NewClient(server.URL, auth.NewStaticCredential("sk_test_123"))

		req := &workoshttp.Request{
			Method: "GET",
			Path:   "/fga/v1/query",
			Token:  "override",
			Headers: map[string]string{
				"Warrant-Token": "warrant-token-1",
			},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("no auth", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Empty(t, request.Header.Get("Authorization"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := workoshttp.NewClient(server.URL, auth.NewStaticCredential("sk_test_123"))

		_, err := client.Do(context.Background(), &workoshttp.Request{Method: "POST", Path: "/user_management/authenticate", NoAuth: true})
		require.NoError(t, err)
	})

	t.Run("network error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
		serverURL := server.URL
		server.Close()

		client := workoshttp.NewClient(serverURL, nil)

		_, err := client.Get(context.Background(), "/organizations", nil)
		require.Error(t, err)
		assert.True(t, workos.IsNetwork(err))
	})

	t.Run("malformed URL", func(t *testing.T) {
		t.Parallel()

		client := workoshttp.NewClient("http://[::1", nil)

		_, err := client.Get(context.Background(), "/organizations", nil)
		require.Error(t, err)
		assert.True(t, workos.IsURL(err))
	})

	t.Run("unencodable body", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			calls.Add(1)
		}))
		defer server.Close()

		client := workoshttp.NewClient(server.URL, auth.NewStaticCredential("sk_test_123"))

		_, err := client.Post(context.Background(), "/fga/v1/resources", map[string]interface{}{"bad": make(chan int)})
		require.Error(t, err)
		assert.True(t, workos.IsURL(err))
		assert.Zero(t, calls.Load())
	})

	t.Run("credential failure", func(t *testing.T) {
		t.Parallel()

		client := workoshttp.NewClient("https://api.workos.test", failingCredential{})

		_, err := client.Get(context.Background(), "/organizations", nil)
		require.Error(t, err)
		assert.True(t, workos.IsNetwork(err))
		assert.ErrorIs(t, err, errCredentialUnavailable)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := workoshttp.NewClient(server.URL, nil, workoshttp.WithLogger(logger), workoshttp.WithDebug(true))

		req := &workoshttp.Request{
			Method: "GET",
			Path:   "/organizations",
		}

		_, err := client.Do(context.Background(), req)
		require.NoError(t, err)

		messages := logger.messages()
		assert.Contains(t, messages, "HTTP Request")
		assert.Contains(t, messages, "HTTP Response")
	})

	t.Run("interceptors observe the exchange", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "intercepted", request.Header.Get("X-Test"))
			writer.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		var observed *workos.Response

		chain := workos.NewInterceptorChain().
			AddRequestInterceptor(workos.HeaderInterceptor(map[string]string{"X-Test": "intercepted"})).
			AddResponseInterceptor(func(ctx context.Context, req *workos.Request, resp *workos.Response) error {
				observed = resp

				return nil
			})

		client := workoshttp.NewClient(server.URL, nil, workoshttp.WithInterceptors(chain))

		_, err := client.Get(context.Background(), "/events", nil)
		require.NoError(t, err)
		require.NotNil(t, observed)
		assert.Equal(t, http.StatusAccepted, observed.StatusCode)
	})

	t.Run("request interceptor aborts", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		errBlocked := errors.New("blocked")
		chain := workos.NewInterceptorChain().AddRequestInterceptor(func(ctx context.Context, req *workos.Request) error {
			return errBlocked
		})

		client := workoshttp.NewClient(server.URL, nil, workoshttp.WithInterceptors(chain))

		_, err := client.Get(context.Background(), "/events", nil)
		require.ErrorIs(t, err, errBlocked)
		assert.Equal(t, int32(0), hits.Load())
	})
}

func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*workoshttp.Client, context.Context) (*workoshttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *workoshttp.Client, ctx context.Context) (*workoshttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *workoshttp.Client, ctx context.Context) (*workoshttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *workoshttp.Client, ctx context.Context) (*workoshttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PATCH",
			method: "PATCH",
			fn: func(c *workoshttp.Client, ctx context.Context) (*workoshttp.Response, error) {
				return c.Patch(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *workoshttp.Client, ctx context.Context) (*workoshttp.Response, error) {
				return c.Delete(ctx, "/test")
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := workoshttp.NewClient(server.URL, nil)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("no retries by default", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := workoshttp.NewClient(server.URL, nil)

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.True(t, workos.IsUnknown(err))
		assert.Equal(t, 500, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("retries on 5xx errors when enabled", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := workoshttp.NewClient(server.URL, nil, workoshttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("retries on rate limiting when enabled", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 2 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := workoshttp.NewClient(server.URL, nil, workoshttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(2), attempts.Load())
	})

	t.Run("does not retry unauthorized", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := workoshttp.NewClient(server.URL, nil, workoshttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 401, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)

			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := workoshttp.NewClient(server.URL, nil, workoshttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load()) // Should not retry
	})
}

func TestEncodeQuery(t *testing.T) {
	t.Parallel()

	params := &workos.ListWarrantsParams{
		PaginationParams: workos.PaginationParams{Limit: 10, After: "cursor_1"},
		ResourceType:     "document",
		Relation:         "viewer",
		WarrantToken:     "ignored",
	}

	values, err := workoshttp.EncodeQuery(params)
	require.NoError(t, err)
	assert.Equal(t, "after=cursor_1&limit=10&relation=viewer&resource_type=document", values.Encode())

	var nilParams *workos.ListWarrantsParams

	values, err = workoshttp.EncodeQuery(nilParams)
	require.NoError(t, err)
	assert.Empty(t, values)
}
