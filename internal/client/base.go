package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/workos-client/internal/constants"
	"github.com/fivetwenty-io/workos-client/internal/http"
	"github.com/fivetwenty-io/workos-client/pkg/workos"
)

// doJSON performs req and decodes the response body into a T.
func doJSON[T any](ctx context.Context, httpClient *http.Client, req *http.Request, action string) (*T, error) {
	resp, err := httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	var result T

	err = http.Decode(resp, &result)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	return &result, nil
}

// doEmpty performs req and discards the response body.
func doEmpty(ctx context.Context, httpClient *http.Client, req *http.Request, action string) error {
	_, err := httpClient.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	return nil
}

// listPage fetches one page of a list endpoint. params is a struct with `url`
// tags, or nil.
func listPage[T any](
	ctx context.Context,
	httpClient *http.Client,
	path string,
	params interface{},
	headers map[string]string,
	action string,
) (*workos.List[T], error) {
	query, err := http.EncodeQuery(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	return doJSON[workos.List[T]](ctx, httpClient, &http.Request{
		Method:  "GET",
		Path:    path,
		Query:   query,
		Headers: headers,
	}, action)
}

// requireParams rejects a nil params pointer before a request is built.
func requireParams[T any](params *T, action string) error {
	if params == nil {
		return fmt.Errorf("%s: %w", action, workos.NewURLError(workos.ErrParamsRequired))
	}

	return nil
}

// resourcePath joins segments onto base, escaping each one.
func resourcePath(base string, segments ...string) string {
	var builder strings.Builder

	builder.WriteString(base)

	for _, segment := range segments {
		builder.WriteByte('/')
		builder.WriteString(url.PathEscape(segment))
	}

	return builder.String()
}

// warrantTokenHeader returns the consistency header for token, or nil.
func warrantTokenHeader(token string) map[string]string {
	if token == "" {
		return nil
	}

	return map[string]string{constants.WarrantTokenHeader: token}
}
