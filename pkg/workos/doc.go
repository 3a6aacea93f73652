// Package workos provides types, interfaces, and helpers for working with the
// WorkOS REST API.
//
// # Overview
//
// The workos package defines the domain types (e.g., Organization, Warrant,
// DirectoryUser) and the interfaces for resource-group clients (e.g., FGAClient,
// UserManagementClient). A concrete implementation is provided by the
// workosclient package, which wires configuration, transport and the credential.
// A client is an immutable value: pass it to whatever needs it and use it from
// any number of goroutines.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/workos-client/pkg/workos"
//	  "github.com/fivetwenty-io/workos-client/pkg/workosclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := workosclient.New(ctx, &workos.Config{APIKey: "sk_test_..."})
//	  if err != nil { log.Fatal(err) }
//
//	  org, err := cli.Organizations().Get(ctx, "org_01EHZNVPK3SFK441A1RGBFSHRT")
//	  if err != nil { log.Fatal(err) }
//	  _ = org
//	}
//
// # Pagination
//
// List operations return one List page. The neighbouring page cursors are in
// ListMetadata; a nil cursor means there is no page in that direction. A Pager
// follows one direction until the cursor runs out:
//
//	params := &workos.ListWarrantsParams{ResourceType: "document"}
//	pager := workos.NewPager(func(ctx context.Context, page workos.PaginationParams) (*workos.List[workos.Warrant], error) {
//	  params.PaginationParams = page
//	  return cli.FGA().ListWarrants(ctx, params)
//	}, workos.PaginationParams{Limit: 50}, workos.Forward)
//
//	for warrant, err := range pager.All(ctx) {
//	  if err != nil { break }
//	  _ = warrant
//	}
//
// # Errors
//
// Every failed call returns an error wrapping a *Error whose Kind is one of
// Unauthorized, Operation, Unknown, URL or Network. Nothing is retried by
// default. Operation errors carry a typed variant that errors.Is and errors.As
// can match, for example ErrAuthorizationPending and ErrSlowDown while polling
// a device code:
//
//	resp, err := cli.UserManagement().AuthenticateWithDeviceCode(ctx, params)
//	switch {
//	case errors.Is(err, workos.ErrAuthorizationPending):
//	  // wait interval, try again
//	case errors.Is(err, workos.ErrSlowDown):
//	  // increase interval, try again
//	case workos.IsUnauthorized(err):
//	  // bad key or client
//	}
//
// Unknown errors keep the response body, as JSON when it parses and as text
// otherwise.
//
// # Interceptors
//
// Interceptors run inside the transport around each exchange. The package
// ships logging, header, rate limit (golang.org/x/time/rate) and Prometheus
// metrics interceptors.
package workos
