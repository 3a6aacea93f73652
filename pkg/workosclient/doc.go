// Package workosclient provides the primary entry point for constructing a
// WorkOS API client that implements the workos.Client interface.
//
// It layers configuration, HTTP transport and credentials on top of the
// resource interfaces and types defined in the workos package. Most
// applications import workosclient to build a client, then use the returned
// workos.Client to reach the resource-specific clients, for example FGA(),
// Organizations() or UserManagement().
//
// Quick start
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
//
//	  cli, err := workosclient.New(ctx, &workos.Config{APIKey: "sk_example_123456789"})
//	  if err != nil { log.Fatal(err) }
//
//	  allowed, err := cli.FGA().Check(ctx, &workos.CheckParams{
//	    Subject:  "user:alice",
//	    Relation: "viewer",
//	    Resource: "document:plan",
//	  })
//	  if err != nil { log.Fatal(err) }
//	  _ = allowed
//	}
//
// # Base URL
//
// Config.BaseURL defaults to https://api.workos.com. A value without a scheme
// gets "https://" and trailing slashes are removed. Values with another scheme,
// without a host, or carrying a path, query, fragment or userinfo are rejected
// before any request is sent.
//
// # Errors
//
// Every operation returns a *workos.Error. Use workos.IsUnauthorized,
// workos.IsUnknown and the other predicates, or errors.Is with the sentinels
// in the workos package, to branch on the outcome.
package workosclient
