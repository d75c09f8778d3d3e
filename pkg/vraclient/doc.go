// Package vraclient provides the primary entry point for constructing a
// vRealize Automation 7 API client that implements the vra.Client interface.
//
// It layers configuration, HTTP transport, and identity token authentication
// on top of the resource interfaces and types defined in the vra package.
// Most applications should import vraclient to build a client, then use the
// returned vra.Client to access resource-specific clients, for example
// Catalog(), Requests(), Deployments(), etc.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/vra-client/pkg/vra"
//	  "github.com/fivetwenty-io/vra-client/pkg/vraclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Minimal: just an API endpoint (no auth, /identity/api/about only).
//	  cli, err := vraclient.New(&vra.Config{APIEndpoint: "https://vra.example.com"})
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with a bearer token you already have:
//	  cli, err = vraclient.New(&vra.Config{
//	    APIEndpoint: "https://vra.example.com",
//	    AccessToken: "MTQ5NzQ2MjY5...", // identity token id
//	  })
//
//	  // Or with tenant username/password. The client exchanges the
//	  // credentials at /identity/api/tokens on first use and re-exchanges
//	  // them when the token expires. Tenant defaults to vsphere.local.
//	  cli, err = vraclient.New(&vra.Config{
//	    APIEndpoint: "https://vra.example.com",
//	    Tenant:      "vsphere.local",
//	    Username:    "jason@vsphere.local",
//	    Password:    "password",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Use resource clients via the vra.Client interface
//	  items, err := cli.Catalog().ListAllEntitledItems(ctx, nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = items
//	}
//
// # TLS
//
// Lab deployments commonly run self-signed certificates. Set
// Config.SkipTLSVerify=true to accept them; the client logs a warning when
// verification is disabled.
//
// # Helpers
//
// The package also provides convenience constructors NewWithEndpoint,
// NewWithToken, and NewWithPassword that wrap New with the appropriate
// configuration.
package vraclient
