// Package vra provides types, interfaces, and helpers for working with the
// vRealize Automation 7 REST API.
//
// # Overview
//
// The vra package defines the domain types (e.g., BusinessGroup, CatalogItem,
// Request, Resource, Deployment) and the interfaces for resource-oriented
// clients (e.g., BusinessGroupsClient, CatalogClient, RequestsClient). A
// concrete implementation of these clients is provided by the vraclient
// package, which wires configuration, transport, and authentication. Most
// consumers should import vraclient to construct a client and then interact
// with the resource client interfaces exposed here.
//
// Getting a client
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
//	  cli, err := vraclient.NewWithPassword("vra.example.com", "vsphere.local", "user@vsphere.local", "secret")
//	  if err != nil { log.Fatal(err) }
//
//	  // List the catalog items the user is entitled to
//	  items, err := cli.Catalog().ListEntitledItems(ctx, nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = items
//	}
//
// # Queries and pagination
//
// Use QueryParams to express common list options (page, limit, $filter, and
// the endpoint-specific switches the catalog and identity services accept).
// Collection endpoints wrap items in a content/metadata envelope; the
// pagination helpers accept any List method as a PageFunc, walk every page,
// and return the concatenated content:
//
//	groups, err := vra.FetchAllPages(ctx, cli.BusinessGroups().List, nil)
//	if err != nil { /* handle error */ }
//	_ = groups
//
// # Errors
//
// Non-2xx responses are represented by ResponseError, which carries the HTTP
// status, the raw body, and the parsed error envelope entries. Helpers such
// as IsNotFound, IsAmbiguous, IsAuthenticationFailed, and
// IsProvisioningFailed make it easy to branch on the common failure cases of
// name lookups, logins, and provisioning requests.
//
// # Day-2 operations
//
// Deployed resources expose named operations ("Power On", "Scale Out", ...)
// with server-provided template and request endpoints. The DeploymentsClient
// builds a deployment tree from a resource ID and runs the generic
// fetch-template, patch, submit workflow; Template provides the restricted
// deep-merge used to customize fetched templates before submission.
package vra
