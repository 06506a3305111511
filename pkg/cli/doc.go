// Package cli provides the command-line interface for routestore.
//
// The CLI is the host around the route registry: it loads configuration,
// opens the configured backend, registers the route operations in a dispatch
// table and invokes them. Commands:
//   - add, get, list, edit, delete: manage routes
//   - call, endpoints: invoke registered operations by name with JSON arguments
//   - import, export: move routes in and out of YAML/JSON route documents
//   - compact: rewrite the file backend's snapshot
//   - config: display effective configuration
//   - version: show routestore version
package cli
