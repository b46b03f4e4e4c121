// Package driving provides interfaces for the use cases the core exposes
// (primary/inbound ports).
//
// Outer surfaces (CLI, MCP server, an HTTP layer) depend on these
// interfaces rather than on the service implementations.
package driving
