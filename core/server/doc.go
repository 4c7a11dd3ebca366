// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// listen port, the API key protecting every route and the request timeouts.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by cmd/start to configure Fiber.
package server
