// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or api_key query parameter).
//   - rayid: assigns every request a RayID, stored in the context and echoed in
//     the response headers for tracing.
//   - requestlog: logs each request with its RayID, status and latency.
//
// Register rayid first so that the other components can log the id.
package middleware
