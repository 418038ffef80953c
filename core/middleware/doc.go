// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting every endpoint.
//   - rayid: assigns each request a Ray ID, stored in the context locals and echoed
//     in the X-Ray-ID response header for tracing.
//
// Register rayid first so every later log entry carries the id.
package middleware
