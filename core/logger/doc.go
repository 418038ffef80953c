// Package logger provides a structured logging facility based on Zap.
//
// New builds a development logger for the debug level and a production logger
// otherwise, with json or console encoding.
//
// # Context Awareness
//
// WithRayID attaches the request id set by the rayid middleware, so every entry
// of one request can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
