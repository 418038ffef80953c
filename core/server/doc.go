// Package server holds the HTTP server configuration.
//
// The start command owns the server lifecycle; this package only defines the
// listen port, the API key and the instance name, plus validation of the port.
package server
