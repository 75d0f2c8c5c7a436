// Package models provides the core data structures for handling webhook requests and responses.
package models

// Request represents an incoming webhook delivery containing a body and associated headers.
// Header keys are lowercased by the runtime layer before reaching the handler.
type Request struct {
	Body    string
	Headers map[string]string
}

// Response defines the structure for an HTTP response containing a body, headers, and a status code.
type Response struct {
	Body       string
	Headers    map[string]string
	StatusCode int
}
