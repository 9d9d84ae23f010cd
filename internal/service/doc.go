// Package service provides the application-level operations behind the HTTP
// API: submitting generation tasks and reading them back. It validates
// caller input, delegates persistence to the task store, and translates
// store errors into service errors the API layer can map to status codes.
package service
