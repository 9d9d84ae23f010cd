// Package api handles incoming HTTP requests, routing parameters, request
// validation, and response formatting. It acts as an adapter between external
// clients and the task service, translating HTTP concerns to business
// operations and mapping service errors to status codes without leaking
// internal details.
package api
