// Package api contains the HTTP handlers, middleware, and request/response
// models for the REST surface: card listing and level updates, answer tally
// recording, and account registration/login. Handlers translate store and
// service errors into status codes via MapErrorToStatusCode and never leak
// internal error text to clients.
package api
