// Package api implements the HTTP surface: request decoding and validation,
// handlers for every route, the error-to-status mapping with application
// error codes, and the middleware chain (trace IDs, metrics, the work-hours
// maintenance gate, JWT auth).
package api
