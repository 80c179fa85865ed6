// Package middleware provides HTTP middleware for the API routes.
//
// Authentication is the main concern: resolving the caller's identity
// from a JWT before the handlers run.
package middleware
