// Package api wires the HTTP routes and handlers.
//
// It translates HTTP requests into service calls and results back into
// HTTP responses. Websocket upgrades are also routed here before being
// handed off to the hub.
package api
