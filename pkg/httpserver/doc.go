// Package httpserver runs an http.Handler until its context is cancelled and
// then drains in-flight requests and registered shutdown hooks within a
// bounded timeout. It also provides liveness and readiness handlers.
package httpserver
