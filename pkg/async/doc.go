// Package async offers a small generic Future for running a function on its
// own goroutine, a Detached variant for work that must survive the caller's
// cancellation, and a Tracker to wait for outstanding futures.
package async
