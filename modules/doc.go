// Package modules provides a module management ecosystem to cleanly put all
// big and small moving parts of a service together.
//
// Modules are started in a multi-stage process and may depend on other
// modules:
// - Go's init(): register flags
// - prep: check flags, register config variables
// - start: start actual work, access config
// - stop: gracefully shut down
//
// **Workers**
// A simple function that is run by the module while catching
// panics and reporting them. Ideal for long running (possibly) idle goroutines.
// Can be automatically restarted if execution ends with an error.
//
// Ideally, _any_ execution by a module is done through workers. This will not
// only ensure that all panics are caught, but also that the module waits for
// its workers when shutting down.
package modules
