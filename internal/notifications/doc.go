// Package notifications delivers reconciliation results to the user.
//
// Three backends exist: desktop shells out to notify-send, ntfy publishes to
// the topic URL configured in config.toml, and none discards everything.
// A desktop without notify-send degrades to a logged warning rather than a
// failed run.
//
// Callers depend only on the Sink interface.
package notifications
