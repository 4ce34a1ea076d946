// Command seasonwatch tracks TV series and music artists and reports new
// seasons and releases.
//
// Running it without a subcommand performs one reconciliation pass and is
// meant to be scheduled (cron, systemd timer). The tv and music subcommands
// manage what is tracked, configure stores provider tokens, and config
// inspects the configuration and database.
package main
