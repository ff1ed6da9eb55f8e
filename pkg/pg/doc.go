// Package pg provides PostgreSQL helpers for the account service: short-lived
// per-call connections with fixed dial and query timeouts, error classifiers
// for unique-constraint and not-found conditions, goose-based schema
// migrations, and a connectivity healthcheck.
//
// Unlike pool-based setups, Open hands out one connection per store operation
// and the caller closes it when the statement finishes. Store code never
// shares connections across requests.
package pg
