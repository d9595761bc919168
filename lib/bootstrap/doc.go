// Package bootstrap populates the remailer directory and keyring from
// external sources.
//
// Three implementations of the Bootstrap interface are provided: HTTP
// (fetches rlist.txt and pubring.asc from a statistics site), File (loads
// the same material from local paths, accepting either the rlist grammar
// or a YAML directory file), and Composite (ordered fallback across
// sources). The engine itself never fetches anything; it consumes the
// Directory these loaders produce.
package bootstrap
