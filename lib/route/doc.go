// Package route multiplexes a message into independently routed redundancy
// copies.
//
// Every copy resolves the chain specification from scratch, so wildcard
// positions draw fresh remailers per copy, and owns its resolved chain and
// payload exclusively. Copies run on parallel workers; the only shared
// state is the read-only directory and a concurrency-safe randomness
// source. One copy's failure never aborts its siblings: the outcome
// reports the successful copies in generation order next to a list of
// per-copy errors.
package route
