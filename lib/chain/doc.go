// Package chain resolves chain specifications against the remailer
// directory.
//
// A specification is an ordered list of tokens, each a literal remailer
// name or the wildcard "*". Position 0 is the first hop in delivery order
// and therefore the outermost encryption layer; the final position is the
// innermost layer and must be able to deliver to the end recipient.
//
// Wildcards draw uniformly from the eligible records for the position's
// required capability, excluding remailers already placed earlier in the
// same chain. When the directory is smaller than the chain the exclusion
// is relaxed and repeats are permitted; this degrades anonymity and is
// logged as such.
//
// Randomness is injected through the Source interface so tests can pin
// wildcard draws to a fixed sequence.
package chain
