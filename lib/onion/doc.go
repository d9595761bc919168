// Package onion drives layered encryption across a resolved chain.
//
// Layers are applied in the exact reverse of delivery order: the final
// hop's envelope is built from the raw message and encrypted first, then
// each earlier hop's envelope wraps the ciphertext one layer in. Each
// envelope's body is the previous layer's ciphertext, so the fold carries
// a single accumulator and cannot be parallelized within one chain.
// Independent redundancy copies have no such dependency; see the route
// package.
package onion
