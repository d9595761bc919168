// Package remailer models the remailer directory: the set of known
// cypherpunk remailers, their contact addresses, public key bindings and
// capability flags.
//
// The Directory is built once (from a statistics listing or a local file,
// see the bootstrap package) and is read-only afterwards, which makes it
// safe for unsynchronized concurrent reads by parallel chain resolutions.
//
// Capability flags are parsed from the mixmaster rlist.txt option strings.
// Two of them drive chain resolution: CapMiddle (the remailer may appear at
// a non-final position) and CapExit (the remailer may deliver to the final
// recipient). A remailer advertising the "middle" option is middle-only.
package remailer
