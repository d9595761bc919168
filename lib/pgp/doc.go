// Package pgp provides the asymmetric encryption backend the onion engine
// drives.
//
// The engine only needs one operation, Encrypt-to-recipient, plus key
// import; Backend captures exactly that so PGP implementations can be
// swapped without touching the engine. OpenPGP is the in-process
// implementation over an in-memory keyring; it replaces shelling out to a
// gpg binary and is safe for concurrent encryption by parallel redundancy
// workers.
package pgp
