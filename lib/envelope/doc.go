// Package envelope builds and parses the per-hop cleartext blocks of the
// cypherpunk remailer message format.
//
// Each block a remailer decrypts opens with a "::" section naming the next
// forwarding target:
//
//	::
//	Anon-To: mixmaster@remailer.paranoici.org
//
//	::
//	Encrypted: PGP
//
//	-----BEGIN PGP MESSAGE-----
//	...
//
// The final-delivery block instead carries the end recipient, the headers
// meant to survive to them, and the literal message body. A hop's block
// names only the immediate next target; everything further down the chain
// sits inside the nested ciphertext. That restriction is the anonymity
// property the rest of the engine is built around.
package envelope
