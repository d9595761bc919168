package pgp

// Backend is the encryption collaborator consumed by the onion engine.
type Backend interface {
	// ImportKey adds the armored public key material to the keyring.
	// The input may concatenate several armored blocks.
	ImportKey(armored []byte) error
	// Encrypt encrypts plaintext to the key bound to recipient and
	// returns the armored ciphertext.
	Encrypt(plaintext []byte, recipient string) ([]byte, error)
}
