package pgp

import (
	"bytes"
	"strings"
	"sync"

	"github.com/go-remailer/go-remailer/lib/util/logger"
	"github.com/samber/oops"
	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"
	_ "golang.org/x/crypto/ripemd160"
)

const armorBegin = "-----BEGIN PGP "

// OpenPGP is a Backend over an in-memory openpgp keyring. The zero value
// is not usable; construct with NewOpenPGP. Imports take the write lock,
// encryptions share the read lock, so parallel redundancy copies encrypt
// concurrently.
type OpenPGP struct {
	mu   sync.RWMutex
	ring openpgp.EntityList
}

// NewOpenPGP returns a backend with an empty keyring.
func NewOpenPGP() *OpenPGP {
	return &OpenPGP{}
}

// ImportKey reads one or more armored key blocks into the keyring.
func (b *OpenPGP) ImportKey(armored []byte) error {
	blocks := SplitArmored(armored)
	if len(blocks) == 0 {
		return oops.Errorf("no armored key block found in input")
	}

	var imported openpgp.EntityList
	for _, block := range blocks {
		entities, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(block))
		if err != nil {
			return oops.Wrapf(err, "failed to read armored key ring")
		}
		imported = append(imported, entities...)
	}

	b.mu.Lock()
	b.ring = append(b.ring, imported...)
	b.mu.Unlock()

	log.WithFields(logger.Fields{
		"imported": len(imported),
		"ring":     len(b.ring),
	}).Debug("imported public keys")
	return nil
}

// Encrypt encrypts plaintext to the entity whose identity matches
// recipient and returns an armored PGP MESSAGE.
func (b *OpenPGP) Encrypt(plaintext []byte, recipient string) ([]byte, error) {
	entity, err := b.lookup(recipient)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	armorer, err := armor.Encode(&buf, "PGP MESSAGE", nil)
	if err != nil {
		return nil, oops.Wrapf(err, "failed to start armored output")
	}
	writer, err := openpgp.Encrypt(armorer, []*openpgp.Entity{entity}, nil, nil, nil)
	if err != nil {
		return nil, oops.Wrapf(err, "failed to encrypt to %q", recipient)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, oops.Wrapf(err, "failed to write plaintext for %q", recipient)
	}
	if err := writer.Close(); err != nil {
		return nil, oops.Wrapf(err, "failed to finish encryption for %q", recipient)
	}
	if err := armorer.Close(); err != nil {
		return nil, oops.Wrapf(err, "failed to finish armoring for %q", recipient)
	}
	return buf.Bytes(), nil
}

// lookup finds the keyring entity whose identity name or email matches
// recipient, case-insensitively.
func (b *OpenPGP) lookup(recipient string) (*openpgp.Entity, error) {
	want := strings.ToLower(recipient)

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, entity := range b.ring {
		for _, identity := range entity.Identities {
			if identity.UserId == nil {
				continue
			}
			if strings.ToLower(identity.UserId.Email) == want ||
				strings.ToLower(identity.UserId.Name) == want {
				return entity, nil
			}
		}
	}
	return nil, oops.Errorf("no public key in ring for recipient %q", recipient)
}

// SplitArmored splits input holding several concatenated armored blocks
// (the usual shape of a published pubring.asc) into individual blocks.
func SplitArmored(data []byte) [][]byte {
	var blocks [][]byte
	for {
		start := bytes.Index(data, []byte(armorBegin))
		if start < 0 {
			return blocks
		}
		data = data[start:]
		next := bytes.Index(data[len(armorBegin):], []byte(armorBegin))
		if next < 0 {
			blocks = append(blocks, data)
			return blocks
		}
		end := next + len(armorBegin)
		blocks = append(blocks, data[:end])
		data = data[end:]
	}
}
