package bootstrap

import (
	"context"

	"github.com/go-remailer/go-remailer/lib/remailer"
)

// Bootstrap is a way to obtain the remailer directory and the public key
// material that goes with it.
type Bootstrap interface {
	// FetchDirectory returns the loaded remailer directory.
	// Returns nil and an error if no records could be obtained.
	FetchDirectory(ctx context.Context) (*remailer.Directory, error)
	// FetchKeyring returns armored public key blocks to import into the
	// encryption backend, one element per armored block.
	FetchKeyring(ctx context.Context) ([][]byte, error)
}
