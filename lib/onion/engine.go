package onion

import (
	"context"
	"fmt"

	"github.com/go-remailer/go-remailer/lib/chain"
	"github.com/go-remailer/go-remailer/lib/envelope"
	"github.com/go-remailer/go-remailer/lib/pgp"
	"github.com/go-remailer/go-remailer/lib/util/logger"
	"github.com/samber/oops"
)

// Message is the caller's payload before any layering.
type Message struct {
	// Recipient is the end address the final hop delivers to. It is
	// treated as opaque; no structure is inferred from it.
	Recipient string
	// Headers survive to the recipient (subject and similar). They are
	// placed only in the final-hop envelope, never in outer layers.
	Headers []envelope.Header
	// Body is the literal message content.
	Body []byte
}

// BackendError reports an encryption backend failure at a specific hop.
// It is fatal for the chain copy it occurs in and is never retried here.
type BackendError struct {
	Hop string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("encryption backend failed at hop %q: %v", e.Hop, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Engine layers a message for a resolved chain using a pgp backend.
type Engine struct {
	backend pgp.Backend
}

// NewEngine returns an engine over the given backend.
func NewEngine(backend pgp.Backend) *Engine {
	return &Engine{backend: backend}
}

// Encrypt builds the fully layered payload for hops: the returned outer
// envelope is addressed to the first hop and its body is ciphertext only
// that hop can open. ctx is checked between layers; a canceled fold is
// abandoned without a partial result.
func (e *Engine) Encrypt(ctx context.Context, hops chain.Resolved, msg Message) (*envelope.Envelope, error) {
	if len(hops) == 0 {
		return nil, oops.Errorf("cannot encrypt for an empty chain")
	}

	final := hops.Final()
	inner := envelope.NewFinal(msg.Recipient, msg.Headers, msg.Body)
	ciphertext, err := e.backend.Encrypt(inner.Bytes(), final.Email)
	if err != nil {
		return nil, &BackendError{Hop: final.Name, Err: err}
	}
	log.WithField("hop", final.Name).Debug("encrypted final delivery layer")

	// Walk outward: each hop's envelope names the next hop and wraps the
	// ciphertext produced one layer in.
	for i := len(hops) - 2; i >= 0; i-- {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		wrapped := envelope.NewHop(hops[i+1].Email, ciphertext)
		ciphertext, err = e.backend.Encrypt(wrapped.Bytes(), hops[i].Email)
		if err != nil {
			return nil, &BackendError{Hop: hops[i].Name, Err: err}
		}
		log.WithFields(logger.Fields{
			"hop":   hops[i].Name,
			"layer": len(hops) - 1 - i,
		}).Debug("encrypted chain layer")
	}

	// The outermost envelope stays unencrypted; the sender transmits it
	// to the first hop as-is.
	return envelope.NewHop(hops.First().Email, ciphertext), nil
}
