package bootstrap

import (
	"context"
	"errors"

	"github.com/go-remailer/go-remailer/lib/remailer"
	"github.com/samber/oops"
)

// CompositeBootstrap tries a list of sources in order and returns the
// first success. A local file source usually precedes the network one so
// an offline cache wins when present.
type CompositeBootstrap struct {
	sources []Bootstrap
}

// NewCompositeBootstrap creates a composite over the given sources,
// consulted in argument order.
func NewCompositeBootstrap(sources ...Bootstrap) *CompositeBootstrap {
	return &CompositeBootstrap{sources: sources}
}

// FetchDirectory implements Bootstrap by falling through the sources.
func (cb *CompositeBootstrap) FetchDirectory(ctx context.Context) (*remailer.Directory, error) {
	var errs []error
	for i, src := range cb.sources {
		dir, err := src.FetchDirectory(ctx)
		if err == nil {
			return dir, nil
		}
		log.WithError(err).WithField("source", i).Debug("bootstrap source failed, trying next")
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, oops.Wrapf(joinErrs(errs), "every bootstrap source failed")
}

// FetchKeyring implements Bootstrap by falling through the sources.
// Sources that return no keys without error (a file source with no
// keyring configured) are skipped.
func (cb *CompositeBootstrap) FetchKeyring(ctx context.Context) ([][]byte, error) {
	var errs []error
	for i, src := range cb.sources {
		blocks, err := src.FetchKeyring(ctx)
		if err == nil && len(blocks) > 0 {
			return blocks, nil
		}
		if err != nil {
			log.WithError(err).WithField("source", i).Debug("keyring source failed, trying next")
			errs = append(errs, err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return nil, oops.Wrapf(joinErrs(errs), "no bootstrap source produced a keyring")
}

func joinErrs(errs []error) error {
	if len(errs) == 0 {
		return oops.Errorf("no sources configured")
	}
	return errors.Join(errs...)
}
