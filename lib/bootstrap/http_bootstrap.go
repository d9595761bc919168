package bootstrap

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/go-remailer/go-remailer/lib/config"
	"github.com/go-remailer/go-remailer/lib/pgp"
	"github.com/go-remailer/go-remailer/lib/remailer"
	"github.com/go-remailer/go-remailer/lib/util/logger"
	"github.com/samber/oops"
	"golang.org/x/time/rate"
)

// maxFetchBytes bounds how much of a statistics response is read; rlist
// listings and pubrings are a few hundred kilobytes at most.
const maxFetchBytes = 4 << 20

// HTTPBootstrap implements Bootstrap against a remailer statistics site,
// fetching rlist.txt and pubring.asc relative to the configured base URL.
type HTTPBootstrap struct {
	base    string
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPBootstrap creates a bootstrapper for the given stats
// configuration. Requests are paced by the configured rate and bounded by
// the configured timeout.
func NewHTTPBootstrap(cfg config.StatsConfig) *HTTPBootstrap {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = config.DefaultStatsConfig.RequestsPerSecond
	}
	log.WithFields(logger.Fields{
		"url":     cfg.URL,
		"timeout": cfg.Timeout,
	}).Debug("initializing stats bootstrap")
	return &HTTPBootstrap{
		base:    cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// FetchDirectory implements Bootstrap by downloading and parsing the
// rlist.txt statistics listing.
func (hb *HTTPBootstrap) FetchDirectory(ctx context.Context) (*remailer.Directory, error) {
	body, err := hb.get(ctx, "rlist.txt")
	if err != nil {
		return nil, err
	}
	dir, err := remailer.ParseStats(string(body))
	if err != nil {
		return nil, oops.Wrapf(err, "stats listing from %s is unusable", hb.base)
	}
	log.WithFields(logger.Fields{
		"source":  hb.base,
		"records": dir.Len(),
	}).Debug("fetched remailer directory")
	return dir, nil
}

// FetchKeyring implements Bootstrap by downloading pubring.asc and
// splitting it into individual armored blocks.
func (hb *HTTPBootstrap) FetchKeyring(ctx context.Context) ([][]byte, error) {
	body, err := hb.get(ctx, "pubring.asc")
	if err != nil {
		return nil, err
	}
	blocks := pgp.SplitArmored(body)
	if len(blocks) == 0 {
		return nil, oops.Errorf("pubring from %s contains no armored key blocks", hb.base)
	}
	return blocks, nil
}

func (hb *HTTPBootstrap) get(ctx context.Context, name string) ([]byte, error) {
	if err := hb.limiter.Wait(ctx); err != nil {
		return nil, oops.Wrapf(err, "rate limiter interrupted")
	}

	target, err := url.JoinPath(hb.base, name)
	if err != nil {
		return nil, oops.Wrapf(err, "malformed stats base URL %q", hb.base)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, oops.Wrapf(err, "failed to build request for %s", target)
	}
	resp, err := hb.client.Do(req)
	if err != nil {
		return nil, oops.Wrapf(err, "failed to fetch %s", target)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, oops.Errorf("unexpected status %s fetching %s", resp.Status, target)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, oops.Wrapf(err, "failed to read response from %s", target)
	}
	return body, nil
}
