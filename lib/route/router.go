package route

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-remailer/go-remailer/lib/chain"
	"github.com/go-remailer/go-remailer/lib/envelope"
	"github.com/go-remailer/go-remailer/lib/onion"
	"github.com/go-remailer/go-remailer/lib/pgp"
	"github.com/go-remailer/go-remailer/lib/remailer"
	"github.com/go-remailer/go-remailer/lib/util/logger"
	"github.com/samber/oops"
)

// defaultWorkers caps parallel copy encryption when the caller does not
// configure a limit.
const defaultWorkers = 4

// Result is one finished redundancy copy.
type Result struct {
	// Chain is the concrete hop list this copy was layered for.
	Chain chain.Resolved
	// Envelope is the outer envelope addressed to the first hop.
	Envelope *envelope.Envelope
}

// CopyError pairs a failed copy's index with its cause.
type CopyError struct {
	Copy int
	Err  error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %d: %v", e.Copy, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

// Outcome collects the copies of one Route call. Results keep generation
// order, which implies nothing about delivery order.
type Outcome struct {
	Results  []Result
	Failures []*CopyError
}

// Router wires the resolver and the onion engine into the redundancy
// multiplexer.
type Router struct {
	dir     *remailer.Directory
	engine  *onion.Engine
	src     chain.Source
	workers int
}

// Option adjusts router construction.
type Option func(*Router)

// WithSource overrides the default crypto-backed randomness source.
// The source must be safe for concurrent use.
func WithSource(src chain.Source) Option {
	return func(r *Router) { r.src = src }
}

// WithWorkers caps how many copies encrypt in parallel.
func WithWorkers(n int) Option {
	return func(r *Router) {
		if n > 0 {
			r.workers = n
		}
	}
}

// NewRouter returns a router over the given directory and backend.
func NewRouter(dir *remailer.Directory, backend pgp.Backend, opts ...Option) *Router {
	r := &Router{
		dir:     dir,
		engine:  onion.NewEngine(backend),
		src:     chain.NewSource(),
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route renders msg into the requested number of independently routed
// copies of the chain specification.
// Copies that fail are reported in the outcome's Failures without
// disturbing the rest; the returned error is non-nil only when the request
// itself is invalid or no copy succeeded.
func (r *Router) Route(ctx context.Context, spec chain.Spec, msg onion.Message, copies int) (*Outcome, error) {
	if copies < 1 {
		return nil, oops.Errorf("redundancy count must be at least 1, got %d", copies)
	}

	results := make([]*Result, copies)
	failures := make([]error, copies)

	var wg sync.WaitGroup
	sem := make(chan struct{}, r.workers)
	for idx := 0; idx < copies; idx++ {
		// Abandoned copies are recorded, not silently dropped.
		if err := ctx.Err(); err != nil {
			failures[idx] = err
			continue
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			res, err := r.routeOne(ctx, spec, msg)
			if err != nil {
				failures[idx] = err
				return
			}
			results[idx] = res
		}(idx)
	}
	wg.Wait()

	outcome := &Outcome{}
	for idx := 0; idx < copies; idx++ {
		if failures[idx] != nil {
			outcome.Failures = append(outcome.Failures, &CopyError{Copy: idx, Err: failures[idx]})
			continue
		}
		outcome.Results = append(outcome.Results, *results[idx])
	}

	log.WithFields(logger.Fields{
		"requested": copies,
		"succeeded": len(outcome.Results),
		"failed":    len(outcome.Failures),
	}).Debug("routed redundancy copies")

	if len(outcome.Results) == 0 {
		return outcome, oops.Wrapf(outcome.Failures[0], "all %d copies failed", copies)
	}
	return outcome, nil
}

// routeOne resolves and layers a single copy. Each call draws a fresh
// chain, so wildcard hops differ between copies.
func (r *Router) routeOne(ctx context.Context, spec chain.Spec, msg onion.Message) (*Result, error) {
	resolved, err := chain.Resolve(spec, r.dir, r.src)
	if err != nil {
		return nil, err
	}
	env, err := r.engine.Encrypt(ctx, resolved, msg)
	if err != nil {
		return nil, err
	}
	return &Result{Chain: resolved, Envelope: env}, nil
}
