package chain

import (
	"strings"

	"github.com/go-remailer/go-remailer/lib/remailer"
	"github.com/go-remailer/go-remailer/lib/util/logger"
)

// Wildcard is the specification token requesting a random draw.
const Wildcard = "*"

// MaxChainLength caps the number of hops in one chain. Longer chains add
// latency and loss without a matching anonymity gain.
const MaxChainLength = 8

// Spec is an ordered chain specification as supplied by the caller.
type Spec []string

// Resolved is a concrete ordered hop list, produced fresh per redundancy
// copy and never shared between copies.
type Resolved []*remailer.Remailer

// First returns the entry hop, the one the finished message is sent to.
func (r Resolved) First() *remailer.Remailer {
	return r[0]
}

// Final returns the delivering hop.
func (r Resolved) Final() *remailer.Remailer {
	return r[len(r)-1]
}

func (r Resolved) String() string {
	names := make([]string, len(r))
	for i, hop := range r {
		names[i] = hop.Name
	}
	return strings.Join(names, ",")
}

// required returns the capability a record must carry at the given
// position: final delivery for the last hop, relaying for all others.
func required(position, length int) remailer.Capability {
	if position == length-1 {
		return remailer.CapExit
	}
	return remailer.CapMiddle
}

// Resolve turns spec into a concrete hop list. Literal tokens are looked up
// and capability-checked; wildcard tokens draw uniformly from the eligible
// records, excluding hops already placed in this chain unless the exclusion
// would leave no candidate. Randomness is consumed only from src.
func Resolve(spec Spec, dir *remailer.Directory, src Source) (Resolved, error) {
	if len(spec) == 0 {
		return nil, ErrEmptyChain
	}
	if len(spec) > MaxChainLength {
		return nil, ErrChainTooLong
	}

	resolved := make(Resolved, 0, len(spec))
	chosen := make(map[string]struct{}, len(spec))

	for position, token := range spec {
		want := required(position, len(spec))

		var hop *remailer.Remailer
		if token == Wildcard {
			picked, err := draw(dir, src, want, position, chosen)
			if err != nil {
				return nil, err
			}
			hop = picked
		} else {
			record, err := dir.Lookup(token)
			if err != nil {
				return nil, err
			}
			if !record.Caps.Has(want) {
				return nil, &CapabilityMismatchError{
					Name:     record.Name,
					Position: position,
					Required: want,
				}
			}
			hop = record
		}

		chosen[strings.ToLower(hop.Name)] = struct{}{}
		resolved = append(resolved, hop)
	}

	log.WithFields(logger.Fields{
		"spec":  strings.Join(spec, ","),
		"chain": resolved.String(),
	}).Debug("resolved chain")
	return resolved, nil
}

// draw picks a uniformly random eligible record for position, preferring
// records not already placed in this chain.
func draw(dir *remailer.Directory, src Source, want remailer.Capability, position int, chosen map[string]struct{}) (*remailer.Remailer, error) {
	eligible := dir.Eligible(want)
	if len(eligible) == 0 {
		return nil, &NoEligibleError{Position: position, Required: want}
	}

	fresh := eligible[:0:0]
	for _, r := range eligible {
		if _, taken := chosen[strings.ToLower(r.Name)]; !taken {
			fresh = append(fresh, r)
		}
	}
	if len(fresh) == 0 {
		// Fewer eligible remailers than chain positions: repetition is
		// unavoidable. The chain still routes but repeats weaken it.
		log.WithFields(logger.Fields{
			"position": position,
			"eligible": len(eligible),
		}).Warn("directory smaller than chain, repeating a remailer degrades anonymity")
		fresh = eligible
	}

	return fresh[src.Intn(len(fresh))], nil
}
