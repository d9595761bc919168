package remailer

import (
	"strings"

	"github.com/samber/oops"
)

// Capability is a bit set of remailer capability flags.
type Capability uint16

const (
	// CapMiddle marks a remailer usable at a non-final chain position.
	CapMiddle Capability = 1 << iota
	// CapExit marks a remailer able to deliver to the final recipient.
	CapExit
	// CapPGP marks PGP support.
	CapPGP
	// CapMix marks mixmaster support.
	CapMix
	// CapHash marks hashmark support.
	CapHash
	// CapLatent marks support for Latent-Time directives.
	CapLatent
	// CapCut marks support for Cutmarks directives.
	CapCut
	// CapEsub marks encrypted subject support.
	CapEsub
	// CapEK marks Encrypt-Key support.
	CapEK
	// CapPost marks usenet posting support.
	CapPost
)

var capNames = []struct {
	cap  Capability
	name string
}{
	{CapMiddle, "middle"},
	{CapExit, "exit"},
	{CapPGP, "pgp"},
	{CapMix, "mix"},
	{CapHash, "hash"},
	{CapLatent, "latent"},
	{CapCut, "cut"},
	{CapEsub, "esub"},
	{CapEK, "ek"},
	{CapPost, "post"},
}

// Has reports whether every flag in want is present.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

func (c Capability) String() string {
	var parts []string
	for _, cn := range capNames {
		if c.Has(cn.cap) {
			parts = append(parts, cn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// ParseCapability maps a single capability name to its flag.
func ParseCapability(name string) (Capability, error) {
	for _, cn := range capNames {
		if cn.name == strings.ToLower(name) {
			return cn.cap, nil
		}
	}
	return 0, oops.Errorf("unknown capability name %q", name)
}

// ParseOptions derives the capability set from an rlist.txt option list.
// Every listed remailer may relay; the "middle" option withdraws final
// delivery, everything else is additive.
func ParseOptions(options []string) Capability {
	caps := CapMiddle | CapExit
	for _, opt := range options {
		switch strings.ToLower(strings.TrimSpace(opt)) {
		case "middle":
			caps &^= CapExit
		case "pgp":
			caps |= CapPGP
		case "mix":
			caps |= CapMix
		case "hash":
			caps |= CapHash
		case "latent":
			caps |= CapLatent
		case "cut":
			caps |= CapCut
		case "esub":
			caps |= CapEsub
		case "ek", "ekx":
			caps |= CapEK
		case "post":
			caps |= CapPost
		}
	}
	return caps
}
