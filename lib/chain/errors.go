package chain

import (
	"errors"
	"fmt"

	"github.com/go-remailer/go-remailer/lib/remailer"
)

// ErrEmptyChain reports a zero-length chain specification.
var ErrEmptyChain = errors.New("empty chain specification")

// ErrChainTooLong reports a specification longer than MaxChainLength.
var ErrChainTooLong = errors.New("chain specification exceeds maximum length")

// CapabilityMismatchError reports a literal token naming a remailer that
// lacks the capability its position requires.
type CapabilityMismatchError struct {
	Name     string
	Position int
	Required remailer.Capability
}

func (e *CapabilityMismatchError) Error() string {
	return fmt.Sprintf("remailer %q at position %d lacks required capability %s",
		e.Name, e.Position, e.Required)
}

// NoEligibleError reports a position for which the directory holds no
// candidate with the required capability.
type NoEligibleError struct {
	Position int
	Required remailer.Capability
}

func (e *NoEligibleError) Error() string {
	return fmt.Sprintf("no eligible remailer for position %d (requires %s)",
		e.Position, e.Required)
}
