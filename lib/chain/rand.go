package chain

import (
	"crypto/rand"
	"math/big"
)

// Source yields uniform random integers for wildcard resolution. A Source
// shared across parallel redundancy workers must be safe for concurrent
// use; the default crypto-backed source is.
type Source interface {
	// Intn returns a uniform integer in [0, n). n must be > 0.
	Intn(n int) int
}

type cryptoSource struct{}

// NewSource returns the default Source, backed by crypto/rand. It has no
// state and is safe for concurrent use.
func NewSource() Source {
	return cryptoSource{}
}

func (cryptoSource) Intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken, at which point anonymous routing is unsafe anyway.
		panic("chain: system entropy source failed: " + err.Error())
	}
	return int(v.Int64())
}
