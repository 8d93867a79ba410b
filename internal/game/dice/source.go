package dice

import (
	"crypto/rand"
	"io"
	"math/big"
)

// cryptoSource draws from a cryptographically secure byte stream.
//
// Invariant: every value produced is uniformly distributed in [0, n).
type cryptoSource struct {
	reader io.Reader
}

// NewCryptoSource returns the production Source, backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{reader: rand.Reader}
}

// Intn returns a secure random int in [0, n).
//
// Precondition: n > 0. Panics if n <= 0 or the underlying reader fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(c.reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}
