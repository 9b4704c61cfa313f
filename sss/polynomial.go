package sss

import (
	"crypto/rand"
	"fmt"

	"github.com/shardkit/shardkit/gf256"
)

// generateCoefficientsInto fills dst (length k-1) with uniformly random
// GF(256) coefficients a_1..a_(k-1), in ascending degree — the constant
// term a_0 is the secret byte itself, supplied separately by the caller.
// dst is normally a slice into a secure.Bytes scratch buffer so the
// caller can wipe it after use; this function retains no state of its
// own across calls.
func generateCoefficientsInto(dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	if _, err := rand.Read(dst); err != nil {
		return fmt.Errorf("sss: generating polynomial coefficients: %w", err)
	}
	return nil
}

// evalPolynomial evaluates a degree-(k-1) polynomial with constant term
// secretByte and the given higher-order coefficients (ascending degree)
// at point x.
func evalPolynomial(secretByte byte, coeffs []byte, x byte) byte {
	full := make([]byte, len(coeffs)+1)
	full[0] = secretByte
	copy(full[1:], coeffs)
	return gf256.EvalPoly(full, x)
}
