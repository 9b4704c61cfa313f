// Package sss implements Shamir Secret Sharing over GF(256): a secret is
// split into n shares with threshold k such that any k reconstruct it
// and fewer reveal nothing, using independent random polynomials per
// byte and Lagrange interpolation at x=0.
package sss

import (
	"fmt"

	fielderrors "github.com/shardkit/shardkit/pkg/errors"
)

// MaxThreshold and MaxTotalShares bound SSSConfig; the x-coordinate of a
// share is a byte, and x=0 is reserved for the secret, so valid indices
// span [1,255], but this package keeps a tighter 128-share ceiling.
const (
	MaxThreshold   = 128
	MaxTotalShares = 128

	// DefaultSecretMaxSize bounds secret length; SSS is meant for keys and
	// small blobs, not bulk data (that's what rs is for).
	DefaultSecretMaxSize = 1024
)

// SSSConfig configures Split/Reconstruct.
type SSSConfig struct {
	Threshold     int
	TotalShares   int
	SecretMaxSize int
}

// NewSSSConfig validates and returns a config, defaulting SecretMaxSize to
// DefaultSecretMaxSize when zero.
func NewSSSConfig(threshold, totalShares, secretMaxSize int) (SSSConfig, error) {
	cfg := SSSConfig{
		Threshold:     threshold,
		TotalShares:   totalShares,
		SecretMaxSize: secretMaxSize,
	}
	if cfg.SecretMaxSize == 0 {
		cfg.SecretMaxSize = DefaultSecretMaxSize
	}
	if err := cfg.Validate(); err != nil {
		return SSSConfig{}, err
	}
	return cfg, nil
}

// Validate checks 1 <= k <= n <= MaxTotalShares and 0 < secret_max_size <= 1024.
func (c SSSConfig) Validate() error {
	if c.Threshold < 1 || c.Threshold > MaxThreshold {
		return fielderrors.Wrap(ErrInvalidConfig, nil, "threshold must be in [1,%d], got %d", MaxThreshold, c.Threshold)
	}
	if c.TotalShares < c.Threshold || c.TotalShares > MaxTotalShares {
		return fielderrors.Wrap(ErrInvalidConfig, nil,
			"total_shares must be in [%d,%d], got %d", c.Threshold, MaxTotalShares, c.TotalShares)
	}
	if c.SecretMaxSize <= 0 || c.SecretMaxSize > DefaultSecretMaxSize {
		return fielderrors.Wrap(ErrInvalidConfig, nil,
			"secret_max_size must be in (0,%d], got %d", DefaultSecretMaxSize, c.SecretMaxSize)
	}
	return nil
}

func (c SSSConfig) String() string {
	return fmt.Sprintf("SSSConfig{k=%d,n=%d,secret_max_size=%d}", c.Threshold, c.TotalShares, c.SecretMaxSize)
}
