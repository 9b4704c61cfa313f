package sss

import (
	"crypto/sha256"

	"github.com/shardkit/shardkit/internal/secure"
	fielderrors "github.com/shardkit/shardkit/pkg/errors"
)

// SplitResult is the output of a successful Split.
type SplitResult struct {
	Shares   []SecretShare
	Metadata ShareMetadata
}

// Split divides secret into cfg.TotalShares shares such that any
// cfg.Threshold of them reconstruct it and fewer reveal nothing. Two
// calls on the same secret produce statistically independent share sets:
// a fresh share_set_id and fresh random coefficients every time.
func Split(secret []byte, cfg SSSConfig) (*SplitResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(secret) == 0 || len(secret) > cfg.SecretMaxSize {
		return nil, fielderrors.Wrap(ErrInvalidSecret, nil,
			"secret length %d must be in (0,%d]", len(secret), cfg.SecretMaxSize)
	}

	shareSetID, err := newShareSetID()
	if err != nil {
		return nil, fielderrors.Wrap(ErrUnknown, err, "generating share_set_id")
	}
	secretHash := sha256.Sum256(secret)

	metadata := ShareMetadata{
		Threshold:   cfg.Threshold,
		TotalShares: cfg.TotalShares,
		SecretSize:  len(secret),
		SecretHash:  secretHash,
		ShareSetID:  shareSetID,
		Version:     currentShareVersion,
	}

	shareData := make([][]byte, cfg.TotalShares)
	for i := range shareData {
		shareData[i] = make([]byte, len(secret))
	}

	coeffWidth := cfg.Threshold - 1
	coeffScratch := secure.New(len(secret) * coeffWidth)
	defer coeffScratch.Destroy()
	scratch := coeffScratch.Bytes()

	for b, secretByte := range secret {
		coeffs := scratch[b*coeffWidth : (b+1)*coeffWidth]
		if err := generateCoefficientsInto(coeffs); err != nil {
			return nil, fielderrors.Wrap(ErrUnknown, err, "generating polynomial for byte %d", b)
		}

		for shareIdx := 1; shareIdx <= cfg.TotalShares; shareIdx++ {
			shareData[shareIdx-1][b] = evalPolynomial(secretByte, coeffs, byte(shareIdx))
		}
	}

	shares := make([]SecretShare, cfg.TotalShares)
	for i := range shares {
		index := i + 1
		data := shareData[i]
		shares[i] = SecretShare{
			Index:    index,
			Data:     data,
			Metadata: metadata,
			DataHash: computeDataHash(index, data, shareSetID),
		}
	}

	return &SplitResult{Shares: shares, Metadata: metadata}, nil
}
