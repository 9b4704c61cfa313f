package sss

import (
	"crypto/sha256"
	"sort"

	"github.com/shardkit/shardkit/gf256"
	"github.com/shardkit/shardkit/internal/secure"
	fielderrors "github.com/shardkit/shardkit/pkg/errors"
)

// Reconstruct recovers the secret from any cfg.Threshold valid shares,
// verifying each share's data_hash and the overall secret_hash before
// returning.
func Reconstruct(shares []SecretShare) ([]byte, error) {
	if len(shares) == 0 {
		return nil, fielderrors.Wrap(ErrInsufficientShares, nil, "no shares given")
	}

	valid, err := validateShares(shares)
	if err != nil {
		return nil, err
	}

	metadata := valid[0].Metadata
	if len(valid) < metadata.Threshold {
		return nil, fielderrors.Wrap(ErrInsufficientShares, nil,
			"have %d valid shares, need %d", len(valid), metadata.Threshold)
	}
	valid = valid[:metadata.Threshold]

	secretBuf := secure.New(metadata.SecretSize)
	defer secretBuf.Destroy()
	secretScratch := secretBuf.Bytes()

	weights := lagrangeWeightsAtZero(valid)

	for b := 0; b < metadata.SecretSize; b++ {
		var acc byte
		for i, s := range valid {
			acc = gf256.Add(acc, gf256.Mul(s.Data[b], weights[i]))
		}
		secretScratch[b] = acc
	}

	sum := sha256.Sum256(secretScratch)
	if sum != metadata.SecretHash {
		return nil, fielderrors.Wrap(ErrInvalidShare, nil, "reconstructed secret does not match secret_hash")
	}

	secret := make([]byte, len(secretScratch))
	copy(secret, secretScratch)
	return secret, nil
}

// lagrangeWeightsAtZero returns, for points x_i = shares[i].Index, the
// Lagrange basis weights evaluated at x=0: weight_i = Prod_{j!=i} x_j /
// (x_j - x_i). Subtraction is XOR in GF(2^8).
func lagrangeWeightsAtZero(shares []SecretShare) []byte {
	weights := make([]byte, len(shares))
	for i, si := range shares {
		weight := byte(1)
		xi := byte(si.Index)
		for j, sj := range shares {
			if i == j {
				continue
			}
			xj := byte(sj.Index)
			weight = gf256.Mul(weight, gf256.Div(xj, gf256.Sub(xj, xi)))
		}
		weights[i] = weight
	}
	return weights
}

// validateShares runs per-share validation (data_hash, index range,
// length) and cross-share validation (identical share_set_id, metadata,
// data length), returning an error at the first share that fails any
// check; otherwise it returns the shares sorted and deduplicated by index.
func validateShares(shares []SecretShare) ([]SecretShare, error) {
	first := shares[0].Metadata

	seen := make(map[int]bool, len(shares))
	var valid []SecretShare

	for _, s := range shares {
		if s.Metadata.ShareSetID != first.ShareSetID ||
			s.Metadata.Threshold != first.Threshold ||
			s.Metadata.TotalShares != first.TotalShares ||
			s.Metadata.SecretSize != first.SecretSize ||
			s.Metadata.SecretHash != first.SecretHash {
			return nil, fielderrors.Wrap(ErrIncompatibleShares, nil, "shares carry mismatched share_set_id or metadata")
		}
		if len(s.Data) != s.Metadata.SecretSize {
			return nil, fielderrors.Wrap(ErrPartialData, nil,
				"share %d has %d bytes, metadata declares %d", s.Index, len(s.Data), s.Metadata.SecretSize)
		}
		if s.Index < 1 || s.Index > s.Metadata.TotalShares {
			return nil, fielderrors.Wrap(ErrInvalidShare, nil, "share index %d out of range [1,%d]", s.Index, s.Metadata.TotalShares)
		}
		if !s.verifyDataHash() {
			return nil, fielderrors.Wrap(ErrInvalidShare, nil, "share %d data_hash mismatch", s.Index)
		}
		if seen[s.Index] {
			continue
		}
		seen[s.Index] = true
		valid = append(valid, s)
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].Index < valid[j].Index })
	return valid, nil
}
