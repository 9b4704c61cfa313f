package sss_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardkit/shardkit/sss"
)

func mustConfig(t *testing.T, k, n, maxSize int) sss.SSSConfig {
	t.Helper()
	cfg, err := sss.NewSSSConfig(k, n, maxSize)
	require.NoError(t, err)
	return cfg
}

func TestSplitReconstructRoundtrip(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, 3, 5, 0)
	secret := []byte("correct horse battery staple")

	result, err := sss.Split(secret, cfg)
	require.NoError(t, err)
	require.Len(t, result.Shares, cfg.TotalShares)

	recovered, err := sss.Reconstruct(result.Shares[:cfg.Threshold])
	require.NoError(t, err)
	assert.Equal(t, secret, recovered)
}

func TestReconstructFromAnyThresholdSubset(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, 3, 6, 0)
	secret := []byte("any three of six shares rebuild this secret")

	result, err := sss.Split(secret, cfg)
	require.NoError(t, err)

	subsets := [][]int{
		{0, 1, 2}, {1, 3, 5}, {0, 4, 5}, {2, 3, 4},
	}
	for _, idxs := range subsets {
		shares := make([]sss.SecretShare, len(idxs))
		for i, idx := range idxs {
			shares[i] = result.Shares[idx]
		}
		recovered, err := sss.Reconstruct(shares)
		require.NoError(t, err)
		assert.Equal(t, secret, recovered)
	}
}

func TestReconstructInsufficientShares(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, 4, 6, 0)
	secret := []byte("needs four shares minimum")

	result, err := sss.Split(secret, cfg)
	require.NoError(t, err)

	_, err = sss.Reconstruct(result.Shares[:cfg.Threshold-1])
	assert.ErrorIs(t, err, sss.ErrInsufficientShares)
}

func TestReconstructDetectsTamperedShare(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, 3, 5, 0)
	secret := []byte("tamper with one byte of one share")

	result, err := sss.Split(secret, cfg)
	require.NoError(t, err)

	tampered := append([]sss.SecretShare(nil), result.Shares[:cfg.Threshold]...)
	tampered[0].Data = append([]byte(nil), tampered[0].Data...)
	tampered[0].Data[0] ^= 0xFF

	_, err = sss.Reconstruct(tampered)
	assert.ErrorIs(t, err, sss.ErrInvalidShare)
}

func TestReconstructRejectsCrossSetShares(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, 3, 5, 0)

	resultA, err := sss.Split([]byte("first independent secret"), cfg)
	require.NoError(t, err)
	resultB, err := sss.Split([]byte("second independent secret"), cfg)
	require.NoError(t, err)

	mixed := []sss.SecretShare{resultA.Shares[0], resultA.Shares[1], resultB.Shares[2]}
	_, err = sss.Reconstruct(mixed)
	assert.ErrorIs(t, err, sss.ErrIncompatibleShares)
}

func TestSplitSameSecretTwiceYieldsIndependentShares(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, 3, 5, 0)
	secret := []byte("same secret, two splits")

	resultA, err := sss.Split(secret, cfg)
	require.NoError(t, err)
	resultB, err := sss.Split(secret, cfg)
	require.NoError(t, err)

	assert.NotEqual(t, resultA.Metadata.ShareSetID, resultB.Metadata.ShareSetID)
	assert.False(t, bytes.Equal(resultA.Shares[0].Data, resultB.Shares[0].Data),
		"independent splits of the same secret should not produce identical share bytes")
}

func TestSplitRejectsOversizedSecret(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, 3, 5, 16)
	secret := make([]byte, 17)
	_, err := rand.Read(secret)
	require.NoError(t, err)

	_, err = sss.Split(secret, cfg)
	assert.ErrorIs(t, err, sss.ErrInvalidSecret)
}

func TestSplitRejectsEmptySecret(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, 3, 5, 0)
	_, err := sss.Split(nil, cfg)
	assert.ErrorIs(t, err, sss.ErrInvalidSecret)
}

func TestNewSSSConfigRejectsThresholdAboveTotal(t *testing.T) {
	t.Parallel()

	_, err := sss.NewSSSConfig(5, 3, 0)
	assert.ErrorIs(t, err, sss.ErrInvalidConfig)
}

func TestShareSerializeRoundtrip(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, 3, 5, 0)
	result, err := sss.Split([]byte("serialize me"), cfg)
	require.NoError(t, err)

	encoded, err := result.Shares[0].Serialize()
	require.NoError(t, err)

	decoded, err := sss.DeserializeShare(encoded)
	require.NoError(t, err)
	assert.True(t, result.Shares[0].Equal(decoded))
}

func TestSingleByteSecretWithThresholdTwo(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, 2, 4, 0)
	secret := []byte{0x42}

	result, err := sss.Split(secret, cfg)
	require.NoError(t, err)

	recovered, err := sss.Reconstruct(result.Shares[1:3])
	require.NoError(t, err)
	assert.Equal(t, secret, recovered)
}

func TestShareBytesAreUniformlyDistributed(t *testing.T) {
	t.Parallel()

	// Share bytes are evaluations of polynomials with uniform random
	// coefficients, so pooled over many splits they should be uniform on
	// 256 bins. Chi-square with 255 degrees of freedom: the 0.01 critical
	// value is about 310.5; 330 keeps flake probability well under that.
	cfg := mustConfig(t, 3, 5, 512)
	secret := make([]byte, 512)
	for i := range secret {
		secret[i] = byte(i % 7) // deliberately non-uniform secret
	}

	const splits = 100
	var counts [256]int
	total := 0
	for i := 0; i < splits; i++ {
		result, err := sss.Split(secret, cfg)
		require.NoError(t, err)
		for _, b := range result.Shares[0].Data {
			counts[b]++
			total++
		}
	}

	expected := float64(total) / 256
	chiSquare := 0.0
	for _, c := range counts {
		diff := float64(c) - expected
		chiSquare += diff * diff / expected
	}
	assert.Less(t, chiSquare, 330.0, "share bytes should be uniform on 256 bins")
}

func TestThresholdMinusOneSharesRevealNothing(t *testing.T) {
	t.Parallel()

	// Below the threshold, share bytes are statistically independent of
	// the secret: byte-frequency distributions over k-1 shares from two
	// different secrets must agree within sampling tolerance.
	cfg := mustConfig(t, 3, 5, 512)
	secretA := bytes.Repeat([]byte{0x00}, 512)
	secretB := bytes.Repeat([]byte{0xFF}, 512)

	const splits = 100
	countFor := func(secret []byte) [256]float64 {
		var counts [256]float64
		for i := 0; i < splits; i++ {
			result, err := sss.Split(secret, cfg)
			require.NoError(t, err)
			for _, share := range result.Shares[:cfg.Threshold-1] {
				for _, b := range share.Data {
					counts[b]++
				}
			}
		}
		return counts
	}

	countsA := countFor(secretA)
	countsB := countFor(secretB)

	total := float64(splits * (cfg.Threshold - 1) * len(secretA))
	tv := 0.0
	for i := range countsA {
		diff := countsA[i]/total - countsB[i]/total
		if diff < 0 {
			diff = -diff
		}
		tv += diff
	}
	tv /= 2
	assert.Less(t, tv, 0.05, "below-threshold share distributions must be indistinguishable across secrets")
}

func TestNewShareReassemblesSplitFromDataAndMetadata(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, 3, 5, 0)
	secret := []byte("rebuilt from two channels")

	result, err := sss.Split(secret, cfg)
	require.NoError(t, err)

	rebuilt := make([]sss.SecretShare, cfg.Threshold)
	for i, original := range result.Shares[:cfg.Threshold] {
		rebuilt[i] = sss.NewShare(original.Index, original.Data, result.Metadata)
	}

	for i, original := range result.Shares[:cfg.Threshold] {
		assert.True(t, original.Equal(rebuilt[i]))
		assert.Equal(t, original.DataHash, rebuilt[i].DataHash)
	}

	recovered, err := sss.Reconstruct(rebuilt)
	require.NoError(t, err)
	assert.Equal(t, secret, recovered)
}

func TestNewShareDetectsDataTamperedAfterHashing(t *testing.T) {
	t.Parallel()

	cfg := mustConfig(t, 3, 5, 0)
	result, err := sss.Split([]byte("tamper check"), cfg)
	require.NoError(t, err)

	tampered := make([]sss.SecretShare, cfg.Threshold)
	for i, original := range result.Shares[:cfg.Threshold] {
		tampered[i] = sss.NewShare(original.Index, original.Data, result.Metadata)
	}
	// Mutate the data after the hash was computed, simulating corruption
	// that arrives on an alternate channel (e.g. a mistyped mnemonic word).
	tampered[0].Data[0] ^= 0xFF

	_, err = sss.Reconstruct(tampered)
	require.Error(t, err)
}
