package rs_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardkit/shardkit/rs"
)

func must(t *testing.T, cfg rs.EncodingConfig, err error) rs.EncodingConfig {
	t.Helper()
	require.NoError(t, err)
	return cfg
}

func TestEncodeDecodeSmallRoundtrip(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(3, 2, 16))
	data := []byte("the quick brown fox jumps over the lazy dog")

	shards, err := rs.Encode(data, cfg)
	require.NoError(t, err)
	require.Len(t, shards, cfg.TotalShards())

	result, err := rs.Decode(shards)
	require.NoError(t, err)
	assert.Equal(t, data, result.Data)
}

func TestDecodeFromNonContiguousSubset(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(4, 3, 64))
	data := make([]byte, 256)
	_, err := rand.Read(data)
	require.NoError(t, err)

	shards, err := rs.Encode(data, cfg)
	require.NoError(t, err)

	subset := []rs.Shard{shards[1], shards[3], shards[5], shards[6]}
	result, err := rs.Decode(subset)
	require.NoError(t, err)
	assert.Equal(t, data, result.Data)
	assert.Equal(t, rs.StrategyGeneral, result.Diagnostics.Strategy)
	assert.ElementsMatch(t, []int{1, 3, 5, 6}, result.Diagnostics.UsedIndices)
}

func TestDecodeFromExactDataShardsIsFastPath(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(5, 3, 32))
	data := make([]byte, 160)
	_, err := rand.Read(data)
	require.NoError(t, err)

	shards, err := rs.Encode(data, cfg)
	require.NoError(t, err)

	result, err := rs.Decode(shards[:cfg.DataShards])
	require.NoError(t, err)
	assert.Equal(t, data, result.Data)
	assert.Equal(t, rs.StrategyFastPath, result.Diagnostics.Strategy)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, result.Diagnostics.UsedIndices)
}

func TestDecodeDetectsCorruption(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(3, 2, 16))
	data := []byte("some secret payload worth protecting")

	shards, err := rs.Encode(data, cfg)
	require.NoError(t, err)

	shards[0].Data[0] ^= 0xFF

	_, err = rs.Decode(shards[:cfg.DataShards])
	assert.ErrorIs(t, err, rs.ErrCorruptedShards)
}

func TestDecodeInsufficientShardsFails(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(4, 2, 16))
	data := []byte("not enough shards to reconstruct this")

	shards, err := rs.Encode(data, cfg)
	require.NoError(t, err)

	_, err = rs.Decode(shards[:cfg.DataShards-1])
	assert.ErrorIs(t, err, rs.ErrInsufficientShards)
}

func TestCanReconstruct(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(3, 2, 16))
	data := []byte("reconstructability probe data")

	shards, err := rs.Encode(data, cfg)
	require.NoError(t, err)

	assert.True(t, rs.CanReconstruct(shards[:cfg.DataShards]))
	assert.False(t, rs.CanReconstruct(shards[:cfg.DataShards-1]))
}

func TestDecodeRetriesAlternativeSubsetAfterCorruption(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(3, 3, 24))
	data := []byte("spare shards let decode route around one corrupted shard")

	shards, err := rs.Encode(data, cfg)
	require.NoError(t, err)

	shards[0].Data[0] ^= 0xFF

	// Fast path (and its naive general-path equivalent) would use the
	// corrupted shard 0 first; with two extra shards available beyond k,
	// the decoder must find an invertible subset that excludes it.
	subset := []rs.Shard{shards[0], shards[1], shards[2], shards[3], shards[4]}
	result, err := rs.Decode(subset)
	require.NoError(t, err)
	assert.Equal(t, data, result.Data)
	assert.Equal(t, rs.StrategyFallback, result.Diagnostics.Strategy)
	assert.NotContains(t, result.Diagnostics.UsedIndices, 0, "the corrupted shard must not be in the winning subset")
}

func TestEncodeMultiChunk(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(2, 2, 8))
	data := make([]byte, 100) // several chunks at payload=16
	_, err := rand.Read(data)
	require.NoError(t, err)

	shards, err := rs.Encode(data, cfg)
	require.NoError(t, err)

	result, err := rs.Decode(shards)
	require.NoError(t, err)
	assert.Equal(t, data, result.Data)
}

func TestDecodeMissingWholeChunkIsInsufficient(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(2, 2, 8))
	data := make([]byte, 48) // three chunks at payload=16
	_, err := rand.Read(data)
	require.NoError(t, err)

	shards, err := rs.Encode(data, cfg)
	require.NoError(t, err)

	var withoutChunk1 []rs.Shard
	for _, s := range shards {
		if s.Metadata.ChunkIndex != nil && *s.Metadata.ChunkIndex == 1 {
			continue
		}
		withoutChunk1 = append(withoutChunk1, s)
	}

	_, err = rs.Decode(withoutChunk1)
	assert.ErrorIs(t, err, rs.ErrInsufficientShards)
	assert.False(t, rs.CanReconstruct(withoutChunk1))
}

func TestDecodeChunksStreamsPerChunk(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(2, 2, 8))
	data := make([]byte, 64)
	_, err := rand.Read(data)
	require.NoError(t, err)

	shards, err := rs.Encode(data, cfg)
	require.NoError(t, err)

	byChunk := make(map[int][]rs.Shard)
	for _, s := range shards {
		idx := 0
		if s.Metadata.ChunkIndex != nil {
			idx = *s.Metadata.ChunkIndex
		}
		byChunk[idx] = append(byChunk[idx], s)
	}

	var reassembled []byte
	for payload, err := range rs.DecodeChunks(byChunk) {
		require.NoError(t, err)
		reassembled = append(reassembled, payload...)
	}
	assert.Equal(t, data, reassembled[:len(data)])
}

func TestIncompatibleShardsRejected(t *testing.T) {
	t.Parallel()

	cfgA := must(t, rs.NewEncodingConfig(3, 2, 16))
	cfgB := must(t, rs.NewEncodingConfig(4, 2, 16))

	shardsA, err := rs.Encode([]byte("payload one, set A"), cfgA)
	require.NoError(t, err)
	shardsB, err := rs.Encode([]byte("payload two, set B"), cfgB)
	require.NoError(t, err)

	mixed := []rs.Shard{shardsA[0], shardsA[1], shardsB[0]}
	_, err = rs.Decode(mixed)
	assert.ErrorIs(t, err, rs.ErrIncompatibleShards)
}

func TestDecodeRejectsDuplicateIndices(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(3, 2, 16))
	shards, err := rs.Encode([]byte("duplicate shard indices are a caller bug"), cfg)
	require.NoError(t, err)

	dup := []rs.Shard{shards[0], shards[0], shards[1]}
	_, err = rs.Decode(dup)
	assert.ErrorIs(t, err, rs.ErrInvalidConfiguration)
}

func TestDecodeRejectsWrongShardLength(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(3, 2, 16))
	shards, err := rs.Encode([]byte("shard data must be exactly shard_size"), cfg)
	require.NoError(t, err)

	shards[1].Data = shards[1].Data[:8]
	_, err = rs.Decode(shards)
	assert.ErrorIs(t, err, rs.ErrInvalidConfiguration)
	assert.False(t, rs.CanReconstruct(shards))
}

func TestEncodeSixtyFourByteShards(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(4, 2, 64))
	data := []byte("Hello, World!")

	shards, err := rs.Encode(data, cfg)
	require.NoError(t, err)
	require.Len(t, shards, 6)

	for _, s := range shards {
		assert.Len(t, s.Data, 64)
		assert.Equal(t, uint64(13), s.Metadata.OriginalSize)
		assert.True(t, s.Metadata.Equal(shards[0].Metadata))
	}

	result, err := rs.Decode(shards[:4])
	require.NoError(t, err)
	assert.Equal(t, data, result.Data)
}

func TestEncodeIsDeterministic(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(4, 3, 32))
	data := []byte("equal inputs must produce byte-identical shards")

	first, err := rs.Encode(data, cfg)
	require.NoError(t, err)
	second, err := rs.Encode(data, cfg)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].Equal(second[i]), "shard %d differs", i)
	}
}

func TestShardSerializeRoundtrip(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(3, 2, 16))
	shards, err := rs.Encode([]byte("roundtrip through the wire format"), cfg)
	require.NoError(t, err)

	encoded, err := shards[0].Serialize()
	require.NoError(t, err)

	decoded, err := rs.DeserializeShard(encoded)
	require.NoError(t, err)
	assert.True(t, shards[0].Equal(decoded))
}

func TestEncodeRejectsEmptyData(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(3, 2, 16))
	_, err := rs.Encode(nil, cfg)
	assert.ErrorIs(t, err, rs.ErrInvalidConfiguration)
}

func TestNewEncodingConfigRejectsOversizedShardCount(t *testing.T) {
	t.Parallel()

	_, err := rs.NewEncodingConfig(200, 100, 16)
	assert.ErrorIs(t, err, rs.ErrInvalidConfiguration)
}

func TestEveryKSubsetReconstructsSmallCode(t *testing.T) {
	t.Parallel()

	cfg := must(t, rs.NewEncodingConfig(3, 3, 8))
	data := []byte("six total shards, any three rebuild it!")

	shards, err := rs.Encode(data, cfg)
	require.NoError(t, err)

	var combinations [][]int
	forEachCombination(len(shards), cfg.DataShards, func(idxs []int) {
		combinations = append(combinations, append([]int(nil), idxs...))
	})
	require.NotEmpty(t, combinations)

	for _, idxs := range combinations {
		subset := make([]rs.Shard, len(idxs))
		for i, idx := range idxs {
			subset[i] = shards[idx]
		}
		result, err := rs.Decode(subset)
		require.NoError(t, err)
		assert.Equal(t, data, result.Data)
	}
}

func forEachCombination(n, r int, f func([]int)) {
	idxs := make([]int, r)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == r {
			f(idxs)
			return
		}
		for i := start; i < n; i++ {
			idxs[depth] = i
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
}
