// Package rs implements systematic Reed-Solomon erasure coding over
// GF(256): encode splits a byte array into k data shards and m parity
// shards such that any k of the k+m shards reconstruct the original.
package rs

import (
	"fmt"

	"github.com/shardkit/shardkit/matrix"
	fielderrors "github.com/shardkit/shardkit/pkg/errors"
)

// DefaultShardSize is used when EncodingConfig.ShardSize is zero.
const DefaultShardSize = 8192

// EncodingConfig configures Encode/Decode.
type EncodingConfig struct {
	DataShards   int
	ParityShards int
	ShardSize    int
	MatrixType   matrix.Type
}

// NewEncodingConfig validates and returns a config, defaulting ShardSize
// to DefaultShardSize when zero.
func NewEncodingConfig(dataShards, parityShards, shardSize int) (EncodingConfig, error) {
	cfg := EncodingConfig{
		DataShards:   dataShards,
		ParityShards: parityShards,
		ShardSize:    shardSize,
	}
	if cfg.ShardSize == 0 {
		cfg.ShardSize = DefaultShardSize
	}
	if err := cfg.Validate(); err != nil {
		return EncodingConfig{}, err
	}
	return cfg, nil
}

// Validate checks that data and parity shard counts and shard size are
// positive and that the total shard count fits in GF(256).
func (c EncodingConfig) Validate() error {
	if c.DataShards <= 0 {
		return fielderrors.Wrap(ErrInvalidConfiguration, nil, "data_shards must be > 0, got %d", c.DataShards)
	}
	if c.ParityShards <= 0 {
		return fielderrors.Wrap(ErrInvalidConfiguration, nil, "parity_shards must be > 0, got %d", c.ParityShards)
	}
	if c.DataShards+c.ParityShards > 256 {
		return fielderrors.Wrap(ErrInvalidConfiguration, nil,
			"data_shards+parity_shards must be <= 256, got %d", c.DataShards+c.ParityShards)
	}
	if c.ShardSize <= 0 {
		return fielderrors.Wrap(ErrInvalidConfiguration, nil, "shard_size must be > 0, got %d", c.ShardSize)
	}
	return nil
}

// TotalShards returns k+m.
func (c EncodingConfig) TotalShards() int {
	return c.DataShards + c.ParityShards
}

// chunkPayloadSize is shard_size * k: the amount of original data each
// chunk carries across its k data shards.
func (c EncodingConfig) chunkPayloadSize() int {
	return c.ShardSize * c.DataShards
}

func (c EncodingConfig) String() string {
	return fmt.Sprintf("EncodingConfig{k=%d,m=%d,shard_size=%d}", c.DataShards, c.ParityShards, c.ShardSize)
}
