package rs

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/shardkit/shardkit/matrix"
	fielderrors "github.com/shardkit/shardkit/pkg/errors"
)

// Encode splits data into cfg.TotalShards() shards such that any
// cfg.DataShards of them reconstruct it. Data larger than one chunk's
// payload (shard_size * data_shards) is split across multiple chunks,
// each encoded independently; shards from chunk i carry a non-nil
// Metadata.ChunkIndex so Decode can group them back together.
func Encode(data []byte, cfg EncodingConfig) ([]Shard, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fielderrors.Wrap(ErrInvalidConfiguration, nil, "data must be non-empty")
	}

	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	payload := cfg.chunkPayloadSize()
	chunkCount := (len(data) + payload - 1) / payload

	var shards []Shard
	for i := 0; i < chunkCount; i++ {
		start := i * payload
		end := start + payload
		if end > len(data) {
			end = len(data)
		}
		chunk := data[start:end]

		var chunkIndexPtr *int
		if chunkCount > 1 {
			idx := i
			chunkIndexPtr = &idx
		}

		chunkShards, err := EncodeChunk(chunk, cfg)
		if err != nil {
			return nil, err
		}
		for j := range chunkShards {
			chunkShards[j].Metadata.OriginalSize = uint64(len(data))
			chunkShards[j].Metadata.Checksum = checksum
			chunkShards[j].Metadata.ChunkIndex = chunkIndexPtr
			chunkShards[j].Index = i*cfg.TotalShards() + chunkShards[j].Index
		}
		shards = append(shards, chunkShards...)
	}

	return shards, nil
}

// EncodeChunk encodes a single chunk (at most shard_size*data_shards
// bytes) into cfg.TotalShards() shards, each shard_size bytes. chunk is
// zero-padded to the full payload size; data shards carry local indices
// [0,k) and parity shards [k,k+m).
//
// The returned shards' Metadata.OriginalSize, Checksum and ChunkIndex are
// left zero-valued; Encode fills them in across a multi-chunk call.
func EncodeChunk(chunk []byte, cfg EncodingConfig) ([]Shard, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(chunk) > cfg.chunkPayloadSize() {
		return nil, fielderrors.Wrap(ErrInvalidConfiguration, nil,
			"chunk of %d bytes exceeds payload capacity %d", len(chunk), cfg.chunkPayloadSize())
	}

	padded := make([]byte, cfg.chunkPayloadSize())
	copy(padded, chunk)

	k, n := cfg.DataShards, cfg.TotalShards()

	dataShards := make([][]byte, k)
	for i := 0; i < k; i++ {
		dataShards[i] = padded[i*cfg.ShardSize : (i+1)*cfg.ShardSize]
	}

	encMatrix, err := encodingMatrixFor(cfg)
	if err != nil {
		return nil, fielderrors.Wrap(ErrMathError, err, "building encoding matrix")
	}

	outputs := make([][]byte, n)
	for i := range outputs {
		outputs[i] = make([]byte, cfg.ShardSize)
	}
	if err := matrix.CodeRows(encMatrix, dataShards, outputs); err != nil {
		return nil, fielderrors.Wrap(ErrMathError, err, "computing shards")
	}

	shards := make([]Shard, n)
	for i := 0; i < n; i++ {
		shards[i] = Shard{
			Index: i,
			Data:  outputs[i],
			Metadata: ShardMetadata{
				Config: cfg,
			},
		}
	}
	return shards, nil
}
