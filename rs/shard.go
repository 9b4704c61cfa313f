package rs

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/shardkit/shardkit/matrix"
	fielderrors "github.com/shardkit/shardkit/pkg/errors"
)

// shardFormatVersion prefixes a shard's serialized form; unknown versions
// fail fast rather than attempting a best-effort parse.
const shardFormatVersion = 1

// ShardMetadata is identical across every shard produced by one Encode
// call, except ChunkIndex, which is absent for single-chunk input.
type ShardMetadata struct {
	OriginalSize uint64
	Config       EncodingConfig
	Checksum     string // hex SHA-256 of the original, unpadded data
	ChunkIndex   *int   // nil unless the encode produced more than one chunk
}

// Equal compares two metadata values field by field, comparing ChunkIndex
// by pointed-to value rather than pointer identity.
func (m ShardMetadata) Equal(other ShardMetadata) bool {
	if m.OriginalSize != other.OriginalSize || m.Config != other.Config || m.Checksum != other.Checksum {
		return false
	}
	if (m.ChunkIndex == nil) != (other.ChunkIndex == nil) {
		return false
	}
	if m.ChunkIndex != nil && *m.ChunkIndex != *other.ChunkIndex {
		return false
	}
	return true
}

// Shard is one unit of Reed-Solomon output: index < k within its chunk
// carries an unmodified (possibly zero-padded) slice of the original
// data; index >= k is parity.
type Shard struct {
	Index    int
	Data     []byte
	Metadata ShardMetadata
}

// Equal compares shards by Index, Data, and Metadata.
func (s Shard) Equal(other Shard) bool {
	return s.Index == other.Index && bytes.Equal(s.Data, other.Data) && s.Metadata.Equal(other.Metadata)
}

// IsDataShard reports whether s carries unmodified original bytes within
// its chunk.
func (s Shard) IsDataShard(cfg EncodingConfig) bool {
	return s.Index%cfg.TotalShards() < cfg.DataShards
}

// Serialize encodes the shard as base64 text over a compact
// self-describing record, so a shard can travel as a single string
// without a side channel carrying its config.
func (s Shard) Serialize() (string, error) {
	var buf bytes.Buffer
	buf.WriteByte(shardFormatVersion)

	fields := []int32{
		int32(s.Index),
		int32(s.Metadata.Config.DataShards),
		int32(s.Metadata.Config.ParityShards),
		int32(s.Metadata.Config.ShardSize),
		int32(s.Metadata.Config.MatrixType),
	}
	for _, f := range fields {
		if err := binary.Write(&buf, binary.BigEndian, f); err != nil {
			return "", fmt.Errorf("rs: serializing shard: %w", err)
		}
	}
	if err := binary.Write(&buf, binary.BigEndian, s.Metadata.OriginalSize); err != nil {
		return "", fmt.Errorf("rs: serializing original_size: %w", err)
	}

	if s.Metadata.ChunkIndex != nil {
		buf.WriteByte(1)
		if err := binary.Write(&buf, binary.BigEndian, int32(*s.Metadata.ChunkIndex)); err != nil {
			return "", fmt.Errorf("rs: serializing chunk_index: %w", err)
		}
	} else {
		buf.WriteByte(0)
	}

	if err := binary.Write(&buf, binary.BigEndian, int32(len(s.Metadata.Checksum))); err != nil {
		return "", fmt.Errorf("rs: serializing checksum: %w", err)
	}
	buf.WriteString(s.Metadata.Checksum)

	if err := binary.Write(&buf, binary.BigEndian, int32(len(s.Data))); err != nil {
		return "", fmt.Errorf("rs: serializing data length: %w", err)
	}
	buf.Write(s.Data)

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DeserializeShard reverses Serialize, rejecting any version other than
// shardFormatVersion.
func DeserializeShard(encoded string) (Shard, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Shard{}, fielderrors.Wrap(ErrInvalidConfiguration, err, "invalid shard encoding")
	}
	r := bytes.NewReader(raw)

	version, err := r.ReadByte()
	if err != nil {
		return Shard{}, fielderrors.Wrap(ErrInvalidConfiguration, err, "empty shard record")
	}
	if version != shardFormatVersion {
		return Shard{}, fielderrors.Wrap(ErrInvalidConfiguration, nil, "unsupported shard format version %d", version)
	}

	var index, dataShards, parityShards, shardSize, matrixType int32
	ints := []*int32{&index, &dataShards, &parityShards, &shardSize, &matrixType}
	for _, dst := range ints {
		if err := binary.Read(r, binary.BigEndian, dst); err != nil {
			return Shard{}, fielderrors.Wrap(ErrInvalidConfiguration, err, "truncated shard record")
		}
	}

	var originalSize uint64
	if err := binary.Read(r, binary.BigEndian, &originalSize); err != nil {
		return Shard{}, fielderrors.Wrap(ErrInvalidConfiguration, err, "truncated shard record")
	}

	hasChunk, err := r.ReadByte()
	if err != nil {
		return Shard{}, fielderrors.Wrap(ErrInvalidConfiguration, err, "truncated shard record")
	}
	var chunkIndex *int
	if hasChunk == 1 {
		var ci int32
		if err := binary.Read(r, binary.BigEndian, &ci); err != nil {
			return Shard{}, fielderrors.Wrap(ErrInvalidConfiguration, err, "truncated shard record")
		}
		v := int(ci)
		chunkIndex = &v
	}

	checksum, err := readLengthPrefixed(r)
	if err != nil {
		return Shard{}, err
	}
	data, err := readLengthPrefixed(r)
	if err != nil {
		return Shard{}, err
	}

	return Shard{
		Index: int(index),
		Data:  data,
		Metadata: ShardMetadata{
			OriginalSize: originalSize,
			Config: EncodingConfig{
				DataShards:   int(dataShards),
				ParityShards: int(parityShards),
				ShardSize:    int(shardSize),
				MatrixType:   matrix.Type(matrixType),
			},
			Checksum:   string(checksum),
			ChunkIndex: chunkIndex,
		},
	}, nil
}

func readLengthPrefixed(r *bytes.Reader) ([]byte, error) {
	var length int32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, fielderrors.Wrap(ErrInvalidConfiguration, err, "truncated shard record")
	}
	if length < 0 || int(length) > r.Len() {
		return nil, fielderrors.Wrap(ErrInvalidConfiguration, nil, "corrupt length prefix %d", length)
	}
	out := make([]byte, length)
	if _, err := r.Read(out); err != nil {
		return nil, fielderrors.Wrap(ErrInvalidConfiguration, err, "truncated shard record")
	}
	return out, nil
}
