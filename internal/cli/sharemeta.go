package cli

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	shardkiterr "github.com/shardkit/shardkit/pkg/errors"
	"github.com/shardkit/shardkit/sss"
)

// shareMetaFormatVersion prefixes the standalone metadata record written
// alongside a split's shares, so it can be stored apart from the
// per-share data files.
const shareMetaFormatVersion = 1

// encodeShareMetadata serializes a sss.ShareMetadata as a standalone
// base64 record.
func encodeShareMetadata(m sss.ShareMetadata) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte(shareMetaFormatVersion)

	ints := []int32{int32(m.Threshold), int32(m.TotalShares), int32(m.SecretSize)}
	for _, v := range ints {
		if err := binary.Write(&buf, binary.BigEndian, v); err != nil {
			return "", fmt.Errorf("cli: serializing share metadata: %w", err)
		}
	}
	buf.Write(m.SecretHash[:])
	buf.Write(m.ShareSetID[:])
	buf.WriteByte(m.Version)

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// decodeShareMetadata reverses encodeShareMetadata.
func decodeShareMetadata(encoded string) (sss.ShareMetadata, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return sss.ShareMetadata{}, shardkiterr.Wrap(sss.ErrInvalidShare, err, "invalid share metadata encoding")
	}
	r := bytes.NewReader(raw)

	version, err := r.ReadByte()
	if err != nil {
		return sss.ShareMetadata{}, shardkiterr.Wrap(sss.ErrInvalidShare, err, "empty share metadata record")
	}
	if version != shareMetaFormatVersion {
		return sss.ShareMetadata{}, shardkiterr.Wrap(sss.ErrInvalidShare, nil,
			"unsupported share metadata format version %d", version)
	}

	var threshold, totalShares, secretSize int32
	for _, dst := range []*int32{&threshold, &totalShares, &secretSize} {
		if err := binary.Read(r, binary.BigEndian, dst); err != nil {
			return sss.ShareMetadata{}, shardkiterr.Wrap(sss.ErrInvalidShare, err, "truncated share metadata record")
		}
	}

	var secretHash [32]byte
	var shareSetID [16]byte
	if _, err := r.Read(secretHash[:]); err != nil {
		return sss.ShareMetadata{}, shardkiterr.Wrap(sss.ErrInvalidShare, err, "truncated share metadata record")
	}
	if _, err := r.Read(shareSetID[:]); err != nil {
		return sss.ShareMetadata{}, shardkiterr.Wrap(sss.ErrInvalidShare, err, "truncated share metadata record")
	}

	shareVersion, err := r.ReadByte()
	if err != nil {
		return sss.ShareMetadata{}, shardkiterr.Wrap(sss.ErrInvalidShare, err, "truncated share metadata record")
	}

	return sss.ShareMetadata{
		Threshold:   int(threshold),
		TotalShares: int(totalShares),
		SecretSize:  int(secretSize),
		SecretHash:  secretHash,
		ShareSetID:  shareSetID,
		Version:     shareVersion,
	}, nil
}
