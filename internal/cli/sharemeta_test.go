package cli

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardkit/shardkit/sss"
)

func TestEncodeDecodeShareMetadataRoundtrip(t *testing.T) {
	t.Parallel()

	original := sss.ShareMetadata{
		Threshold:   3,
		TotalShares: 5,
		SecretSize:  42,
		SecretHash:  [32]byte{1, 2, 3},
		ShareSetID:  [16]byte{9, 8, 7},
		Version:     1,
	}

	encoded, err := encodeShareMetadata(original)
	require.NoError(t, err)
	assert.NotEmpty(t, encoded)

	decoded, err := decodeShareMetadata(encoded)
	require.NoError(t, err)
	assert.True(t, original.Equal(decoded))
}

func TestDecodeShareMetadataRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := decodeShareMetadata("not-valid-base64!!!")
	assert.Error(t, err)
}

func TestDecodeShareMetadataRejectsTruncatedRecord(t *testing.T) {
	t.Parallel()

	_, err := decodeShareMetadata("AQ==") // a single version byte, nothing else
	assert.Error(t, err)
}

func TestDecodeShareMetadataRejectsWrongVersion(t *testing.T) {
	t.Parallel()

	original := sss.ShareMetadata{Threshold: 2, TotalShares: 3, SecretSize: 1}
	encoded, err := encodeShareMetadata(original)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	raw[0] = 0xFF // unsupported format version
	corrupted := base64.StdEncoding.EncodeToString(raw)

	_, err = decodeShareMetadata(corrupted)
	assert.Error(t, err)
}
