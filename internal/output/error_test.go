package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fielderrors "github.com/shardkit/shardkit/pkg/errors"
)

func TestFormatErrorNil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, nil, FormatText))
	assert.Empty(t, buf.String())
}

func TestFormatErrorFieldErrorJSON(t *testing.T) {
	err := &fielderrors.FieldError{
		Code:       "CORRUPTED_SHARDS",
		Message:    "checksum mismatch after reconstruction",
		Details:    map[string]string{"chunk": "0"},
		Suggestion: "re-run decode with a different shard subset",
		ExitCode:   fielderrors.ExitData,
	}

	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, err, FormatJSON))

	var rec errorRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "CORRUPTED_SHARDS", rec.Error.Code)
	assert.Equal(t, "checksum mismatch after reconstruction", rec.Error.Message)
	assert.Equal(t, map[string]string{"chunk": "0"}, rec.Error.Details)
	assert.Equal(t, "re-run decode with a different shard subset", rec.Error.Suggestion)
	assert.Equal(t, fielderrors.ExitData, rec.Error.ExitCode)
}

func TestFormatErrorWrappedFieldError(t *testing.T) {
	sentinel := &fielderrors.FieldError{Code: "INSUFFICIENT_SHARES", Message: "not enough shares"}
	err := fmt.Errorf("reading shares: %w", fielderrors.Wrap(sentinel, nil, "have 2 valid shares, need 3"))

	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, err, FormatJSON))

	var rec errorRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "INSUFFICIENT_SHARES", rec.Error.Code)
	assert.Equal(t, "have 2 valid shares, need 3", rec.Error.Message)
}

func TestFormatErrorFieldErrorText(t *testing.T) {
	err := &fielderrors.FieldError{
		Code:       "INVALID_SHARE",
		Message:    "share 3 data_hash mismatch",
		Details:    map[string]string{"index": "3"},
		Suggestion: "check the share file was copied intact",
	}

	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, err, FormatText))

	out := buf.String()
	assert.Contains(t, out, "Error: share 3 data_hash mismatch")
	assert.Contains(t, out, "index: 3")
	assert.Contains(t, out, "Suggestion: check the share file was copied intact")
}

func TestFormatErrorGenericError(t *testing.T) {
	err := errors.New("open shards: no such file or directory")

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatError(&buf, err, FormatJSON))

		var rec errorRecord
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "GENERAL_ERROR", rec.Error.Code)
		assert.Equal(t, err.Error(), rec.Error.Message)
		assert.Equal(t, fielderrors.ExitGeneral, rec.Error.ExitCode)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatError(&buf, err, FormatText))
		assert.Equal(t, "Error: open shards: no such file or directory\n", buf.String())
	})
}

func TestFormatErrorTextOmitsEmptySections(t *testing.T) {
	err := &fielderrors.FieldError{Code: "INVALID_CONFIG", Message: "threshold must be in [1,128]"}

	var buf bytes.Buffer
	require.NoError(t, FormatError(&buf, err, FormatText))

	out := buf.String()
	assert.NotContains(t, out, "Details:")
	assert.NotContains(t, out, "Suggestion:")
}
