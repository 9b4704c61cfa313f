package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fielderrors "github.com/shardkit/shardkit/pkg/errors"
)

var errSentinelA = &fielderrors.FieldError{Code: "A_CODE", Message: "a happened"}
var errSentinelB = &fielderrors.FieldError{Code: "B_CODE", Message: "b happened"}

func TestFieldError_ErrorString(t *testing.T) {
	t.Parallel()

	fe := &fielderrors.FieldError{Code: "X", Message: "bad thing"}
	assert.Equal(t, "bad thing", fe.Error())
}

func TestFieldError_ErrorStringWithDetailsSorted(t *testing.T) {
	t.Parallel()

	fe := &fielderrors.FieldError{
		Code:    "X",
		Message: "bad thing",
		Details: map[string]string{"zeta": "2", "alpha": "1"},
	}
	assert.Equal(t, "bad thing (alpha: 1) (zeta: 2)", fe.Error())
}

func TestFieldError_ErrorStringWithCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying")
	fe := &fielderrors.FieldError{Code: "X", Message: "bad thing", Cause: cause}
	assert.Equal(t, "bad thing: underlying", fe.Error())
}

func TestFieldError_IsMatchesByCode(t *testing.T) {
	t.Parallel()

	wrapped := fielderrors.Wrap(errSentinelA, errors.New("boom"), "context: %s", "here")
	assert.True(t, errors.Is(wrapped, errSentinelA))
	assert.False(t, errors.Is(wrapped, errSentinelB))
}

func TestFieldError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("root cause")
	wrapped := fielderrors.Wrap(errSentinelA, cause, "wrapping")
	require.ErrorIs(t, wrapped, cause)
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	withDetails := fielderrors.WithDetails(errSentinelA, map[string]string{"index": "3"})
	assert.Equal(t, "A_CODE", withDetails.Code)
	assert.Contains(t, withDetails.Error(), "index: 3")
}

func TestCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "A_CODE", fielderrors.Code(errSentinelA))
	assert.Equal(t, "", fielderrors.Code(errors.New("plain")))
}

func TestWithSuggestion(t *testing.T) {
	t.Parallel()

	withSuggestion := fielderrors.WithSuggestion(errSentinelA, "try again with more shares")
	assert.Equal(t, "A_CODE", withSuggestion.Code)
	assert.Equal(t, "try again with more shares", withSuggestion.Suggestion)
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, fielderrors.ExitSuccess, fielderrors.ExitCode(nil))
	assert.Equal(t, fielderrors.ExitGeneral, fielderrors.ExitCode(errors.New("plain")))
	assert.Equal(t, fielderrors.ExitGeneral, fielderrors.ExitCode(errSentinelA))

	dataErr := &fielderrors.FieldError{Code: "D", Message: "x", ExitCode: fielderrors.ExitData}
	assert.Equal(t, fielderrors.ExitData, fielderrors.ExitCode(dataErr))
}
