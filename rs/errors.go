package rs

import fielderrors "github.com/shardkit/shardkit/pkg/errors"

// Sentinel errors returned by Encode/Decode, distinguished by Code so
// callers can match with errors.Is against these values.
var (
	ErrInsufficientShards = &fielderrors.FieldError{
		Code:     "INSUFFICIENT_SHARDS",
		Message:  "fewer than k shards available for one or more chunks",
		ExitCode: fielderrors.ExitData,
	}

	ErrCorruptedShards = &fielderrors.FieldError{
		Code:     "CORRUPTED_SHARDS",
		Message:  "reconstructed data does not match the recorded checksum",
		ExitCode: fielderrors.ExitData,
	}

	ErrInvalidConfiguration = &fielderrors.FieldError{
		Code:     "INVALID_CONFIGURATION",
		Message:  "invalid encoding configuration or input",
		ExitCode: fielderrors.ExitInput,
	}

	ErrMathError = &fielderrors.FieldError{
		Code:    "MATH_ERROR",
		Message: "a field arithmetic operation failed",
	}

	ErrIncompatibleShards = &fielderrors.FieldError{
		Code:     "INCOMPATIBLE_SHARDS",
		Message:  "shards carry inconsistent metadata",
		ExitCode: fielderrors.ExitInput,
	}

	ErrMatrixInversionFailed = &fielderrors.FieldError{
		Code:     "MATRIX_INVERSION_FAILED",
		Message:  "no invertible k-subset of the provided shards could be found",
		ExitCode: fielderrors.ExitData,
	}
)
