package sss

import fielderrors "github.com/shardkit/shardkit/pkg/errors"

// Sentinel errors returned by Split/Reconstruct, distinguished by Code so
// callers can match with errors.Is against these values.
var (
	ErrInvalidConfig = &fielderrors.FieldError{
		Code:     "INVALID_CONFIG",
		Message:  "invalid SSS configuration",
		ExitCode: fielderrors.ExitInput,
	}

	ErrInvalidSecret = &fielderrors.FieldError{
		Code:     "INVALID_SECRET",
		Message:  "secret is empty or exceeds the configured maximum size",
		ExitCode: fielderrors.ExitInput,
	}

	ErrInsufficientShares = &fielderrors.FieldError{
		Code:     "INSUFFICIENT_SHARES",
		Message:  "fewer than threshold valid shares available",
		ExitCode: fielderrors.ExitData,
	}

	ErrInvalidShare = &fielderrors.FieldError{
		Code:     "INVALID_SHARE",
		Message:  "a share failed per-share or reconstruction validation",
		ExitCode: fielderrors.ExitInput,
	}

	ErrIncompatibleShares = &fielderrors.FieldError{
		Code:     "INCOMPATIBLE_SHARES",
		Message:  "shares carry mismatched share_set_id or metadata",
		ExitCode: fielderrors.ExitInput,
	}

	ErrReconstructionFailed = &fielderrors.FieldError{
		Code:     "RECONSTRUCTION_FAILED",
		Message:  "interpolation failed to recover a consistent secret",
		ExitCode: fielderrors.ExitData,
	}

	ErrPartialData = &fielderrors.FieldError{
		Code:     "PARTIAL_DATA",
		Message:  "shares disagree on data length",
		ExitCode: fielderrors.ExitInput,
	}

	ErrUnknown = &fielderrors.FieldError{
		Code:    "UNKNOWN",
		Message: "unexpected internal error",
	}
)
