package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	fielderrors "github.com/shardkit/shardkit/pkg/errors"
)

// errorRecord is the JSON shape of a rendered failure, mirroring the
// FieldError fields so scripted callers can branch on code without
// parsing the message.
type errorRecord struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// FormatError renders err to w in the given format. A *FieldError
// anywhere in the chain contributes its code, details, and suggestion;
// any other error renders under the GENERAL_ERROR code.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	detail := errorDetail{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		ExitCode: fielderrors.ExitCode(err),
	}
	var fe *fielderrors.FieldError
	if errors.As(err, &fe) {
		detail.Code = fe.Code
		detail.Message = fe.Message
		detail.Details = fe.Details
		detail.Suggestion = fe.Suggestion
	}

	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(errorRecord{Error: detail})
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error: %s\n", detail.Message))
	if len(detail.Details) > 0 {
		sb.WriteString("\nDetails:\n")
		for k, v := range detail.Details {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, v))
		}
	}
	if detail.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\nSuggestion: %s\n", detail.Suggestion))
	}
	_, writeErr := io.WriteString(w, sb.String())
	return writeErr
}
