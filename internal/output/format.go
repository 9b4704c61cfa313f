// Package output renders cmd/shardkit results: a text/JSON Formatter
// that follows the terminal (JSON when piped, text on a TTY), column
// tables for shard and share listings, and the structured error display
// wired to pkg/errors.FieldError.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format selects how results are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatAuto Format = "auto"
)

// ParseFormat maps a flag or config value to a Format; anything
// unrecognized falls back to auto-detection.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatAuto
	}
}

// DetectFormat resolves FormatAuto against the writer: text when w is a
// terminal, JSON otherwise, so piping shardkit into another tool yields
// machine-readable output without a flag.
func DetectFormat(w io.Writer, explicit Format) Format {
	if explicit != FormatAuto {
		return explicit
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return FormatText
	}
	return FormatJSON
}

// Formatter writes command results in one resolved Format.
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter returns a Formatter writing to w. format should already be
// resolved via DetectFormat; FormatAuto here behaves as text.
func NewFormatter(format Format, w io.Writer) *Formatter {
	return &Formatter{format: format, writer: w}
}

// Format returns the resolved output format.
func (f *Formatter) Format() Format { return f.format }

// Writer returns the underlying writer, for callers that render their own
// output (tables) through the same destination.
func (f *Formatter) Writer() io.Writer { return f.writer }

// IsJSON reports whether results render as JSON.
func (f *Formatter) IsJSON() bool { return f.format == FormatJSON }

// Print renders v: indented JSON in JSON mode, a line of text otherwise.
func (f *Formatter) Print(v any) error {
	if f.IsJSON() {
		enc := json.NewEncoder(f.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	switch val := v.(type) {
	case string:
		_, err := fmt.Fprintln(f.writer, val)
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(f.writer, val.String())
		return err
	default:
		_, err := fmt.Fprintf(f.writer, "%v\n", val)
		return err
	}
}

// Printf writes formatted text output.
func (f *Formatter) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(f.writer, format, args...)
	return err
}

// Println writes a line of text output.
func (f *Formatter) Println(args ...any) error {
	_, err := fmt.Fprintln(f.writer, args...)
	return err
}
