package output

import (
	"fmt"
	"os"
)

// Warnf prints a formatted warning to stderr, keeping stdout clean for
// the command's actual result. Used when a shard or share file in an
// input directory is skipped rather than failing the whole command.
func Warnf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, "⚠️  "+fmt.Sprintf(format, args...))
}
