package cli

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	shardkiterr "github.com/shardkit/shardkit/pkg/errors"
)

// promptSecretFn is indirected through a variable so tests can substitute
// a canned secret without a real terminal attached to stdin.
//
//nolint:gochecknoglobals // test seam for substituting a canned secret
var promptSecretFn = promptSecret

// promptSecret prompts for a secret with hidden input. The caller is
// responsible for wiping the returned bytes with internal/secure once
// done with them.
func promptSecret(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	secret, err := term.ReadPassword(syscall.Stdin)
	fmt.Fprintln(os.Stderr) // newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("reading secret: %w", err)
	}
	if len(secret) == 0 {
		return nil, shardkiterr.WithSuggestion(
			shardkiterr.New("INVALID_SECRET", "no secret entered"),
			"type at least one character at the prompt",
		)
	}
	return secret, nil
}
