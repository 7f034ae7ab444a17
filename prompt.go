package milkshake

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ResolvePrompt turns positional arguments or piped input into a prompt.
// Arguments win when present; otherwise stdin is read unless it is a terminal.
func ResolvePrompt(args []string, stdin io.Reader, interactive bool) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if interactive || stdin == nil {
		return "", ErrNoPromptProvided
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt from STDIN: %w", err)
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", ErrEmptyStdinPrompt
	}
	return prompt, nil
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
