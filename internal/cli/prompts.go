package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

// minPassphraseLength is the shortest keystore passphrase accepted.
const minPassphraseLength = 8

// Prompt functions are variables so tests can replace them.
//
//nolint:gochecknoglobals // Swappable for tests
var (
	promptPasswordFn    = promptPassword
	promptNewPasswordFn = promptNewPassword
	promptConfirmFn     = promptConfirm
	promptMnemonicFn    = promptMnemonic

	stdinReader = bufio.NewReader(os.Stdin)
)

// out writes formatted CLI output, ignoring write errors.
//
//nolint:errcheck // CLI output writes are intentionally unchecked
func out(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

// outln writes a line of CLI output, ignoring write errors.
//
//nolint:errcheck // CLI output writes are intentionally unchecked
func outln(w io.Writer, args ...any) {
	fmt.Fprintln(w, args...)
}

// readSecret reads a line without echo when stdin is a terminal, and a plain
// line otherwise so input can be piped.
func readSecret() ([]byte, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		outln(stderr)
		return secret, err
	}

	line, err := stdinReader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

// promptPassword prompts for a password with hidden input.
// The caller is responsible for zeroing the returned bytes after use.
func promptPassword(prompt string) ([]byte, error) {
	out(stderr, "%s", prompt)

	password, err := readSecret()
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return password, nil
}

// promptNewPassword prompts for a new keystore passphrase with confirmation.
// The caller is responsible for zeroing the returned bytes after use.
func promptNewPassword() ([]byte, error) {
	password, err := promptPasswordFn("Choose a keystore passphrase: ")
	if err != nil {
		return nil, err
	}

	if len(password) < minPassphraseLength {
		zeroBytes(password)
		return nil, dapperr.WithSuggestion(
			dapperr.ErrInvalidInput,
			fmt.Sprintf("passphrase must be at least %d characters", minPassphraseLength),
		)
	}

	confirm, err := promptPasswordFn("Confirm passphrase: ")
	if err != nil {
		zeroBytes(password)
		return nil, err
	}
	defer zeroBytes(confirm)

	if string(password) != string(confirm) {
		zeroBytes(password)
		return nil, dapperr.WithSuggestion(dapperr.ErrInvalidInput, "passphrases do not match")
	}

	return password, nil
}

// promptConfirm asks a yes/no question; anything but y or yes is no.
func promptConfirm(question string) bool {
	out(stderr, "%s [y/N]: ", question)

	line, err := stdinReader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	response := strings.ToLower(strings.TrimSpace(line))
	return response == "y" || response == "yes"
}

// promptMnemonic reads a recovery phrase on one line, hidden on a terminal.
func promptMnemonic() (string, error) {
	outln(stderr, "Enter your recovery phrase, all words on one line.")
	out(stderr, "Recovery phrase: ")

	input, err := readSecret()
	if err != nil {
		return "", fmt.Errorf("reading recovery phrase: %w", err)
	}
	defer zeroBytes(input)

	phrase := strings.TrimSpace(string(input))
	if phrase == "" {
		return "", dapperr.WithSuggestion(dapperr.ErrInvalidInput, "no recovery phrase entered")
	}
	return phrase, nil
}

// zeroBytes overwrites b.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
