package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var (
	// replaced in tests
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// Password asks for a secret. On a terminal the input is not echoed,
// otherwise a single line is read from in, so passwords can be piped.
func Password(in *os.File, out io.Writer, label string) (string, error) {
	if !isTerminal(int(in.Fd())) {
		return Line(bufio.NewReader(in))
	}
	if _, err := fmt.Fprintf(out, "%v: ", label); err != nil {
		return "", err
	}
	buf, err := readPassword(int(in.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("unable to read password, cause %w", err)
	}
	return string(buf), nil
}

// NewPassword asks for a secret twice and fails if both do not match.
// Outside a terminal the secret is read only once.
func NewPassword(in *os.File, out io.Writer) (string, error) {
	if !isTerminal(int(in.Fd())) {
		return Line(bufio.NewReader(in))
	}
	first, err := Password(in, out, "New password")
	if err != nil {
		return "", err
	}
	second, err := Password(in, out, "Repeat password")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}

// Line reads one line without its line terminator. A last line without a
// newline is accepted.
func Line(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", fmt.Errorf("unable to read line, cause %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
