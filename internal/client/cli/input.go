package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword and isTerminal are test seams for golang.org/x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// prompter reads answers from in. On a terminal passwords are read without
// echo; otherwise (pipes, tests) they are read as plain lines.
type prompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, out: out, reader: bufio.NewReader(in)}
}

func (p *prompter) terminalFd() (int, bool) {
	f, ok := p.in.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, isTerminal(fd)
}

// Line prints prompt and reads one trimmed line. A final line without a
// newline is accepted.
func (p *prompter) Line(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password prints prompt and reads a password.
func (p *prompter) Password(prompt string) (string, error) {
	fd, ok := p.terminalFd()
	if !ok {
		return p.Line(prompt)
	}
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// NewPassword asks for a password twice and fails when the entries differ.
func (p *prompter) NewPassword() (string, error) {
	first, err := p.Password("Enter password: ")
	if err != nil {
		return "", err
	}
	second, err := p.Password("Repeat password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}
