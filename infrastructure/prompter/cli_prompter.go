// Package prompter asks the operator questions on a terminal.
package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// CliPrompter reads answers from in and writes questions to out.
type CliPrompter struct {
	in  io.Reader
	out io.Writer
}

// NewCliPrompter creates a new CliPrompter.
func NewCliPrompter(in io.Reader, out io.Writer) *CliPrompter {
	return &CliPrompter{in: in, out: out}
}

// IsInteractive checks if the input is a terminal.
func (p *CliPrompter) IsInteractive() bool {
	if f, ok := p.in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *CliPrompter) Confirm(question string) (bool, error) {
	_, _ = fmt.Fprintf(p.out, "%s [y/n]: ", question)

	text, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(text) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// PromptForValue asks for a single line of input, for example a deploy token.
func (p *CliPrompter) PromptForValue(label string) (string, error) {
	_, _ = fmt.Fprintf(p.out, "%s: ", label)
	return p.readLine()
}

func (p *CliPrompter) readLine() (string, error) {
	scanner := bufio.NewScanner(p.in)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// NonInteractiveError explains how to proceed without a terminal.
func (p *CliPrompter) NonInteractiveError(action, flag string) error {
	return fmt.Errorf("%s needs confirmation in non-interactive mode. Re-run with %s", action, flag)
}
