package action

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// ErrEmptyCommand is returned when a `:` command line is blank.
var ErrEmptyCommand = errors.New("action: empty ex-command")

// ErrUnterminatedQuote wraps shlex's own unterminated-quote error with the
// dispatcher's own error vocabulary.
var ErrUnterminatedQuote = errors.New("action: unterminated quote in ex-command")

// ExCommand is a parsed `:`-command line: a name and its argv tail, per
// spec.md §6.2.
type ExCommand struct {
	Name string
	Args []string
}

// ExCommandParser tokenizes ex-command lines with shlex, so quoted
// arguments (agent argv containing spaces) survive splitting.
type ExCommandParser struct{}

// NewExCommandParser returns a ready-to-use parser. It carries no state.
func NewExCommandParser() *ExCommandParser { return &ExCommandParser{} }

// Parse splits line (the text after the leading `:`) into a command name
// and its remaining arguments.
func (p *ExCommandParser) Parse(line string) (ExCommand, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ExCommand{}, ErrEmptyCommand
	}
	fields, err := shlex.Split(trimmed)
	if err != nil {
		return ExCommand{}, fmt.Errorf("%w: %v", ErrUnterminatedQuote, err)
	}
	if len(fields) == 0 {
		return ExCommand{}, ErrEmptyCommand
	}
	return ExCommand{Name: fields[0], Args: fields[1:]}, nil
}

// parseSetAssignment splits a `:set key=value` argument into its key and
// integer value.
func parseSetAssignment(arg string) (key string, value int, err error) {
	idx := strings.IndexByte(arg, '=')
	if idx < 0 {
		return "", 0, fmt.Errorf("action: %q is not a key=value assignment", arg)
	}
	key = arg[:idx]
	value, err = strconv.Atoi(arg[idx+1:])
	if err != nil {
		return "", 0, fmt.Errorf("action: invalid value in %q: %w", arg, err)
	}
	return key, value, nil
}
