package commands

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
)

// SplitInvocation splits line into commands at every unquoted ";" and
// tokenizes each one with shell quoting rules. Empty commands are dropped.
// Other shell operators outside quotes are rejected.
func SplitInvocation(line string) ([][]string, error) {
	var out [][]string
	rest := []rune(line)
	for {
		p := shellwords.NewParser()
		tokens, err := p.Parse(string(rest))
		if err != nil {
			return nil, fmt.Errorf("%q: %v: %w", line, err, ErrParse)
		}
		if len(tokens) > 0 {
			out = append(out, tokens)
		}
		if p.Position < 0 {
			return out, nil
		}
		if rest[p.Position] != ';' {
			return nil, fmt.Errorf("%q: unsupported operator %q: %w", line, rest[p.Position], ErrParse)
		}
		rest = rest[p.Position+1:]
	}
}

// JoinInvocation renders tokens as a single command, quoting where needed.
func JoinInvocation(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = quoteToken(tok)
	}
	return strings.Join(quoted, " ")
}

func quoteToken(tok string) string {
	if tok == "" {
		return "''"
	}
	if !strings.ContainsAny(tok, " \t\r\n\"'\\;&|<>()`$") {
		return tok
	}
	return "'" + strings.ReplaceAll(tok, "'", `'"'"'`) + "'"
}

// Invocation is one resolved command of a batch.
type Invocation struct {
	// Name is the name the command was invoked under.
	Name    string
	Command *Command
	Args    *Args
	// Text is the command as typed, used for echo and error reports.
	Text    string
	BatchID string
	Env     *Env
	// State is updated by the executor as the command progresses.
	State State
}

func resolveBatch(reg *Registry, segments [][]string) ([]*Invocation, error) {
	out := make([]*Invocation, 0, len(segments))
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		name := seg[0]
		cmd, ok := reg.Get(name)
		if !ok {
			return nil, fmt.Errorf("no command named %q: %w", name, ErrNotFound)
		}
		args, err := cmd.Schema.Parse(name, seg[1:])
		if err != nil {
			return nil, err
		}
		out = append(out, &Invocation{
			Name:    name,
			Command: cmd,
			Args:    args,
			Text:    JoinInvocation(seg),
			State:   StatePending,
		})
	}
	return out, nil
}
