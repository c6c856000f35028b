package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"subedit/internal/commands"
)

// linePrompter answers prompts from a line-oriented reader. An empty line
// keeps the initial value; end of input cancels.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newLinePrompter(in *bufio.Reader, out io.Writer) *linePrompter {
	return &linePrompter{in: in, out: out}
}

func (p *linePrompter) Prompt(ctx context.Context, title, initial string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", commands.ErrCanceled, err)
	}
	if initial != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", title, initial)
	} else {
		fmt.Fprintf(p.out, "%s: ", title)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return "", commands.Canceled("input closed")
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return initial, nil
	}
	return line, nil
}

func isTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
