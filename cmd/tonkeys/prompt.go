package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// prompter reads passwords. On a terminal input is hidden; otherwise one
// line is read from the shared input reader.
type prompter struct {
	in       *bufio.Reader
	out      io.Writer
	terminal bool
	fd       int
}

func (p *prompter) password(prompt string) ([]byte, error) {
	fmt.Fprint(p.out, prompt)
	if p.terminal {
		pw, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out) // newline after hidden input
		return pw, err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		fmt.Fprintln(p.out)
		return nil, fmt.Errorf("read password: %w", err)
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

// newPassword asks twice and requires both answers to match.
func (p *prompter) newPassword(prompt string) ([]byte, error) {
	pw, err := p.password(prompt)
	if err != nil {
		return nil, err
	}
	confirm, err := p.password("Confirm password: ")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(pw, confirm) {
		return nil, fmt.Errorf("passwords do not match")
	}
	if len(pw) == 0 {
		return nil, fmt.Errorf("empty password")
	}
	return pw, nil
}
