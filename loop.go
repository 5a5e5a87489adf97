package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ConsoleChannel is the stdin/stdout operator channel.
type ConsoleChannel struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewConsoleChannel(in io.Reader, out io.Writer) *ConsoleChannel {
	return &ConsoleChannel{in: bufio.NewScanner(in), out: out}
}

func (c *ConsoleChannel) Say(msg string) {
	fmt.Fprintln(c.out, msg)
}

func (c *ConsoleChannel) Prompt(msg string) (string, error) {
	fmt.Fprint(c.out, msg)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// isExitToken reports whether input is one of the reserved session-ending
// tokens.
func isExitToken(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "quit", "exit", "q":
		return true
	}
	return false
}

// RunInteractive drives the read-eval loop: one request processed start to
// finish before the next begins. Exit tokens terminate the session and print
// the token ledger summary.
func RunInteractive(session *Session, ch *ConsoleChannel) {
	ch.Say("HR DOCUMENT GENERATION SYSTEM")
	ch.Say(strings.Repeat("=", 50))
	ch.Say("Enter your request and I'll classify it, query the HR database,")
	ch.Say("and generate the matching paystub or tax form document.")
	ch.Say("")

	for {
		input, err := ch.Prompt("What is your request? (or 'quit' to exit)\n   > ")
		if err != nil {
			break
		}
		if isExitToken(input) {
			break
		}
		if input == "" {
			continue
		}

		ch.Say(fmt.Sprintf("\nProcessing: '%s'", input))
		ch.Say(strings.Repeat("-", 50))
		session.HandleRequest(input)
		ch.Say("\n" + strings.Repeat("=", 50))
	}

	ch.Say("\n" + session.Tokens().Summary())
}
