package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Mohsinsiddi/bidcli/internal/wallet"
)

// Prompter asks yes/no questions on a terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter reads answers from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

var stdPrompter = NewPrompter(os.Stdin, os.Stdout)

// Confirm prompts on the terminal. Returns true for yes.
func Confirm(prompt string) bool { return stdPrompter.Confirm(prompt) }

// ConfirmDanger is Confirm styled for destructive actions.
func ConfirmDanger(prompt string) bool { return stdPrompter.ConfirmDanger(prompt) }

// Confirm asks prompt and returns true for y or yes.
func (p *Prompter) Confirm(prompt string) bool {
	return p.ask(StyleWarning.Render(prompt))
}

// ConfirmDanger is like Confirm but styled with the error color.
func (p *Prompter) ConfirmDanger(prompt string) bool {
	return p.ask(StyleError.Render("⚠ " + prompt))
}

// ApproveAccount asks before a wallet account is exposed to the session.
// It has the shape of wallet.ApproveFunc.
func (p *Prompter) ApproveAccount(w *wallet.Wallet) bool {
	return p.Confirm(fmt.Sprintf("Connect bidcli to %s (%s)?", w.Name, TruncateAddr(w.Address)))
}

func (p *Prompter) ask(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	line, _ := p.in.ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}
