// Package prompt asks yes/no questions on the terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
)

// ErrNotInteractive is returned when a confirmation is needed but stdin is
// not a terminal.
var ErrNotInteractive = errors.New("confirmation required: stdin is not a terminal, pass --yes")

// Confirmer answers yes/no questions.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Terminal confirms through promptui. Yes skips the question.
type Terminal struct {
	Yes    bool
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// Confirm asks question and reports whether the answer was yes. The default
// answer is no.
func (t Terminal) Confirm(question string) (bool, error) {
	if t.Yes {
		return true, nil
	}
	if t.Stdin == nil && !Interactive(os.Stdin) {
		return false, ErrNotInteractive
	}

	validate := func(input string) error {
		if input == "" {
			return nil
		}
		_, err := ParseBool(input)
		return err
	}

	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} [y/N]: ",
		Valid:   "{{ . | green }} [y/N]: ",
		Invalid: "{{ . | red }} [y/N]: ",
		Success: "{{ . | bold }} ",
	}

	p := promptui.Prompt{
		Label:     question,
		Templates: templates,
		Validate:  validate,
		Stdin:     t.Stdin,
		Stdout:    t.Stdout,
	}

	result, err := p.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrEOF) {
			return false, nil
		}
		return false, fmt.Errorf("prompt: %w", err)
	}
	if result == "" {
		return false, nil
	}
	yes, _ := ParseBool(result)
	return yes, nil
}

// Interactive reports whether f is a terminal.
func Interactive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ParseBool is strconv.ParseBool with the addition of Yes/No parsing.
func ParseBool(str string) (bool, error) {
	switch strings.TrimSpace(str) {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes", "s", "S", "sim", "Sim":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "NO", "No", "não", "Não":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}
