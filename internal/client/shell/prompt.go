package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atinyakov/GophTodo/internal/models"
)

// errInputClosed is returned when stdin ends in the middle of a prompt.
var errInputClosed = errors.New("input closed")

// Prompter reads answers line by line from one scanner shared with the REPL.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter returns a Prompter reading from in and printing labels to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Line prints label and returns the next trimmed line.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// Credentials asks for an email and a password.
func (p *Prompter) Credentials() (models.Credentials, error) {
	email, err := p.Line("Email: ")
	if err != nil {
		return models.Credentials{}, err
	}
	password, err := p.Line("Password: ")
	if err != nil {
		return models.Credentials{}, err
	}
	return models.Credentials{Email: email, Password: password}, nil
}

// Todo asks for a description and a due date. With a non-nil current item an
// empty answer keeps the current value.
func (p *Prompter) Todo(current *models.Todo) (models.Todo, error) {
	var t models.Todo
	if current != nil {
		t = *current
	}

	label := "Description: "
	if current != nil {
		label = fmt.Sprintf("Description [%s]: ", current.Description)
	}
	desc, err := p.Line(label)
	if err != nil {
		return t, err
	}
	if desc != "" || current == nil {
		t.Description = desc
	}

	label = "Due date (YYYY-MM-DD): "
	if current != nil {
		label = fmt.Sprintf("Due date (YYYY-MM-DD) [%s]: ", current.DueDate)
	}
	due, err := p.Line(label)
	if err != nil {
		return t, err
	}
	switch {
	case due != "":
		d, err := models.ParseDate(due)
		if err != nil {
			return t, err
		}
		t.DueDate = d
	case current == nil:
		t.DueDate = models.Date{}
	}
	return t, nil
}
