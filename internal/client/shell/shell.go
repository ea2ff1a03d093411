// Package shell is the interactive front end of the to-do client: a line
// oriented REPL that drives the auth service and the todo cache and turns
// their errors into short user-facing messages.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/GophTodo/internal/client/api"
	"github.com/atinyakov/GophTodo/internal/client/cache"
	"github.com/atinyakov/GophTodo/internal/client/todo"
	"github.com/atinyakov/GophTodo/internal/models"
)

// Authenticator is the auth service as seen by the shell.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, email, password string) error
	Logout() error
	CurrentUser(ctx context.Context) (*models.UserProfile, error)
}

// SessionState reports whether a token is held.
type SessionState interface {
	IsAuthenticated() bool
}

// Shell runs the REPL.
type Shell struct {
	auth    Authenticator
	todos   *cache.Cache
	session SessionState
	out     io.Writer
	log     *zap.Logger
}

// New wires a Shell. log may be nil.
func New(auth Authenticator, todos *cache.Cache, session SessionState, out io.Writer, log *zap.Logger) *Shell {
	if log == nil {
		log = zap.NewNop()
	}
	return &Shell{auth: auth, todos: todos, session: session, out: out, log: log}
}

const helpText = `Available commands:
  register            create an account
  login               log in
  logout              log out
  me                  show the current user
  list                reload and show todos
  add                 create a todo
  edit <id>           change description or due date
  done <id>           mark as done
  undone <id>         mark as not done
  delete <id>         delete a todo
  help                show this help
  exit                quit`

// Run reads commands from in until exit or end of input.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	p := NewPrompter(in, s.out)

	if s.session.IsAuthenticated() {
		s.refresh(ctx)
	}

	for {
		line, err := p.Line("todo> ")
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			s.println("Bye")
			return nil
		}
		if err := s.exec(ctx, p, args); err != nil {
			if errors.Is(err, errInputClosed) {
				return nil
			}
			return err
		}
	}
}

// exec runs one command. Only input failures are returned; everything else
// is reported to the user.
func (s *Shell) exec(ctx context.Context, p *Prompter, args []string) error {
	switch args[0] {
	case "help":
		s.println(helpText)
	case "register":
		return s.register(ctx, p)
	case "login":
		return s.login(ctx, p)
	case "logout":
		s.logout()
	case "me":
		s.me(ctx)
	case "list":
		if s.requireLogin() {
			s.refresh(ctx)
		}
	case "add":
		if s.requireLogin() {
			return s.add(ctx, p)
		}
	case "edit":
		if id, ok := s.idArg(args); ok {
			return s.edit(ctx, p, id)
		}
	case "done", "undone":
		if id, ok := s.idArg(args); ok {
			s.setDone(ctx, id, args[0] == "done")
		}
	case "delete":
		if id, ok := s.idArg(args); ok {
			s.delete(ctx, id)
		}
	default:
		s.println("Unknown command. Type 'help' for a list of commands.")
	}
	return nil
}

func (s *Shell) register(ctx context.Context, p *Prompter) error {
	creds, err := p.Credentials()
	if err != nil {
		return err
	}
	if err := s.auth.Register(ctx, creds.Email, creds.Password); err != nil {
		s.log.Debug("register failed", zap.Error(err))
		switch {
		case errors.Is(err, api.ErrNetwork):
			s.println("Cannot reach the server.")
		case api.StatusCode(err) == 409:
			s.println("Registration failed: that email is already registered.")
		default:
			s.println("Registration failed.")
		}
		return nil
	}
	s.println("Registered. You can log in now.")
	return nil
}

func (s *Shell) login(ctx context.Context, p *Prompter) error {
	creds, err := p.Credentials()
	if err != nil {
		return err
	}
	if _, err := s.auth.Login(ctx, creds.Email, creds.Password); err != nil {
		s.log.Debug("login failed", zap.Error(err))
		if errors.Is(err, api.ErrNetwork) {
			s.println("Cannot reach the server.")
		} else {
			s.println("Invalid email or password.")
		}
		return nil
	}
	s.todos.Reset()
	s.println("Logged in.")
	s.refresh(ctx)
	return nil
}

func (s *Shell) logout() {
	if err := s.auth.Logout(); err != nil {
		s.log.Warn("logout did not clear the stored token", zap.Error(err))
	}
	s.todos.Reset()
	s.println("Logged out.")
}

func (s *Shell) me(ctx context.Context) {
	if !s.requireLogin() {
		return
	}
	p, err := s.auth.CurrentUser(ctx)
	if err != nil {
		s.report(err, "Failed to load profile.")
		return
	}
	privs := make([]string, 0, len(p.Privileges))
	for _, a := range p.Privileges {
		privs = append(privs, a.Authority)
	}
	s.printf("#%d %s (%s) %s\n", p.ID, p.Email, p.UserRole, strings.Join(privs, ","))
}

func (s *Shell) refresh(ctx context.Context) {
	if err := s.todos.FetchAll(ctx); err != nil {
		s.report(err, s.todos.Status().Message)
		return
	}
	s.printTodos()
}

func (s *Shell) add(ctx context.Context, p *Prompter) error {
	draft, err := p.Todo(nil)
	if errors.Is(err, errInputClosed) {
		return err
	}
	if err == nil {
		err = todo.Validate(draft)
	}
	if err != nil {
		s.println("Invalid todo:", err)
		return nil
	}
	created, err := s.todos.Create(ctx, cache.NewRequestToken(), draft)
	if err != nil {
		s.report(err, cache.MsgCreateFailed)
		return nil
	}
	s.println("Created", formatTodo(created))
	return nil
}

func (s *Shell) edit(ctx context.Context, p *Prompter, id int64) error {
	current, ok := s.todos.Get(id)
	if !ok {
		s.println("Todo not found.")
		return nil
	}
	changed, err := p.Todo(&current)
	if errors.Is(err, errInputClosed) {
		return err
	}
	if err == nil {
		err = todo.Validate(changed)
	}
	if err != nil {
		s.println("Invalid todo:", err)
		return nil
	}
	updated, err := s.todos.Update(ctx, changed)
	if err != nil {
		s.report(err, cache.MsgUpdateFailed)
		return nil
	}
	s.println("Updated", formatTodo(updated))
	return nil
}

func (s *Shell) setDone(ctx context.Context, id int64, done bool) {
	current, ok := s.todos.Get(id)
	if !ok {
		s.println("Todo not found.")
		return
	}
	current.CheckMark = done
	updated, err := s.todos.Update(ctx, current)
	if err != nil {
		s.report(err, cache.MsgUpdateFailed)
		return
	}
	s.println("Updated", formatTodo(updated))
}

func (s *Shell) delete(ctx context.Context, id int64) {
	if err := s.todos.Delete(ctx, id); err != nil {
		s.report(err, cache.MsgDeleteFailed)
		return
	}
	s.println("Deleted.")
}

func (s *Shell) idArg(args []string) (int64, bool) {
	if !s.requireLogin() {
		return 0, false
	}
	if len(args) < 2 {
		s.printf("Usage: %s <id>\n", args[0])
		return 0, false
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		s.println("Invalid id:", args[1])
		return 0, false
	}
	return id, true
}

func (s *Shell) requireLogin() bool {
	if s.session.IsAuthenticated() {
		return true
	}
	s.println("Please log in first.")
	return false
}

// report prints msg, or a more specific hint for errors the user can act on.
func (s *Shell) report(err error, msg string) {
	s.log.Debug("action failed", zap.Error(err))
	switch {
	case errors.Is(err, cache.ErrInFlight):
		s.println("That item is still being saved.")
	case errors.Is(err, cache.ErrStale):
		// the view was reset; nothing to show
	case errors.Is(err, api.ErrAuthentication):
		s.println(msg, "Your session is no longer valid, please log in again.")
	case errors.Is(err, api.ErrNetwork):
		s.println(msg, "Cannot reach the server.")
	default:
		s.println(msg)
	}
}

func (s *Shell) printTodos() {
	todos := s.todos.Todos()
	if len(todos) == 0 {
		s.println("No todos.")
		return
	}
	for _, t := range todos {
		s.println(formatTodo(t))
	}
}

func formatTodo(t models.Todo) string {
	mark := " "
	if t.CheckMark {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] #%d %s (due %s", mark, t.ID, t.Description, t.DueDate)
	if t.CompletionDate != nil {
		line += ", done " + t.CompletionDate.String()
	}
	return line + ")"
}

func (s *Shell) println(a ...any) { fmt.Fprintln(s.out, a...) }

func (s *Shell) printf(format string, a ...any) { fmt.Fprintf(s.out, format, a...) }
