package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"narrator/internal/dashboard"
	"narrator/internal/library"
	"narrator/internal/session"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

type app struct {
	sessions *session.Manager
	projects library.Backend
	logger   *slog.Logger
	in       *bufio.Scanner
	out      io.Writer

	mu    sync.Mutex
	store *library.Store
	board *dashboard.Controller
}

func newApp(sessions *session.Manager, projects library.Backend, logger *slog.Logger, in io.Reader, out io.Writer) *app {
	a := &app{
		sessions: sessions,
		projects: projects,
		logger:   logger,
		in:       bufio.NewScanner(in),
		out:      out,
	}
	sessions.OnChange(a.bind)
	return a
}

// bind rebuilds the dashboard whenever the active session changes.
func (a *app) bind(current session.Session, active bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !active {
		a.store, a.board = nil, nil
		return
	}
	a.store = library.NewStore(a.projects, current, a.logger)
	a.board = dashboard.NewController(a.store)
}

func (a *app) dashboard() (*dashboard.Controller, *library.Store) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.board, a.store
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *app) readLine(prompt string) (string, bool) {
	a.printf("%s", prompt)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func (a *app) run(ctx context.Context) {
	a.printf("Narrator - create your immersive storybook\n")
	a.help()
	for {
		if ctx.Err() != nil {
			return
		}
		line, ok := a.readLine(a.promptLabel())
		if !ok {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if !a.dispatch(ctx, fields[0], fields[1:]) {
			a.printf("Bye!\n")
			return
		}
	}
}

func (a *app) promptLabel() string {
	if current, ok := a.sessions.Current(); ok {
		if current.IsGuest() {
			return "narrator (guest)> "
		}
		return fmt.Sprintf("narrator (%s)> ", current.Name)
	}
	return "narrator> "
}

// dispatch runs one command and reports whether the loop should continue.
func (a *app) dispatch(ctx context.Context, cmd string, args []string) bool {
	switch cmd {
	case "help":
		a.help()
	case "quit", "exit":
		return false
	case "login":
		a.signIn(ctx, a.readCredentials)
	case "google":
		a.signIn(ctx, func() (session.Input, bool) { return session.FederatedRequest{}, true })
	case "guest":
		a.signIn(ctx, func() (session.Input, bool) { return session.GuestRequest{}, true })
	case "logout":
		a.sessions.SignOut()
		a.printf("Signed out.\n")
	case "dashboard", "refresh":
		a.withDashboard(func(board *dashboard.Controller, store *library.Store) {
			board.Load(ctx)
			a.render(board.View())
		})
	case "new":
		a.withDashboard(func(board *dashboard.Controller, store *library.Store) {
			a.create(ctx, store, strings.Join(args, " "))
		})
	case "delete":
		a.withDashboard(func(board *dashboard.Controller, store *library.Store) {
			a.delete(ctx, board, store, args)
		})
	case "templates":
		a.withDashboard(func(board *dashboard.Controller, _ *library.Store) {
			a.renderTemplates(board.View())
		})
	case "open":
		a.withDashboard(func(board *dashboard.Controller, _ *library.Store) {
			a.open(board, args)
		})
	default:
		a.printf("Unknown command: %s\n", cmd)
	}
	return true
}

func (a *app) help() {
	if _, ok := a.sessions.Current(); ok {
		a.printf("Commands: dashboard, refresh, new <title>, delete <id>, templates, open <n>, logout, quit\n")
		return
	}
	a.printf("Commands: login, google, guest, quit\n")
}

func (a *app) withDashboard(fn func(*dashboard.Controller, *library.Store)) {
	board, store := a.dashboard()
	if board == nil {
		a.printf("Sign in first (login, google, or guest).\n")
		return
	}
	fn(board, store)
}

func (a *app) readCredentials() (session.Input, bool) {
	email, ok := a.readLine("Email: ")
	if !ok {
		return nil, false
	}
	a.printf("Password: ")
	password, err := readPassword()
	a.printf("\n")
	if err != nil {
		a.printf("Could not read password: %v\n", err)
		return nil, false
	}
	return session.Credentials{Email: email, Password: string(password)}, true
}

func (a *app) signIn(ctx context.Context, input func() (session.Input, bool)) {
	if _, ok := a.sessions.Current(); ok {
		a.printf("Already signed in. Use logout first.\n")
		return
	}
	if a.sessions.Pending() {
		a.printf("A sign-in is already in progress.\n")
		return
	}
	in, ok := input()
	if !ok {
		return
	}

	current, err := a.sessions.SignIn(ctx, in)
	if err != nil {
		var vErr *session.ValidationError
		var authErr *session.AuthError
		switch {
		case errors.As(err, &vErr):
			a.printf("%s\n", vErr.Message)
		case errors.As(err, &authErr):
			a.printf("%s\n", authErr.Message)
		case errors.Is(err, session.ErrSuperseded):
		default:
			a.printf("Sign-in failed: %v\n", err)
		}
		return
	}

	if current.Origin == session.OriginFederatedFallback {
		a.logger.Warn("signed in without backend account", "user_id", current.ID)
	}
	board, _ := a.dashboard()
	board.Load(ctx)
	a.render(board.View())
}

func (a *app) create(ctx context.Context, store *library.Store, title string) {
	if title == "" {
		a.printf("Usage: new <title>\n")
		return
	}
	project, err := store.Create(ctx, library.CreateInput{
		Title: title,
		Date:  time.Now().Format("Jan 2, 2006"),
		Pages: []byte("[]"),
	})
	if err != nil {
		a.printf("Could not save the story: %v\n", err)
		return
	}
	a.printf("Created %q (%s).\n", project.Title, project.ID)
}

func (a *app) delete(ctx context.Context, board *dashboard.Controller, store *library.Store, args []string) {
	if len(args) != 1 {
		a.printf("Usage: delete <id>\n")
		return
	}
	if !board.Delete(ctx, args[0], dashboard.ConfirmFunc(a.confirm)) {
		return
	}
	if store.Stale() {
		a.printf("The server did not confirm the deletion; run refresh to resync.\n")
	}
	a.render(board.View())
}

func (a *app) confirm(question string) bool {
	answer, ok := a.readLine(question + " [y/N] ")
	if !ok {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func (a *app) open(board *dashboard.Controller, args []string) {
	if len(args) != 1 {
		a.printf("Usage: open <n>\n")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		a.printf("Template number must be an integer.\n")
		return
	}
	doc, err := board.OpenTemplate(id)
	if err != nil {
		a.printf("%v\n", err)
		return
	}
	a.printf("Template document: %s\n", doc)
}

func (a *app) render(view dashboard.View) {
	a.printf("\n%s\n\nPrevious Projects\n", view.Greeting)
	for _, tile := range view.Tiles {
		switch tile.Kind {
		case dashboard.TileCreate:
			a.printf("  [+] %s (new <title>)\n", tile.Label())
		case dashboard.TileProject:
			a.printf("  %s  %s  %s\n", tile.Project.ID, tile.Label(), tile.Project.Date)
		default:
			a.printf("  %s\n", tile.Label())
		}
	}
	a.printf("\n")
	a.renderTemplates(view)
}

func (a *app) renderTemplates(view dashboard.View) {
	a.printf("Pre-prepared Albums\n")
	for _, tmpl := range view.Templates {
		a.printf("  %d. %s: %s\n", tmpl.ID, tmpl.Title, tmpl.Description)
	}
	a.printf("\n")
}

// consentPrompt prints the consent URL for the loopback sign-in flow.
func consentPrompt(w io.Writer) func(string) error {
	return func(consentURL string) error {
		_, err := fmt.Fprintf(w, "Open this link in your browser to sign in with Google:\n  %s\n", consentURL)
		return err
	}
}
