package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"

	"github.com/ezsplit/ezsplit-go/internal/client"
	"github.com/ezsplit/ezsplit-go/internal/config"
	"github.com/ezsplit/ezsplit-go/internal/session"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	cfg    *config.Config
	client *client.Client
	gate   *session.Gate

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	apiURL      *url.URL
	jar         *cookiejar.Jar
	sessionFile string
}

func newApp(cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	apiURL, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", cfg.APIBaseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		gate:   session.New(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		apiURL: apiURL,
		jar:    jar,
	}

	if a.sessionFile, err = sessionFilePath(cfg); err != nil {
		return nil, err
	}
	a.restoreSession()

	a.client, err = client.New(cfg,
		client.WithHTTPClient(&http.Client{Jar: jar, Timeout: cfg.RequestTimeout}),
		client.WithUnauthorizedHook(a.gate.Clear),
		client.WithLogger(zerolog.New(stderr).Level(zerolog.WarnLevel)),
	)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// close persists the cookie jar so the session survives this invocation.
func (a *app) close() {
	a.persistSession()
}

func sessionFilePath(cfg *config.Config) (string, error) {
	if cfg.SessionFile != "" {
		return cfg.SessionFile, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate a config directory, set EZSPLIT_SESSION_FILE: %w", err)
	}

	return filepath.Join(dir, "ezsplit", "session.json"), nil
}

// storedCookie is the on-disk shape of one persisted cookie.
type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (a *app) restoreSession() {
	raw, err := os.ReadFile(a.sessionFile)
	if err != nil {
		// No stored session is the normal first-run case.
		return
	}

	var stored []storedCookie
	if err := json.Unmarshal(raw, &stored); err != nil {
		return
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}

	a.jar.SetCookies(a.apiURL, cookies)
}

func (a *app) persistSession() {
	cookies := a.jar.Cookies(a.apiURL)

	if len(cookies) == 0 {
		// Logged out or session cleared server-side.
		_ = os.Remove(a.sessionFile)
		return
	}

	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(a.sessionFile), 0o700); err != nil {
		return
	}

	// The cookie is a credential, keep it private to the user.
	_ = os.WriteFile(a.sessionFile, raw, 0o600)
}

// resolveGate settles the session gate with one probe against the backend.
func (a *app) resolveGate(ctx context.Context) {
	if user, err := a.client.Auth.Profile(ctx); err == nil {
		a.gate.Authenticate(session.User{ID: user.ID, Name: user.Name, Email: user.Email})
	} else {
		a.gate.ResolveUnauthenticated()
	}
}

// requireSession gates a protected command, mirroring a protected route.
func (a *app) requireSession(ctx context.Context) error {
	a.resolveGate(ctx)

	if a.gate.Evaluate(session.RequireAuthenticated) == session.RedirectToLogin {
		return fmt.Errorf("not signed in, run `ezsplit login` first")
	}

	return nil
}

// requireAnonymous gates login and register, mirroring an anonymous-only
// route.
func (a *app) requireAnonymous(ctx context.Context) error {
	a.resolveGate(ctx)

	if a.gate.Evaluate(session.RequireAnonymous) == session.RedirectToHome {
		user, _ := a.gate.User()
		return fmt.Errorf("already signed in as %s, run `ezsplit logout` first", user.Email)
	}

	return nil
}

// readPassword reads a password without echo when stdin is a terminal, and
// falls back to line reading for pipes and tests.
func (a *app) readPassword(prompt string) (string, error) {
	fmt.Fprint(a.stdout, prompt)

	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stdout)
		if err != nil {
			return "", err
		}

		return string(raw), nil
	}

	scanner := bufio.NewScanner(a.stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}
