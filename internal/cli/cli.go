// Package cli implements the ezsplit command line client. Commands wrap the
// API services and render their results as tables; the session cookie is
// persisted between invocations so login survives across runs.
package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/ezsplit/ezsplit-go/internal/config"
)

const usage = `Usage: ezsplit <command> [arguments]

Session:
  login       sign in with email and password
  logout      destroy the current session
  whoami      show the signed-in user
  register    create a new account

Resources:
  groups      list, show, create, add-users, remove-users, delete
  expenses    list, show, create, delete, pay, balance
  categories  list, create, update, delete
  users       search
  invite      invite someone by email

The API endpoint is taken from EZSPLIT_API_URL (default http://localhost:4000).
`

// Run executes one CLI invocation. args excludes the program name.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("no command given")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	app, err := newApp(cfg, stdin, stdout, stderr)
	if err != nil {
		return err
	}
	defer app.close()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return app.login(rest)
	case "logout":
		return app.logout(rest)
	case "whoami":
		return app.whoami(rest)
	case "register":
		return app.register(rest)
	case "groups":
		return app.groups(rest)
	case "expenses":
		return app.expenses(rest)
	case "categories":
		return app.categories(rest)
	case "users":
		return app.users(rest)
	case "invite":
		return app.invite(rest)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return flag.ErrHelp
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
