package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/amjido-01/webTray-sub001/client/auth/session"
	"github.com/amjido-01/webTray-sub001/schema"
)

var errNotLoggedIn = errors.New("not logged in, run: webtray login")

// LoginCommand signs in with email and password
type LoginCommand struct {
	Email    string `short:"e" long:"email" description:"account email" required:"true"`
	Password string `short:"p" long:"password" description:"account password" env:"WEBTRAY_PASSWORD"`
	app      *App
}

func (c *LoginCommand) Execute(_ []string) error {
	if c.Password == "" {
		return errors.New("password was empty, use --password or WEBTRAY_PASSWORD")
	}
	cli, err := c.app.open()
	if err != nil {
		return err
	}
	if err = cli.Login(c.app.ctx, c.Email, c.Password); err != nil {
		return err
	}
	state := cli.Session().State()
	fmt.Fprintf(c.app.out, "logged in as %v\n", state.User.FullName())
	printActiveStore(c.app, &state)
	return nil
}

// WhoAmICommand prints the signed in user
type WhoAmICommand struct {
	app *App
}

func (c *WhoAmICommand) Execute(_ []string) error {
	cli, err := c.app.open()
	if err != nil {
		return err
	}
	result := cli.Initializer().Result()
	if !result.LoggedIn {
		return errNotLoggedIn
	}
	state := cli.Session().State()
	out := c.app.out
	if state.User != nil {
		fmt.Fprintf(out, "name:  %v\n", state.User.FullName())
		fmt.Fprintf(out, "email: %v\n", state.User.Email)
		fmt.Fprintf(out, "role:  %v\n", state.User.Role)
	}
	fmt.Fprintf(out, "business: %v\n", state.HasBusiness)
	printActiveStore(c.app, &state)
	if result.Err != nil {
		fmt.Fprintf(out, "warning: session not validated: %v\n", result.Err)
	}
	return nil
}

// LogoutCommand ends the session
type LogoutCommand struct {
	app *App
}

func (c *LogoutCommand) Execute(_ []string) error {
	cli, err := c.app.open()
	if err != nil {
		return err
	}
	if err = cli.Logout(c.app.ctx); err != nil {
		// the local session is gone either way
		c.app.logger.Warn().Err(err).Msg("backend logout failed")
	}
	fmt.Fprintln(c.app.out, "logged out")
	return nil
}

// GetCommand fetches a backend path and prints its body
type GetCommand struct {
	Args struct {
		Path string `positional-arg-name:"path" description:"backend path, e.g. /user/profile"`
	} `positional-args:"yes" required:"yes"`
	app *App
}

func (c *GetCommand) Execute(_ []string) error {
	cli, err := c.app.open()
	if err != nil {
		return err
	}
	var body json.RawMessage
	if err = cli.API().Do(c.app.ctx, cli.HTTPClient(), http.MethodGet, c.Args.Path, nil, &body); err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	formatted := &bytes.Buffer{}
	if err = json.Indent(formatted, body, "", "  "); err != nil {
		formatted = bytes.NewBuffer(body)
	}
	formatted.WriteByte('\n')
	_, err = formatted.WriteTo(c.app.out)
	return err
}

// StoresCommand lists the user's stores, or selects the active one
type StoresCommand struct {
	Select string `long:"select" description:"store id or slug to make active"`
	app    *App
}

func (c *StoresCommand) Execute(_ []string) error {
	cli, err := c.app.open()
	if err != nil {
		return err
	}
	if !cli.Session().IsLoggedIn() {
		return errNotLoggedIn
	}
	state := cli.Session().State()
	if c.Select != "" {
		aStore := findStore(state.Stores, c.Select)
		if aStore == nil {
			return fmt.Errorf("%w: %v", session.ErrUnknownStore, c.Select)
		}
		if err = cli.Session().SetActiveStore(aStore); err != nil {
			return err
		}
		state = cli.Session().State()
		printActiveStore(c.app, &state)
		return nil
	}
	for _, aStore := range state.Stores {
		marker := " "
		if state.ActiveStore != nil && state.ActiveStore.ID == aStore.ID {
			marker = "*"
		}
		fmt.Fprintf(c.app.out, "%v %v\t%v\t%v\n", marker, aStore.ID, aStore.Slug, aStore.Name)
	}
	return nil
}

func findStore(stores []*schema.Store, key string) *schema.Store {
	if ret := schema.FindStore(stores, key); ret != nil {
		return ret
	}
	for _, aStore := range stores {
		if strings.EqualFold(aStore.Slug, key) {
			return aStore
		}
	}
	return nil
}

func printActiveStore(app *App, state *session.State) {
	if state.ActiveStore == nil {
		fmt.Fprintln(app.out, "active store: none")
		return
	}
	fmt.Fprintf(app.out, "active store: %v (%v)\n", state.ActiveStore.Name, state.ActiveStore.ID)
}
