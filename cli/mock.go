package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/amjido-01/webTray-sub001/client/auth/mock"
)

const defaultMockUser = "vendor@webtray.test:password:Demo Store"

// MockCommand serves the mock backend until interrupted
type MockCommand struct {
	Addr      string        `short:"a" long:"addr" description:"listen address" default:"127.0.0.1:8080"`
	Users     []string      `long:"user" description:"seed user as email:password[:store,store]"`
	AccessTTL time.Duration `long:"access-ttl" description:"access token lifetime" default:"15m"`
	Origins   []string      `long:"origin" description:"browser origin allowed to call the backend, * for any"`
	app       *App
}

func (c *MockCommand) Execute(_ []string) error {
	backend, err := c.backend()
	if err != nil {
		return err
	}
	server := &http.Server{Addr: c.Addr, Handler: backend, ReadHeaderTimeout: 10 * time.Second}
	ctx, cancel := signal.NotifyContext(c.app.ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = server.Shutdown(shutdownCtx)
	}()
	c.app.logger.Info().Str("addr", c.Addr).Int("users", len(c.users())).Msg("mock backend listening")
	fmt.Fprintf(c.app.out, "mock backend on http://%v\n", c.Addr)
	if err = server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (c *MockCommand) users() []string {
	if len(c.Users) == 0 {
		return []string{defaultMockUser}
	}
	return c.Users
}

func (c *MockCommand) backend() (*mock.Backend, error) {
	var options []mock.Option
	if c.AccessTTL > 0 {
		options = append(options, mock.WithAccessTTL(c.AccessTTL))
	}
	if len(c.Origins) > 0 {
		options = append(options, mock.WithCors(c.Origins...))
	}
	ret := mock.New(options...)
	for _, seed := range c.users() {
		email, password, stores, err := parseUser(seed)
		if err != nil {
			return nil, err
		}
		ret.AddUser(email, password, stores...)
	}
	return ret, nil
}

// parseUser parses email:password[:store,store]
func parseUser(seed string) (string, string, []string, error) {
	parts := strings.SplitN(seed, ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", nil, fmt.Errorf("invalid user %q, expected email:password[:store,store]", seed)
	}
	var stores []string
	if len(parts) == 3 {
		for _, name := range strings.Split(parts[2], ",") {
			if name = strings.TrimSpace(name); name != "" {
				stores = append(stores, name)
			}
		}
	}
	return parts[0], parts[1], stores, nil
}
