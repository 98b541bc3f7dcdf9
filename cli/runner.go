package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/amjido-01/webTray-sub001/client"
	"github.com/amjido-01/webTray-sub001/internal/config"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
)

const defaultURL = "http://127.0.0.1:8080"

// App runs webtray commands
type App struct {
	ctx     context.Context
	options *Options
	out     io.Writer
	logger  zerolog.Logger
	client  *client.Client
}

// Run parses args and runs the selected command
func Run(args []string) error {
	return RunWith(context.Background(), args, os.Stdout)
}

// RunWith runs args writing command output to out
func RunWith(ctx context.Context, args []string, out io.Writer) error {
	app := &App{ctx: ctx, options: &Options{}, out: out, logger: zerolog.Nop()}
	app.options.bind(app)
	parser := flags.NewParser(app.options, flags.HelpFlag|flags.PassDoubleDash)
	parser.CommandHandler = app.handle
	_, err := parser.ParseArgs(args)
	if app.client != nil {
		_ = app.client.Close()
	}
	return err
}

func (a *App) handle(command flags.Commander, args []string) error {
	if command == nil {
		return nil
	}
	if err := a.configure(); err != nil {
		return err
	}
	return command.Execute(args)
}

func (a *App) configure() error {
	level, err := zerolog.ParseLevel(a.options.LogLevel)
	if err != nil {
		return err
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	if a.options.Config != "" {
		fileOptions := &client.Options{}
		if err = config.Load(a.ctx, a.options.Config, fileOptions); err != nil {
			return err
		}
		a.options.Options.Merge(fileOptions)
	}
	if a.options.URL == "" {
		a.options.URL = defaultURL
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	if a.options.SessionURL == "" && a.options.RedisAddr == "" {
		a.options.SessionURL = filepath.Join(home, ".webtray", "session.json")
	}
	if a.options.CookieURL == "" {
		a.options.CookieURL = filepath.Join(home, ".webtray", "cookies.json")
	}
	return nil
}

// open builds the client and waits for the session to be validated
func (a *App) open() (*client.Client, error) {
	cli, err := client.New(a.ctx, &a.options.Options, client.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	a.client = cli
	if err = cli.Start(a.ctx); err != nil {
		return nil, err
	}
	return cli, nil
}
