package cli

import "github.com/amjido-01/webTray-sub001/client"

// Options are the global webtray options and commands
type Options struct {
	Config   string `short:"c" long:"config" description:"yaml config location, flags take precedence"`
	LogLevel string `long:"log-level" description:"log level" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"warn"`
	client.Options

	Login  LoginCommand  `command:"login" description:"sign in and persist the session"`
	WhoAmI WhoAmICommand `command:"whoami" description:"validate the session and print the signed in user"`
	Logout LogoutCommand `command:"logout" description:"end the session"`
	Get    GetCommand    `command:"get" description:"GET a backend path through the authenticated pipeline"`
	Stores StoresCommand `command:"stores" description:"list stores or select the active one"`
	Mock   MockCommand   `command:"mock" description:"run a mock webtray backend"`
}

func (o *Options) bind(app *App) {
	o.Login.app = app
	o.WhoAmI.app = app
	o.Logout.app = app
	o.Get.app = app
	o.Stores.app = app
	o.Mock.app = app
}
