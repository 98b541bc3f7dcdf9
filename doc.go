// Package webtray is the Go client for the webtray inventory backend.
//
// The client package assembles everything a vendor dashboard or tool needs to talk to the
// backend: a persisted session that survives restarts, a gate that holds work until the
// session is loaded, a one-time validation of a restored session, and an http client
// that attaches the access token and transparently refreshes it on 401.
//
// Example:
//
//	cli, _ := client.New(ctx, &client.Options{URL: "https://api.webtray.example"})
//	_ = cli.Start(ctx)
//	_ = cli.Login(ctx, "vendor@example.com", password)
//	products, _ := api.Call[[]*Product](ctx, cli.API(), cli.HTTPClient(), http.MethodGet, path, nil)
//
// The cmd/webtray binary exposes the same operations on the command line.
package webtray
