// Package client assembles the webtray client: backend API, persisted session,
// hydration gate, auth initializer and the authenticated http pipeline.
//
// Example:
//
//	cli, err := client.New(ctx, &client.Options{URL: "https://api.webtray.example", SessionURL: "file:///tmp/session.json"})
//	if err != nil {
//		return err
//	}
//	if err = cli.Start(ctx); err != nil {
//		return err
//	}
//	products, err := api.Call[[]*Product](ctx, cli.API(), cli.HTTPClient(), http.MethodGet, "/stores/"+id+"/inventory", nil)
package client
