// Package rest provides typed JSON helpers on top of httpclient.Client.
//
//	client, _ := rest.New(httpclient.Config{BaseURL: "https://api.example.com"},
//	    httpclient.WithTransport(engine))
//
//	// Typed GET
//	user, err := rest.Get[User](ctx, client, "users/123")
//
//	// Typed POST
//	created, err := rest.Post[User](ctx, client, "users", CreateUserRequest{Name: "Alice"})
package rest
