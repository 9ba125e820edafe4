/*
Package tandemsdk is a Go client for the tandem language-exchange service,
plus the request and response types the service itself encodes.

The service authenticates with an opaque session cookie named "user". A
Client keeps its own cookie jar, so logging in once authenticates every
later call made with the same Client:

	c := tandemsdk.NewClient("http://localhost:8080")

	if _, err := c.Register(ctx, tandemsdk.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret",
	}, nil); err != nil {
		return err
	}

	// ...the user follows the verification link...

	if _, err := c.Login(ctx, "alice", "secret"); err != nil {
		return err
	}
	matches, err := c.Matches(ctx, []string{"French"}, 20)

Failed calls return *APIError carrying the HTTP status and the service's
error code, so callers can branch on Code:

	var apiErr *tandemsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == tandemsdk.ErrorCodeBlocked {
		// ...
	}
*/
package tandemsdk
