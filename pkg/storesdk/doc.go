/*
Package storesdk is a Go client for the storefront HTTP API.

The API authenticates with an HTTP-only session cookie, so a Client keeps a
cookie jar: a successful Login stores the cookie and every later call sends it.

	client := storesdk.NewClient("http://localhost:8081")

	if err := client.Login(ctx, storesdk.LoginRequest{Email: email, Password: password}); err != nil {
		var apiErr *httpx.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			// wrong email or password
		}
	}

	me, err := client.Me(ctx)
	products, err := client.ListProducts(ctx)

# Errors

Every non-2xx response is returned as *httpx.APIError carrying the status code
and the server's message, e.g. "Invalid Credentials" or "User not found".

# Session inspection

SessionClaims decodes the stored cookie without verifying it. The result is
for display only; the server always verifies the signature.
*/
package storesdk
