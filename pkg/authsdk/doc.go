/*
Package authsdk is a Go client for the Noteful authentication service.

	client := authsdk.NewClient("http://localhost:8080")

	// Register, then log in.
	user, err := client.CreateUser(ctx, authsdk.CreateUserRequest{
		Username: "bob",
		Password: "correct-horse",
		Fullname: "Bob Smith",
	})
	session, err := client.AuthenticateWithPassword(ctx, "bob", "correct-horse")

	// Token returns a usable auth token, refreshing it first when it is
	// close to expiry.
	token, err := session.Token(ctx)

Failed calls return *APIError carrying the status code and the server's
reason and message. Use IsUnauthorized to detect rejected credentials or
tokens.
*/
package authsdk
