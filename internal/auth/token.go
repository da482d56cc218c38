// Package auth supplies access tokens to the transport and banking clients.
// Tokens are issued elsewhere; this package only reads them.
package auth

// TokenProvider returns the current access token, or "" when the user has no
// authenticated session.
type TokenProvider interface {
	Token() string
}

// TokenFunc adapts a plain function to a TokenProvider.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Static returns a provider that always yields tok.
func Static(tok string) TokenProvider {
	return TokenFunc(func() string { return tok })
}
