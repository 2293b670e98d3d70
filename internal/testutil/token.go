package testutil

// DefaultSessionToken is used when a scenario does not name its session.
const DefaultSessionToken = "test-session-default"

// FixedTokenGenerator always returns the same session token. It satisfies
// session.TokenGenerator.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a generator for token, or for
// DefaultSessionToken when token is empty.
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = DefaultSessionToken
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed token.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
