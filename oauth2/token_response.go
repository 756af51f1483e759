package oauth2

// Fixed values carried by every issued token pair.
const (
	DefaultScope      = "ibm openid"
	DefaultExpiration = int64(1577116347)
	DefaultTokenType  = "Bearer"
	DefaultExpiresIn  = 30
)

// TokenResponse represents the response from a successful token request.
// Fields are declared in wire order; encoding/json preserves struct order, so
// clients that compare the raw body see access_token first and expires_in last.
type TokenResponse struct {
	// AccessToken carries the sequence number as a decimal suffix.
	// Example: "2YotnFZFEjr1zCsicMWpAA_access_0"
	AccessToken string `json:"access_token"`

	// RefreshToken is sent back with grant_type=refresh_token to obtain the next pair.
	// Example: "2YotnFZFEjr1zCsicMWpAA_refresh_0"
	RefreshToken string `json:"refresh_token"`

	// Scope is always "ibm openid".
	Scope string `json:"scope"`

	// Expiration is a fixed epoch-seconds literal, never enforced.
	Expiration int64 `json:"expiration"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is a fixed lifetime hint in seconds.
	ExpiresIn int `json:"expires_in"`
}

// NewTokenResponse builds a response for the given token pair with the fixed
// scope, expiration and type values.
func NewTokenResponse(accessToken, refreshToken string) TokenResponse {
	return TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Scope:        DefaultScope,
		Expiration:   DefaultExpiration,
		TokenType:    DefaultTokenType,
		ExpiresIn:    DefaultExpiresIn,
	}
}
