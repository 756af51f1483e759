package oauth2

// GrantType represents the OAuth-style grant type sent to the token endpoint.
// Determines which token-issuance branch is executed.
type GrantType string

const (
	// APIKeyGrant exchanges an API key for a fresh token pair.
	// Token request includes: grant_type, apikey
	// Returns: access_token and refresh_token with sequence 0
	APIKeyGrant GrantType = "urn:ibm:params:oauth:grant-type:apikey"

	// RefreshTokenGrant exchanges a refresh token for the next token pair.
	// Token request includes: grant_type, refresh_token
	// Returns: access_token and refresh_token with the sequence incremented by one
	RefreshTokenGrant GrantType = "refresh_token"
)

// Form parameter names accepted by the token endpoint.
const (
	ParamGrantType    = "grant_type"
	ParamAPIKey       = "apikey"
	ParamRefreshToken = "refresh_token"
)

// Sentinel API key values that select a canned response.
const (
	APIKeyValid     = "valid"
	APIKeyInvalid   = "invalid"
	APIKeyNoContent = "no_content"
)
