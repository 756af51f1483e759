package auth

import (
	"strings"

	"github.com/jrsteele09/go-mock-auth-server/internal/errors"
	"github.com/jrsteele09/go-mock-auth-server/internal/utils"
	"github.com/jrsteele09/go-mock-auth-server/oauth2"
	"github.com/jrsteele09/go-mock-auth-server/oauthmodel"
	"github.com/jrsteele09/go-mock-auth-server/token"
)

// Required header values, compared case-insensitively against the whole value.
const (
	RequiredContentType = "application/x-www-form-urlencoded"
	RequiredAccept      = "application/json"
)

// Options holds compatibility switches for Decide.
type Options struct {
	// EchoAPIKeyOnUnknownRefresh makes the "unknown refresh_token" answer
	// report the apikey parameter (or "null") instead of the refresh token,
	// matching older test suites that assert on that text.
	EchoAPIKeyOnUnknownRefresh bool
}

// Decide evaluates a token request and returns the matching outcome. It has
// no side effects and keeps no state between calls.
func Decide(req oauthmodel.TokenRequest, opts Options) Outcome {
	if !HeadersAcceptable(req) {
		return HeaderCheckFailed{}
	}

	grantType := req.GrantType()
	if grantType == nil {
		return GrantTypeMissing{}
	}

	switch oauth2.GrantType(*grantType) {
	case oauth2.APIKeyGrant:
		return decideAPIKey(req.APIKey())
	case oauth2.RefreshTokenGrant:
		return decideRefresh(req, opts)
	default:
		return UnknownGrantType{GrantType: *grantType}
	}
}

// HeadersAcceptable reports whether Content-Type and Accept carry exactly the
// values the token endpoint requires.
func HeadersAcceptable(req oauthmodel.TokenRequest) bool {
	contentType, ok := req.HeaderValue("Content-Type")
	if !ok || !strings.EqualFold(contentType, RequiredContentType) {
		return false
	}
	accept, ok := req.HeaderValue("Accept")
	return ok && strings.EqualFold(accept, RequiredAccept)
}

func decideAPIKey(apiKey *string) Outcome {
	if apiKey == nil {
		return APIKeyMissing{}
	}
	switch *apiKey {
	case oauth2.APIKeyInvalid:
		return APIKeyRejected{}
	case oauth2.APIKeyNoContent:
		return APIKeyNoContent{}
	case oauth2.APIKeyValid:
		return TokensIssued{Grant: oauth2.APIKeyGrant, Pair: token.NewPair(0)}
	default:
		return UnknownAPIKey{APIKey: *apiKey}
	}
}

func decideRefresh(req oauthmodel.TokenRequest, opts Options) Outcome {
	refreshToken := req.RefreshToken()
	if refreshToken == nil {
		return RefreshTokenMissing{}
	}

	pair, err := token.NextSequence(*refreshToken)
	switch {
	case err == nil:
		return TokensIssued{Grant: oauth2.RefreshTokenGrant, Pair: pair}
	case errors.Is(err, errors.ErrMalformedSequence):
		return MalformedSequence{
			Suffix: strings.TrimPrefix(*refreshToken, token.RefreshTokenPrefix),
			Err:    err,
		}
	}

	echo := *refreshToken
	if opts.EchoAPIKeyOnUnknownRefresh {
		echo = utils.ValueOr(req.APIKey(), "null")
	}
	return UnknownRefreshToken{Echo: echo}
}
