package auth

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-mock-auth-server/oauth2"
	"github.com/jrsteele09/go-mock-auth-server/token"
)

const (
	ContentTypeHTML = "text/html"
	ContentTypeJSON = "application/json;charset=UTF-8"
)

// Response is the fully rendered answer for an Outcome. An empty ContentType
// means no Content-Type header is set.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Outcome is the result of evaluating a token request. Exactly one of the
// concrete types below is returned by Decide.
type Outcome interface {
	// Name is a stable identifier used for logs and metrics labels.
	Name() string
	Response() Response
	outcome()
}

func notAcceptable(body string) Response {
	return Response{Status: http.StatusNotAcceptable, ContentType: ContentTypeHTML, Body: []byte(body)}
}

// HeaderCheckFailed: Content-Type or Accept missing or not the required value.
type HeaderCheckFailed struct{}

func (HeaderCheckFailed) Name() string       { return "header_check_failed" }
func (HeaderCheckFailed) Response() Response { return notAcceptable("header failure") }
func (HeaderCheckFailed) outcome()           {}

// GrantTypeMissing: no grant_type parameter.
type GrantTypeMissing struct{}

func (GrantTypeMissing) Name() string       { return "grant_type_missing" }
func (GrantTypeMissing) Response() Response { return notAcceptable("grantType == null") }
func (GrantTypeMissing) outcome()           {}

// UnknownGrantType: grant_type is neither the API key URN nor refresh_token.
type UnknownGrantType struct {
	GrantType string
}

func (UnknownGrantType) Name() string { return "unknown_grant_type" }
func (o UnknownGrantType) Response() Response {
	return notAcceptable("wrong grant_type: " + o.GrantType)
}
func (UnknownGrantType) outcome() {}

// APIKeyMissing: API key grant without an apikey parameter.
type APIKeyMissing struct{}

func (APIKeyMissing) Name() string       { return "apikey_missing" }
func (APIKeyMissing) Response() Response { return notAcceptable("apiKey == null") }
func (APIKeyMissing) outcome()           {}

// APIKeyRejected: apikey=invalid.
type APIKeyRejected struct{}

func (APIKeyRejected) Name() string { return "apikey_rejected" }
func (APIKeyRejected) Response() Response {
	return Response{Status: http.StatusBadRequest, ContentType: ContentTypeHTML}
}
func (APIKeyRejected) outcome() {}

// APIKeyNoContent: apikey=no_content, answered with an empty 200.
type APIKeyNoContent struct{}

func (APIKeyNoContent) Name() string       { return "apikey_no_content" }
func (APIKeyNoContent) Response() Response { return Response{Status: http.StatusOK} }
func (APIKeyNoContent) outcome()           {}

// UnknownAPIKey: apikey is not one of the sentinel values.
type UnknownAPIKey struct {
	APIKey string
}

func (UnknownAPIKey) Name() string { return "unknown_apikey" }
func (o UnknownAPIKey) Response() Response {
	return notAcceptable("unknown key: " + o.APIKey)
}
func (UnknownAPIKey) outcome() {}

// RefreshTokenMissing: refresh grant without a refresh_token parameter.
type RefreshTokenMissing struct{}

func (RefreshTokenMissing) Name() string       { return "refresh_token_missing" }
func (RefreshTokenMissing) Response() Response { return notAcceptable("refreshToken == null") }
func (RefreshTokenMissing) outcome()           {}

// UnknownRefreshToken: refresh_token was not issued by this server. Echo is
// the value reported back to the client.
type UnknownRefreshToken struct {
	Echo string
}

func (UnknownRefreshToken) Name() string { return "unknown_refresh_token" }
func (o UnknownRefreshToken) Response() Response {
	return notAcceptable("unknown refresh_token: " + o.Echo)
}
func (UnknownRefreshToken) outcome() {}

// MalformedSequence: refresh_token has our prefix but its suffix is not a
// usable integer. This is a server-side fault.
type MalformedSequence struct {
	Suffix string
	Err    error
}

func (MalformedSequence) Name() string { return "malformed_sequence" }
func (o MalformedSequence) Response() Response {
	return Response{
		Status:      http.StatusInternalServerError,
		ContentType: ContentTypeHTML,
		Body:        []byte("malformed refresh_token sequence: " + o.Suffix),
	}
}
func (MalformedSequence) outcome() {}

// TokensIssued: a token pair was issued, either fresh (sequence 0) or by refresh.
type TokensIssued struct {
	Grant oauth2.GrantType
	Pair  token.Pair
}

func (TokensIssued) Name() string { return "tokens_issued" }
func (o TokensIssued) Response() Response {
	return Response{
		Status:      http.StatusOK,
		ContentType: ContentTypeJSON,
		Body:        encodeTokenResponse(oauth2.NewTokenResponse(o.Pair.AccessToken, o.Pair.RefreshToken)),
	}
}
func (TokensIssued) outcome() {}

func encodeTokenResponse(resp oauth2.TokenResponse) []byte {
	data, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		// TokenResponse only holds strings and integers.
		panic(fmt.Sprintf("encode token response: %v", err))
	}
	return append(data, '\n')
}
