package oauthmodel

import (
	"fmt"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/jrsteele09/go-mock-auth-server/internal/utils"
	"github.com/jrsteele09/go-mock-auth-server/oauth2"
)

// TokenRequest is the transport-independent view of a request to the token
// endpoint. It is built once per request and discarded after the response
// has been written.
type TokenRequest struct {
	// Method is the HTTP method, e.g. "POST".
	Method string

	// URI is the request URI as sent by the client, including the query.
	URI string

	// RemoteAddr is the client's host:port.
	RemoteAddr string

	// Header holds the request headers. Lookups are case-insensitive and
	// the first value of a repeated header wins.
	Header http.Header

	// Params holds query and form body parameters merged, query values first.
	Params url.Values
}

// FromHTTPRequest parses the form body of r and captures everything the token
// endpoint decides on. A malformed body is reported alongside the partially
// parsed request so the caller can log it and carry on with what was read.
func FromHTTPRequest(r *http.Request) (TokenRequest, error) {
	if r == nil {
		return TokenRequest{}, ErrNilRequest
	}
	var parseErr error
	if err := r.ParseForm(); err != nil {
		parseErr = fmt.Errorf("%w: %w", ErrMalformedForm, err)
	}
	params := url.Values{}
	for name, values := range r.URL.Query() {
		params[name] = append(params[name], values...)
	}
	for name, values := range r.PostForm {
		params[name] = append(params[name], values...)
	}
	return TokenRequest{
		Method:     r.Method,
		URI:        r.RequestURI,
		RemoteAddr: r.RemoteAddr,
		Header:     r.Header.Clone(),
		Params:     params,
	}, parseErr
}

// HeaderValue returns the first value of the named header and whether it was present.
func (t TokenRequest) HeaderValue(name string) (string, bool) {
	values := t.Header[textproto.CanonicalMIMEHeaderKey(name)]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Param returns the first value of the named parameter, or nil when absent.
// A parameter sent with an empty value is present and yields a pointer to "".
func (t TokenRequest) Param(name string) *string {
	values, ok := t.Params[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return utils.Ptr(values[0])
}

func (t TokenRequest) GrantType() *string {
	return t.Param(oauth2.ParamGrantType)
}

func (t TokenRequest) APIKey() *string {
	return t.Param(oauth2.ParamAPIKey)
}

func (t TokenRequest) RefreshToken() *string {
	return t.Param(oauth2.ParamRefreshToken)
}
