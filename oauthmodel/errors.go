package oauthmodel

import "errors"

var (
	ErrNilRequest    = errors.New("nil http request")
	ErrMalformedForm = errors.New("malformed form body")
)
