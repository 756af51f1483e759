package token

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-mock-auth-server/internal/errors"
)

// Token prefixes. The sequence number is appended as decimal text.
const (
	AccessTokenPrefix  = "2YotnFZFEjr1zCsicMWpAA_access_"
	RefreshTokenPrefix = "2YotnFZFEjr1zCsicMWpAA_refresh_"
)

// Pair is an access/refresh token couple sharing one sequence number.
type Pair struct {
	Sequence     int64
	AccessToken  string
	RefreshToken string
}

// AccessToken encodes sequence n as an access token.
func AccessToken(n int64) string {
	return AccessTokenPrefix + strconv.FormatInt(n, 10)
}

// RefreshToken encodes sequence n as a refresh token.
func RefreshToken(n int64) string {
	return RefreshTokenPrefix + strconv.FormatInt(n, 10)
}

// NewPair returns the token pair for sequence n.
func NewPair(n int64) Pair {
	return Pair{
		Sequence:     n,
		AccessToken:  AccessToken(n),
		RefreshToken: RefreshToken(n),
	}
}

// HasRefreshPrefix reports whether refreshToken was issued by this server,
// regardless of whether its suffix is a valid number.
func HasRefreshPrefix(refreshToken string) bool {
	return strings.HasPrefix(refreshToken, RefreshTokenPrefix)
}

// ParseRefreshSequence extracts the sequence number from a refresh token.
// The suffix accepts an optional sign and any number of leading zeros.
func ParseRefreshSequence(refreshToken string) (int64, error) {
	if !HasRefreshPrefix(refreshToken) {
		return 0, errors.ErrUnknownToken
	}
	suffix := strings.TrimPrefix(refreshToken, RefreshTokenPrefix)
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errors.ErrMalformedSequence, suffix)
	}
	return n, nil
}

// NextSequence returns the pair following the one encoded in refreshToken.
// Nothing is stored; the sequence is carried entirely by the token text.
func NextSequence(refreshToken string) (Pair, error) {
	n, err := ParseRefreshSequence(refreshToken)
	if err != nil {
		return Pair{}, err
	}
	if n == math.MaxInt64 {
		return Pair{}, fmt.Errorf("%w: sequence %d overflows", errors.ErrMalformedSequence, n)
	}
	return NewPair(n + 1), nil
}
