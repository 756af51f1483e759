package server

import (
	"net/http"
	"sort"

	"github.com/jrsteele09/go-mock-auth-server/auth"
	"github.com/jrsteele09/go-mock-auth-server/internal/utils"
	"github.com/jrsteele09/go-mock-auth-server/oauthmodel"
	"github.com/rs/zerolog"
)

// Token serves the mock token endpoint. Every answer is derived from the
// request alone; nothing is remembered between calls.
func (s *Server) Token() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())

		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "405 - Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		req, err := oauthmodel.FromHTTPRequest(r)
		if err != nil {
			logger.Warn().Err(err).Msg("Token: continuing with partially parsed form")
		}
		logTokenRequest(logger, req)

		outcome := auth.Decide(req, s.authOptions)
		resp := outcome.Response()
		s.metrics.ObserveTokenResponse(outcome.Name(), resp.Status)

		if malformed, ok := outcome.(auth.MalformedSequence); ok {
			logger.Error().Err(malformed.Err).Msg("Token: refresh token sequence could not be advanced")
		} else {
			logger.Info().Str("outcome", outcome.Name()).Int("status", resp.Status).Msg("Token: responded")
		}

		writeResponse(w, resp)
	}
}

func writeResponse(w http.ResponseWriter, resp auth.Response) {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.Status)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}

// logTokenRequest writes one debug line per header and parameter seen.
func logTokenRequest(logger *zerolog.Logger, req oauthmodel.TokenRequest) {
	if logger.GetLevel() > zerolog.DebugLevel {
		return
	}
	for _, name := range sortedKeys(req.Header) {
		value, _ := req.HeaderValue(name)
		logger.Debug().Str("header", name).Str("value", value).Msg("Token: request header")
	}
	for _, name := range sortedKeys(req.Params) {
		logger.Debug().Str("param", name).Str("value", utils.Value(req.Param(name))).Msg("Token: request parameter")
	}
}

func sortedKeys[M ~map[string][]string](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
