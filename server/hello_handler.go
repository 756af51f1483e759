package server

import (
	"crypto/tls"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-mock-auth-server/tlspolicy"
	"github.com/rs/zerolog"
)

type nameValue struct {
	Name  string
	Value string
}

// HelloPageData is rendered by the diagnostic echo page.
type HelloPageData struct {
	Method      string
	URI         string
	Proto       string
	Scheme      string
	Host        string
	RemoteAddr  string
	TLSVersion  string
	CipherSuite string
	Headers     []nameValue
	Params      []nameValue
}

// Hello echoes the request back as an HTML page so test suites can check
// what actually reached the server.
func (s *Server) Hello() http.HandlerFunc {
	tmpl, err := ParseTemplate("hello.html")
	if err != nil {
		panic("Failed to parse hello template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "405 - Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Hello: malformed query")
		}

		data := HelloPageData{
			Method:     r.Method,
			URI:        r.RequestURI,
			Proto:      r.Proto,
			Scheme:     getScheme(r),
			Host:       r.Host,
			RemoteAddr: r.RemoteAddr,
		}
		if r.TLS != nil {
			data.TLSVersion = tlspolicy.VersionName(r.TLS.Version)
			data.CipherSuite = tls.CipherSuiteName(r.TLS.CipherSuite)
		}
		for _, name := range sortedKeys(r.Header) {
			data.Headers = append(data.Headers, nameValue{Name: name, Value: strings.Join(r.Header[name], ", ")})
		}
		for _, name := range sortedKeys(r.Form) {
			data.Params = append(data.Params, nameValue{Name: name, Value: strings.Join(r.Form[name], ", ")})
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			zerolog.Ctx(r.Context()).Err(err).Msg("Hello: failed to render template")
		}
	}
}
