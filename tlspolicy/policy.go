// Package tlspolicy turns protocol and cipher-suite allow/deny lists into a
// crypto/tls server configuration.
package tlspolicy

import (
	"crypto/tls"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/jrsteele09/go-mock-auth-server/internal/errors"
	"github.com/rs/zerolog"
)

// Protocol names as used in configuration.
const (
	SSLv3   = "SSLv3"
	TLSv1   = "TLSv1"
	TLSv1_1 = "TLSv1.1"
	TLSv1_2 = "TLSv1.2"
	TLSv1_3 = "TLSv1.3"
)

const versionSSL30 uint16 = 0x0300

var protocolVersions = map[string]uint16{
	SSLv3:     versionSSL30,
	TLSv1:     tls.VersionTLS10,
	"TLSv1.0": tls.VersionTLS10,
	TLSv1_1:   tls.VersionTLS11,
	TLSv1_2:   tls.VersionTLS12,
	TLSv1_3:   tls.VersionTLS13,
}

// supportedVersions lists, in order, the versions crypto/tls can serve.
var supportedVersions = []uint16{tls.VersionTLS10, tls.VersionTLS11, tls.VersionTLS12, tls.VersionTLS13}

// Defaults applied when configuration leaves a list unset.
var (
	DefaultIncludeProtocols = []string{TLSv1_2, TLSv1_1}
	DefaultExcludeProtocols = []string{SSLv3}
	DefaultExcludeCiphers   = []string{
		`^.*_(MD5|SHA|SHA1)$`,
		`^TLS_RSA_.*$`,
		`^.*_NULL_.*$`,
		`^.*_anon_.*$`,
	}
)

// Policy is an immutable set of protocol and cipher-suite rules. Exclusions
// always win over inclusions.
type Policy struct {
	include  []string
	exclude  []string
	patterns []string
	ciphers  []*regexp.Regexp
}

// New validates the protocol names and compiles the cipher exclude patterns.
// Patterns must match the whole suite name.
func New(includeProtocols, excludeProtocols, excludeCipherPatterns []string) (Policy, error) {
	for _, name := range slices.Concat(includeProtocols, excludeProtocols) {
		if _, ok := protocolVersions[name]; !ok {
			return Policy{}, fmt.Errorf("%w: unknown protocol %q", errors.ErrInvalidPolicy, name)
		}
	}

	ciphers := make([]*regexp.Regexp, 0, len(excludeCipherPatterns))
	for _, pattern := range excludeCipherPatterns {
		re, err := regexp.Compile(`^(?:` + pattern + `)$`)
		if err != nil {
			return Policy{}, fmt.Errorf("%w: cipher pattern %q: %w", errors.ErrInvalidPolicy, pattern, err)
		}
		ciphers = append(ciphers, re)
	}

	return Policy{
		include:  slices.Clone(includeProtocols),
		exclude:  slices.Clone(excludeProtocols),
		patterns: slices.Clone(excludeCipherPatterns),
		ciphers:  ciphers,
	}, nil
}

// Default returns the policy used when nothing is configured.
func Default() Policy {
	p, err := New(DefaultIncludeProtocols, DefaultExcludeProtocols, DefaultExcludeCiphers)
	if err != nil {
		panic("default tls policy: " + err.Error())
	}
	return p
}

func (p Policy) IncludeProtocols() []string      { return slices.Clone(p.include) }
func (p Policy) ExcludeProtocols() []string      { return slices.Clone(p.exclude) }
func (p Policy) ExcludeCipherPatterns() []string { return slices.Clone(p.patterns) }

// ExcludesCipher reports whether name matches any exclude pattern.
func (p Policy) ExcludesCipher(name string) bool {
	for _, re := range p.ciphers {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Effective is the outcome of applying a Policy to what crypto/tls supports.
type Effective struct {
	MinVersion uint16
	MaxVersion uint16
	Protocols  []string

	// CipherSuites are the offered TLS 1.0-1.2 suite IDs.
	CipherSuites []uint16
	Offered      []string
	Excluded     []string

	// FixedSuites are TLS 1.3 suites, which crypto/tls does not let a server
	// restrict. Only populated when TLS 1.3 is enabled.
	FixedSuites []string
}

// Effective computes the enabled protocol range and the offered suites.
func (p Policy) Effective() (Effective, error) {
	versions, err := p.enabledVersions()
	if err != nil {
		return Effective{}, err
	}

	eff := Effective{
		MinVersion: versions[0],
		MaxVersion: versions[len(versions)-1],
	}
	for _, v := range versions {
		eff.Protocols = append(eff.Protocols, VersionName(v))
	}

	for _, suite := range candidateSuites() {
		if isTLS13Only(suite) {
			if eff.MaxVersion < tls.VersionTLS13 {
				continue
			}
			if p.ExcludesCipher(suite.Name) {
				return Effective{}, fmt.Errorf("%w: TLS 1.3 suite %s matches an exclude pattern but cannot be disabled; exclude %s instead",
					errors.ErrInvalidPolicy, suite.Name, TLSv1_3)
			}
			eff.FixedSuites = append(eff.FixedSuites, suite.Name)
			continue
		}
		if !supportsAny(suite, eff.MinVersion, eff.MaxVersion) {
			continue
		}
		if p.ExcludesCipher(suite.Name) {
			eff.Excluded = append(eff.Excluded, suite.Name)
			continue
		}
		eff.CipherSuites = append(eff.CipherSuites, suite.ID)
		eff.Offered = append(eff.Offered, suite.Name)
	}

	if len(eff.CipherSuites) == 0 && eff.MinVersion < tls.VersionTLS13 {
		return Effective{}, fmt.Errorf("%w: every cipher suite for %s is excluded",
			errors.ErrInvalidPolicy, strings.Join(eff.Protocols, ", "))
	}
	return eff, nil
}

// ServerConfig builds the TLS configuration for the encrypted listener.
// Renegotiation is never offered: crypto/tls servers do not implement it.
func (p Policy) ServerConfig(certificates []tls.Certificate) (*tls.Config, Effective, error) {
	if len(certificates) == 0 {
		return nil, Effective{}, fmt.Errorf("%w: no server certificate", errors.ErrInvalidPolicy)
	}
	eff, err := p.Effective()
	if err != nil {
		return nil, Effective{}, err
	}
	return &tls.Config{
		Certificates: certificates,
		MinVersion:   eff.MinVersion,
		MaxVersion:   eff.MaxVersion,
		CipherSuites: slices.Clone(eff.CipherSuites),
		NextProtos:   []string{"http/1.1"},
	}, eff, nil
}

func (p Policy) enabledVersions() ([]uint16, error) {
	excluded := make(map[uint16]bool, len(p.exclude))
	for _, name := range p.exclude {
		excluded[protocolVersions[name]] = true
	}
	included := make(map[uint16]bool, len(p.include))
	for _, name := range p.include {
		included[protocolVersions[name]] = true
	}

	var versions []uint16
	for _, v := range supportedVersions {
		if included[v] && !excluded[v] {
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w: no protocol left after exclusions (include %v, exclude %v)",
			errors.ErrInvalidPolicy, p.include, p.exclude)
	}

	// crypto/tls takes a min/max range, so gaps cannot be expressed.
	first := slices.Index(supportedVersions, versions[0])
	for i, v := range versions {
		if supportedVersions[first+i] != v {
			return nil, fmt.Errorf("%w: enabled protocols must be contiguous, got %v",
				errors.ErrInvalidPolicy, namesOf(versions))
		}
	}
	return versions, nil
}

// VersionName returns the configuration name of a TLS version.
func VersionName(v uint16) string {
	switch v {
	case versionSSL30:
		return SSLv3
	case tls.VersionTLS10:
		return TLSv1
	case tls.VersionTLS11:
		return TLSv1_1
	case tls.VersionTLS12:
		return TLSv1_2
	case tls.VersionTLS13:
		return TLSv1_3
	}
	return fmt.Sprintf("0x%04x", v)
}

func namesOf(versions []uint16) []string {
	names := make([]string, 0, len(versions))
	for _, v := range versions {
		names = append(names, VersionName(v))
	}
	return names
}

// candidateSuites is everything crypto/tls implements, insecure suites
// included, so that only the exclude patterns decide what is offered.
func candidateSuites() []*tls.CipherSuite {
	return slices.Concat(tls.CipherSuites(), tls.InsecureCipherSuites())
}

func isTLS13Only(suite *tls.CipherSuite) bool {
	return len(suite.SupportedVersions) == 1 && suite.SupportedVersions[0] == tls.VersionTLS13
}

func supportsAny(suite *tls.CipherSuite, minVersion, maxVersion uint16) bool {
	for _, v := range suite.SupportedVersions {
		if v >= minVersion && v <= maxVersion && v < tls.VersionTLS13 {
			return true
		}
	}
	return false
}

// MarshalZerologObject writes the policy dump logged at startup.
func (e Effective) MarshalZerologObject(ev *zerolog.Event) {
	ev.Strs("protocols", e.Protocols).
		Str("min_version", VersionName(e.MinVersion)).
		Str("max_version", VersionName(e.MaxVersion)).
		Strs("offered_ciphers", e.Offered).
		Strs("excluded_ciphers", e.Excluded).
		Bool("renegotiation", false)
	if len(e.FixedSuites) > 0 {
		ev.Strs("tls13_ciphers", e.FixedSuites)
	}
}
