package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/sirosfoundation/peppol-smp-resolver/pkg/peppolid"
)

// DefaultSMLDomain is the production Peppol SML zone.
const DefaultSMLDomain = "edelivery.tech.ec.europa.eu"

// ServiceMetaSMP is the U-NAPTR service tag identifying an SMP 1.0 record,
// matched case-insensitively.
const ServiceMetaSMP = "Meta:SMP"

// ErrSMLLookupFailed wraps a hard DNS failure (timeout, SERVFAIL,
// malformed response) distinct from a clean NXDOMAIN/empty-answer, which
// is reported by returning a nil URL and a nil error (§4.2: "authoritative
// NXDOMAIN / empty-answer [is] a successful non-registration").
var ErrSMLLookupFailed = errors.New("SML lookup failed")

// SMLResolverConfig configures an SMLResolver.
type SMLResolverConfig struct {
	// Domain is the root SML zone. Defaults to DefaultSMLDomain.
	Domain string

	// Servers is an ordered list of recursive resolvers in "host:port"
	// form. When empty, the system resolver (/etc/resolv.conf) is used.
	Servers []string

	// Timeout bounds a single NAPTR query. Defaults to 5s.
	Timeout time.Duration
}

func (c SMLResolverConfig) withDefaults() SMLResolverConfig {
	if c.Domain == "" {
		c.Domain = DefaultSMLDomain
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	return c
}

// SMLResolver translates a participant hash into an SMP base URL via the
// Peppol SML's U-NAPTR DNS records.
type SMLResolver struct {
	config SMLResolverConfig
	client *dns.Client
}

// NewSMLResolver creates an SMLResolver, applying defaults for zero-valued
// configuration fields.
func NewSMLResolver(config SMLResolverConfig) *SMLResolver {
	return &SMLResolver{
		config: config.withDefaults(),
		client: new(dns.Client),
	}
}

// LookupSMP resolves the given participant hash to an SMP base URL. A nil
// URL with a nil error means the participant has no SMP record (NXDOMAIN,
// empty answer, or no Meta:SMP record, or a record whose regexp field
// fails URL validation) — a clean non-registration, not a failure. A
// non-nil error means the lookup itself failed (timeout, resolver error).
func (r *SMLResolver) LookupSMP(ctx context.Context, hash string) (*url.URL, error) {
	queryName := fmt.Sprintf("%s.%s.%s", hash, peppolid.FullFormPrefix, r.config.Domain)

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	records, err := r.queryNAPTR(ctx, queryName)
	if err != nil {
		if errors.Is(err, errNXDOMAIN) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSMLLookupFailed, queryName, err)
	}

	smpRecords := filterMetaSMP(records)
	if len(smpRecords) == 0 {
		return nil, nil
	}

	sortNAPTR(smpRecords)

	smpURL, ok := extractSMPURL(smpRecords[0].Regexp)
	if !ok {
		return nil, nil
	}

	return smpURL, nil
}

var errNXDOMAIN = errors.New("NXDOMAIN")

func (r *SMLResolver) queryNAPTR(ctx context.Context, queryName string) ([]*dns.NAPTR, error) {
	server, err := r.resolveServer()
	if err != nil {
		return nil, err
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(queryName), dns.TypeNAPTR)
	msg.RecursionDesired = true

	resp, _, err := r.client.ExchangeContext(ctx, msg, server)
	if err != nil {
		return nil, err
	}

	if resp.Rcode == dns.RcodeNameError {
		return nil, errNXDOMAIN
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("rcode=%d", resp.Rcode)
	}

	var records []*dns.NAPTR
	for _, rr := range resp.Answer {
		if naptr, ok := rr.(*dns.NAPTR); ok {
			records = append(records, naptr)
		}
	}
	if len(records) == 0 {
		return nil, errNXDOMAIN
	}
	return records, nil
}

func (r *SMLResolver) resolveServer() (string, error) {
	if len(r.config.Servers) > 0 {
		return r.config.Servers[0], nil
	}

	cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil {
		return "", fmt.Errorf("reading system DNS config: %w", err)
	}
	if len(cfg.Servers) == 0 {
		return "", errors.New("no DNS servers configured")
	}
	return cfg.Servers[0] + ":" + cfg.Port, nil
}

// filterMetaSMP keeps only records whose service tag matches Meta:SMP,
// case-insensitively; records with any other service tag are dropped
// rather than causing a failure.
func filterMetaSMP(records []*dns.NAPTR) []*dns.NAPTR {
	var out []*dns.NAPTR
	for _, rec := range records {
		if strings.EqualFold(rec.Service, ServiceMetaSMP) {
			out = append(out, rec)
		}
	}
	return out
}

// sortNAPTR orders records by Order ascending, then Preference ascending,
// matching the NAPTR tie-break rule in §4.2/§8.
func sortNAPTR(records []*dns.NAPTR) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Order != records[j].Order {
			return records[i].Order < records[j].Order
		}
		return records[i].Preference < records[j].Preference
	})
}

// extractSMPURL parses an NAPTR regexp field of the form
// "!PATTERN!REPLACEMENT!" and validates the REPLACEMENT as an SMP base
// URL: scheme http/https, no userinfo, no query, no fragment, with any
// single trailing slash stripped. The PATTERN is never evaluated against
// any input — for Peppol it is always "^.*$".
func extractSMPURL(regexpField string) (*url.URL, bool) {
	parts := strings.Split(regexpField, "!")
	if len(parts) < 3 {
		return nil, false
	}

	replacement := parts[2]
	if replacement == "" {
		return nil, false
	}

	parsed, err := url.Parse(replacement)
	if err != nil {
		return nil, false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, false
	}
	if parsed.User != nil || parsed.RawQuery != "" || parsed.Fragment != "" {
		return nil, false
	}

	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	return parsed, true
}
