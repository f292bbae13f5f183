package resolver

import (
	"time"

	"go.uber.org/zap"

	"github.com/sirosfoundation/peppol-smp-resolver/internal/logging"
)

// Config configures a Resolver. It is immutable after NewResolver:
// mutating a Config after construction is not supported, matching the
// HTTP pool's and certificate cache's "owned by one instance, explicitly
// closed" lifetime.
type Config struct {
	// SMLDomain is the root SML zone. Defaults to discovery.DefaultSMLDomain.
	SMLDomain string

	// DNSServers is an ordered list of recursive resolvers. Empty means
	// use the system resolver.
	DNSServers []string

	// HTTPTimeout bounds main ServiceGroup/ServiceMetadata fetches.
	// Defaults to 30s.
	HTTPTimeout time.Duration

	// CacheTTL is reserved for future use; it is accepted but neither
	// validated nor used, and does not affect the certificate cache or
	// HTTP pool, both of which are process-lifetime with no expiry.
	CacheTTL time.Duration

	// UserAgent is sent on every outbound HTTP request. Defaults to
	// "smp-resolver-ng/1.0".
	UserAgent string

	// CodeList resolves document-identifier values to friendly names.
	// Nil falls back to pattern-based naming.
	CodeList CodeListLookup

	// Logger receives diagnostic events. Defaults to a no-op logger.
	Logger *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = logging.NewNop()
	}
	return c
}
