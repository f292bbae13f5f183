package resolver

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/sirosfoundation/peppol-smp-resolver/pkg/peppolid"
	"github.com/sirosfoundation/peppol-smp-resolver/pkg/smpxml"
	"github.com/sirosfoundation/peppol-smp-resolver/pkg/transport"
)

// businessCardProbeTimeout bounds each individual probe request.
const businessCardProbeTimeout = 5 * time.Second

// businessCardPathPattern builds one of the five probe URL shapes against
// a base SMP URL carrying the given scheme.
type businessCardPathPattern func(base, fullForm string) string

var businessCardPatterns = []businessCardPathPattern{
	func(base, fullForm string) string {
		return base + "/businesscard/" + fullForm
	},
	func(base, fullForm string) string {
		return base + "/" + url.PathEscape(fullForm) + "/businesscard"
	},
	func(base, fullForm string) string {
		return base + "/smp/businesscard/" + url.PathEscape(fullForm)
	},
	func(base, fullForm string) string {
		return base + "/api/businesscard/" + url.PathEscape(fullForm)
	},
	func(base, fullForm string) string {
		return base + "/rest/businesscard/" + url.PathEscape(fullForm)
	},
}

// withScheme returns smpBase with its scheme replaced.
func withScheme(smpBase *url.URL, scheme string) string {
	clone := *smpBase
	clone.Scheme = scheme
	return clone.String()
}

// businessCardFetcher is the subset of *transport.Fetcher the probe
// needs. Accepting the interface instead of the concrete type lets
// tests substitute a deterministic double for the real connection-pooled
// client.
type businessCardFetcher interface {
	Get(ctx context.Context, reqURL string, timeout time.Duration) (*transport.Response, error)
}

// probeBusinessCard tries the five known business-card URL shapes, HTTPS
// first then HTTP, with an asymmetric fast-fail rule: the first transport
// failure on HTTPS abandons the remaining HTTPS attempts (not the whole
// probe); the first transport failure on HTTP abandons the entire probe.
// HTTP status responses never fast-fail. It issues at most 10 requests and
// never returns an error: absence is reported by a nil *BusinessEntity.
func probeBusinessCard(ctx context.Context, fetcher businessCardFetcher, smpBase *url.URL, id peppolid.Identifier) *BusinessEntity {
	fullForm := id.FullForm()

	for _, scheme := range []string{"https", "http"} {
		base := withScheme(smpBase, scheme)

		for _, pattern := range businessCardPatterns {
			reqURL := pattern(base, fullForm)

			resp, err := fetcher.Get(ctx, reqURL, businessCardProbeTimeout)
			if err != nil {
				if scheme == "https" {
					break // stop trying HTTPS patterns, move on to HTTP
				}
				return nil // HTTP transport failure ends the whole probe
			}

			if resp.StatusCode != 200 {
				continue
			}
			trimmed := strings.TrimSpace(string(resp.Body))
			if !strings.HasPrefix(trimmed, "<") {
				continue
			}

			card, err := smpxml.ParseBusinessCard(resp.Body)
			if err != nil {
				continue
			}
			return toBusinessEntity(card.Entity)
		}
	}

	return nil
}

func toBusinessEntity(entity smpxml.BusinessEntity) *BusinessEntity {
	out := &BusinessEntity{
		Name:                    entity.Name,
		CountryCode:             entity.CountryCode,
		GeographicalInformation: entity.GeographicalInformation,
		Websites:                entity.Websites,
	}
	for _, id := range entity.Identifiers {
		out.Identifiers = append(out.Identifiers, BusinessIdentifier{Scheme: id.Scheme, Value: id.Value})
	}
	for _, c := range entity.Contacts {
		out.Contacts = append(out.Contacts, BusinessContact{
			TypeCode:    c.TypeCode,
			Name:        c.Name,
			PhoneNumber: c.PhoneNumber,
			Email:       c.Email,
		})
	}
	return out
}
