package resolver

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sirosfoundation/peppol-smp-resolver/pkg/certinfo"
	"github.com/sirosfoundation/peppol-smp-resolver/pkg/discovery"
	"github.com/sirosfoundation/peppol-smp-resolver/pkg/peppolid"
	"github.com/sirosfoundation/peppol-smp-resolver/pkg/smpxml"
	"github.com/sirosfoundation/peppol-smp-resolver/pkg/transport"
)

// Resolver drives the DNS -> HTTP -> XML -> endpoint-selection pipeline
// for one or more participant identifiers. It owns a DNS client, an HTTP
// connection pool, and a certificate memoization cache, all safe for
// concurrent use; a Resolver may be shared across goroutines without
// additional locking.
type Resolver struct {
	config Config

	sml       *discovery.SMLResolver
	fetcher   *transport.Fetcher
	certCache *certinfo.Cache
}

// NewResolver constructs a Resolver from config, applying defaults for
// zero-valued fields.
func NewResolver(config Config) *Resolver {
	config = config.withDefaults()

	return &Resolver{
		config: config,
		sml: discovery.NewSMLResolver(discovery.SMLResolverConfig{
			Domain:  config.SMLDomain,
			Servers: config.DNSServers,
		}),
		fetcher: transport.NewFetcher(transport.FetcherConfig{
			UserAgent: config.UserAgent,
			Timeout:   config.HTTPTimeout,
		}),
		certCache: certinfo.NewCache(),
	}
}

// Close drains the HTTP connection pool and clears the certificate cache.
// Behavior of calls to Resolve after Close is undefined.
func (r *Resolver) Close() {
	r.fetcher.Close()
	r.certCache.Clear()
}

func unregisteredResult(identifier, errMsg string) *Result {
	return &Result{
		Identifier:   identifier,
		IsRegistered: false,
		Status:       StatusUnregistered,
		Error:        errMsg,
	}
}

// Resolve resolves one participant identifier. The returned *Result is
// always well-formed and describes a negative outcome (invalid input,
// unregistered participant, parked participant) without an error; a
// non-nil error means the ambient context was canceled or its deadline
// was exceeded before resolution completed.
func (r *Resolver) Resolve(ctx context.Context, identifier string, opts Options) (*Result, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	id, err := peppolid.Parse(identifier)
	if err != nil {
		return unregisteredResult(identifier, "Invalid participant ID format"), nil
	}

	smpURL, err := r.sml.LookupSMP(ctx, id.Hash())
	if err != nil {
		if ctx.Err() != nil {
			return nil, &ResolutionError{Stage: StageDNS, Err: ctx.Err()}
		}
		return unregisteredResult(identifier, fmt.Sprintf("No SMP found via DNS lookup: %v", err)), nil
	}
	if smpURL == nil {
		return unregisteredResult(identifier, "No SMP found via DNS lookup"), nil
	}

	result := &Result{
		Identifier:   identifier,
		IsRegistered: true,
		Status:       StatusParked,
		SMPHostname:  smpURL.Host,
	}

	serviceGroupURL := smpURL.String() + "/" + id.FullForm()
	sgResp, err := r.fetcher.Get(ctx, serviceGroupURL, 0)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &ResolutionError{Stage: StageHTTP, Err: ctx.Err()}
		}
		return unregisteredResult(identifier, fmt.Sprintf("SMP request failed: %v", err)), nil
	}

	switch {
	case sgResp.StatusCode == 404:
		return result, nil
	case sgResp.StatusCode != 200:
		return unregisteredResult(identifier, fmt.Sprintf("SMP returned status %d", sgResp.StatusCode)), nil
	}

	sg, err := smpxml.ParseServiceGroup(sgResp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &ResolutionError{Stage: StageXML, Err: ctx.Err()}
		}
		return unregisteredResult(identifier, fmt.Sprintf("failed to parse ServiceGroup: %v", err)), nil
	}
	if len(sg.References) == 0 {
		return result, nil
	}

	documentTypes := collectDocumentTypes(r.config.CodeList, sg.References)

	endpoint, allEndpoints, diagnostics, err := r.fetchSelectedEndpoint(ctx, sg.References[0])
	if err != nil {
		return nil, err
	}
	result.Diagnostics = diagnostics
	result.allEndpoints = allEndpoints

	if endpoint != nil && len(documentTypes) > 0 {
		result.Status = StatusActive
		result.HasActiveEndpoints = true

		if opts.ParseCertificate && endpoint.Certificate != "" {
			if info, err := r.certCache.Parse(endpoint.Certificate); err == nil {
				result.Certificate = info
			} else {
				r.config.Logger.Debug("certificate parse failed", zap.String("participant", identifier), zap.Error(err))
			}
		}
	}

	if opts.FetchDocumentTypes {
		result.DocumentTypes = documentTypes
		result.Endpoint = endpoint
	}

	if opts.IncludeBusinessCard {
		result.Entity = probeBusinessCard(ctx, r.fetcher, smpURL, id)
	}

	return result, nil
}

// collectDocumentTypes derives a friendly-named DocumentType for every
// ServiceGroup reference whose href encodes a recognizable document
// identifier, skipping any that don't.
func collectDocumentTypes(lookup CodeListLookup, references []string) []DocumentType {
	var out []DocumentType
	for _, href := range references {
		scheme, value, ok := parseDocIDFromHref(href)
		if !ok {
			continue
		}
		fullValue := scheme + "::" + value
		out = append(out, DocumentType{
			Scheme:       scheme,
			Value:        value,
			FriendlyName: friendlyDocumentTypeName(lookup, fullValue),
		})
	}
	return out
}

// parseDocIDFromHref extracts "docScheme::docValue" from the last path
// segment of a ServiceMetadataReference href, which SMPs publish
// URL-encoded.
func parseDocIDFromHref(href string) (scheme, value string, ok bool) {
	parsed, err := url.Parse(href)
	if err != nil {
		return "", "", false
	}

	segments := strings.Split(parsed.Path, "/")
	if len(segments) == 0 {
		return "", "", false
	}
	last := segments[len(segments)-1]

	decoded, err := url.PathUnescape(last)
	if err != nil {
		return "", "", false
	}

	idx := strings.Index(decoded, "::")
	if idx < 0 {
		return "", "", false
	}
	return decoded[:idx], decoded[idx+2:], true
}

// fetchSelectedEndpoint fetches the first referenced ServiceMetadata
// document and selects its first process's first endpoint. Any failure
// along the way is non-fatal and reported as a Diagnostic with a nil
// endpoint, except ambient context cancellation, which is surfaced as a
// *ResolutionError so callers never mistake a canceled resolution for a
// definite negative answer.
func (r *Resolver) fetchSelectedEndpoint(ctx context.Context, metadataHref string) (*Endpoint, []Endpoint, []Diagnostic, error) {
	correlationID := uuid.NewString()

	resp, err := r.fetcher.Get(ctx, metadataHref, 0)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, nil, &ResolutionError{Stage: StageHTTP, Err: ctx.Err()}
		}
		return nil, nil, []Diagnostic{{
			CorrelationID: correlationID,
			URL:           metadataHref,
			StatusCode:    0,
			Message:       err.Error(),
		}}, nil
	}
	if resp.StatusCode != 200 {
		return nil, nil, []Diagnostic{{
			CorrelationID: correlationID,
			URL:           metadataHref,
			StatusCode:    resp.StatusCode,
			Message:       fmt.Sprintf("SMP returned status %d", resp.StatusCode),
		}}, nil
	}

	sm, err := smpxml.ParseServiceMetadata(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, nil, &ResolutionError{Stage: StageXML, Err: ctx.Err()}
		}
		return nil, nil, []Diagnostic{{
			CorrelationID: correlationID,
			URL:           metadataHref,
			StatusCode:    resp.StatusCode,
			Message:       err.Error(),
		}}, nil
	}
	if sm.RedirectHref != "" {
		return nil, nil, []Diagnostic{{
			CorrelationID: correlationID,
			URL:           metadataHref,
			StatusCode:    resp.StatusCode,
			Message:       "ServiceMetadata redirected to " + sm.RedirectHref,
		}}, nil
	}
	if len(sm.Processes) == 0 || len(sm.Processes[0].Endpoints) == 0 {
		return nil, nil, []Diagnostic{{
			CorrelationID: correlationID,
			URL:           metadataHref,
			StatusCode:    resp.StatusCode,
			Message:       "ServiceMetadata carries no endpoints",
		}}, nil
	}

	all := make([]Endpoint, len(sm.Processes[0].Endpoints))
	for i, ep := range sm.Processes[0].Endpoints {
		all[i] = toEndpoint(ep)
	}
	selected := all[0]

	var diagnostics []Diagnostic
	if sm.RootElement == "SignedServiceMetadata" {
		diagnostics = []Diagnostic{{
			CorrelationID: correlationID,
			URL:           metadataHref,
			StatusCode:    resp.StatusCode,
			Message:       "ServiceMetadata delivered as SignedServiceMetadata",
		}}
	}

	return &selected, all, diagnostics, nil
}

func toEndpoint(ep smpxml.Endpoint) Endpoint {
	return Endpoint{
		TransportProfile:              ep.TransportProfile,
		URL:                           ep.EndpointURL,
		Certificate:                   ep.Certificate,
		ServiceActivationDate:         ep.ServiceActivationDate,
		ServiceExpirationDate:         ep.ServiceExpirationDate,
		ServiceDescription:            ep.ServiceDescription,
		TechnicalContactURL:           ep.TechnicalContactURL,
		TechnicalInformationURL:       ep.TechnicalInformationURL,
		RequireBusinessLevelSignature: ep.RequireBusinessLevelSignature,
	}
}
