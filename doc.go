// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package peppolresolver resolves Peppol participant identifiers to
endpoint metadata: DNS NAPTR lookup -> SMP HTTP fetch -> XML decode ->
endpoint selection, with optional certificate and business-card
enrichment.

# Package Structure

	pkg/peppolid  - participant identifier parsing, hashing, canonical forms
	pkg/discovery - SML NAPTR lookup
	pkg/transport - pooled HTTP GET client
	pkg/smpxml    - namespace-tolerant ServiceGroup/ServiceMetadata/BusinessCard decoding
	pkg/certinfo  - certificate parsing and fingerprint-memoized caching
	pkg/resolver  - orchestrator tying the above into one Resolve call
	internal/config  - YAML configuration loading
	internal/logging - structured logger constructors

# Quick Start

	r := resolver.NewResolver(resolver.Config{})
	defer r.Close()

	result, err := r.Resolve(ctx, "0208:0843766574", resolver.Options{
	    FetchDocumentTypes: true,
	})

result is always well-formed: a non-registered or parked participant is
reported through result.Status, not through err. A non-nil err means the
caller's context was canceled or its deadline expired before resolution
completed.

# Non-goals

This module resolves endpoints; it does not send messages to them. It
does not validate XML signatures, does not validate certificate chains
against Peppol trust anchors, and does not cache responses across
Resolver instances.

# References

  - eDelivery SMP: https://ec.europa.eu/digital-building-blocks/sites/spaces/DIGITAL/pages/467117987/eDelivery+SMP
  - Peppol Policy for use of Identifiers: https://docs.peppol.eu/edelivery/codelists/

# License

BSD-2-Clause License
*/
package peppolresolver
