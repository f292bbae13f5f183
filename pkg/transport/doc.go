// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package transport provides the pooled HTTP GET client used by the SMP
discovery pipeline (see pkg/discovery and pkg/resolver) to retrieve
ServiceGroup, ServiceMetadata, and BusinessCard documents.

# Fetcher

Fetcher wraps a connection-pooled *http.Client, following at most one
redirect per request and enforcing a per-call timeout independent of any
other caller sharing the pool:

	f := transport.NewFetcher(transport.FetcherConfig{})
	defer f.Close()
	resp, err := f.Get(ctx, url, 0)

A zero timeout argument to Get falls back to the Fetcher's configured
default. Close idles out pooled connections; a Fetcher is safe for
concurrent use up to that point.

# References

  - eDelivery SMP: https://ec.europa.eu/digital-building-blocks/sites/spaces/DIGITAL/pages/467117987/eDelivery+SMP
*/
package transport
