// Package smpxml decodes the three SMP XML document families used by the
// resolution pipeline: ServiceGroup, ServiceMetadata (or
// SignedServiceMetadata), and BusinessCard.
//
// Element lookups are namespace-insensitive: "ns2:Endpoint" and "Endpoint"
// are treated as equivalent, matched by local name regardless of prefix.
// Lookups use beevik/etree paths, with a local-name() filter as the
// fallback.
package smpxml
