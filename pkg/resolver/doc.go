// Package resolver is the pipeline orchestrator: given a participant
// identifier, it drives DNS NAPTR lookup, ServiceGroup/ServiceMetadata
// retrieval, endpoint selection, and the optional certificate and
// business-card enrichments, and returns a single well-formed Result.
//
// A Resolver owns a DNS client, an HTTP connection pool, and a
// certificate cache; construct one with NewResolver and Close it when
// done. A Resolver is safe for concurrent use across goroutines.
package resolver
