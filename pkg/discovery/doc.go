// Package discovery locates a participant's Service Metadata Publisher
// (SMP) via the Peppol SML (Service Metadata Locator) DNS zone.
//
// # Discovery Process
//
// The discovery process works as follows:
//
//  1. Participant Identifier Hashing: the "scheme:value" identifier is
//     hashed with SHA-256 and BASE32 encoded (pkg/peppolid.Hash).
//
//  2. DNS Query Construction: the hash is combined with
//     "iso6523-actorid-upis" and the SML domain to form the query name.
//
//  3. NAPTR Lookup: a DNS query for NAPTR records is performed and the
//     "Meta:SMP" record with the lowest (order, preference) is selected.
//
//  4. URL Extraction: the record's regexp field
//     ("!pattern!replacement!") yields the SMP base URL.
//
// # Usage
//
//	r := discovery.NewSMLResolver(discovery.SMLResolverConfig{})
//	smpURL, err := r.LookupSMP(ctx, id.Hash())
//
// A nil URL with a nil error means the SML has no record for this
// participant (NXDOMAIN); that is a normal "unregistered" outcome, not a
// failure.
//
// # References
//
//   - eDelivery SML: https://ec.europa.eu/digital-building-blocks/sites/spaces/DIGITAL/pages/467117987/eDelivery+SMP
//   - RFC 4848: https://www.rfc-editor.org/rfc/rfc4848.html
package discovery
