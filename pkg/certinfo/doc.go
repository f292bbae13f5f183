// Package certinfo decodes the X.509 certificates published on SMP
// endpoints and extracts the fields resolution callers actually need:
// fingerprint, subject/issuer, validity window, and a Peppol access-point
// SeatID parsed out of the subject CN.
//
// Parsing is memoized by certificate fingerprint through a Cache. The
// cache is unbounded for the life of the process and is cleared
// explicitly, mirroring how the transport package's HTTP pool is closed
// explicitly rather than on a timer.
package certinfo
