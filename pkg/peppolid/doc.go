// Package peppolid implements canonicalization and hashing of Peppol
// participant identifiers.
//
// A participant identifier is a (scheme, value) pair, for example
// "0208:0843766574". The scheme names the issuing catalog (ISO 6523 icd or
// similar); the value is the issuer-local identifier. This package parses
// the "scheme:value" wire form, validates both sides, and computes the
// SHA-256/base32 hash used as the leftmost label of the SML DNS query.
//
// Hashing is case-sensitive: callers must supply the exact Peppol-canonical
// form. This package does not case-fold scheme or value.
package peppolid
