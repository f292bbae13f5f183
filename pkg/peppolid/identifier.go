package peppolid

import (
	"crypto/sha256"
	"encoding/base32"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidIdentifier is returned when a participant identifier is
// structurally malformed: missing the scheme/value separator, an empty
// scheme, an empty value, or a scheme/value that fails the syntax rules
// below.
var ErrInvalidIdentifier = errors.New("invalid participant identifier")

var (
	schemePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	valuePattern  = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?$`)
)

// base32Alphabet is RFC 4648's standard alphabet, used without padding.
const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

var base32Encoding = base32.NewEncoding(base32Alphabet).WithPadding(base32.NoPadding)

// FullFormPrefix is the Peppol identifier category prefix required when
// constructing SMP URLs.
const FullFormPrefix = "iso6523-actorid-upis"

// Identifier is a validated (scheme, value) participant identifier pair.
type Identifier struct {
	Scheme string
	Value  string
}

// Parse splits a "scheme:value" string on the first colon and validates
// both halves. Any further colons stay part of the value, which then
// fails the DNS-label rule, so such input is rejected.
func Parse(s string) (Identifier, error) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return Identifier{}, fmt.Errorf("%w: %q: missing scheme separator", ErrInvalidIdentifier, s)
	}

	scheme, value := s[:idx], s[idx+1:]
	if scheme == "" || value == "" {
		return Identifier{}, fmt.Errorf("%w: %q: empty scheme or value", ErrInvalidIdentifier, s)
	}

	id := Identifier{Scheme: scheme, Value: value}
	if err := id.Validate(); err != nil {
		return Identifier{}, err
	}
	return id, nil
}

// Validate checks the scheme and value against the syntax rules: scheme
// must be alphanumeric, value must be a valid DNS label.
func (id Identifier) Validate() error {
	if !schemePattern.MatchString(id.Scheme) {
		return fmt.Errorf("%w: scheme %q is not alphanumeric", ErrInvalidIdentifier, id.Scheme)
	}
	if !valuePattern.MatchString(id.Value) {
		return fmt.Errorf("%w: value %q is not a valid DNS label", ErrInvalidIdentifier, id.Value)
	}
	return nil
}

// String returns the "scheme:value" wire form.
func (id Identifier) String() string {
	return id.Scheme + ":" + id.Value
}

// FullForm returns the Peppol full identifier form used in SMP URLs:
// "iso6523-actorid-upis::scheme:value".
func (id Identifier) FullForm() string {
	return FullFormPrefix + "::" + id.String()
}

// ParseFullForm parses the Peppol full identifier form produced by
// FullForm, "iso6523-actorid-upis::scheme:value", back into an
// Identifier. It rejects any other category prefix: this package only
// ever constructs or expects the iso6523-actorid-upis category.
func ParseFullForm(s string) (Identifier, error) {
	idx := strings.Index(s, "::")
	if idx < 0 {
		return Identifier{}, fmt.Errorf("%w: %q: missing full-form separator", ErrInvalidIdentifier, s)
	}

	prefix, rest := s[:idx], s[idx+2:]
	if prefix != FullFormPrefix {
		return Identifier{}, fmt.Errorf("%w: %q: unrecognized identifier category %q", ErrInvalidIdentifier, s, prefix)
	}

	return Parse(rest)
}

// Hash computes the participant hash used as the leftmost label of the
// SML DNS query: SHA-256 of the UTF-8 bytes of "scheme:value", base32
// encoded with RFC 4648's alphabet, lowercased, with padding stripped.
func (id Identifier) Hash() string {
	sum := sha256.Sum256([]byte(id.String()))
	encoded := base32Encoding.EncodeToString(sum[:])
	return strings.ToLower(encoded)
}
