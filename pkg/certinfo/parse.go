package certinfo

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// ErrInvalidCertificate is returned when the input cannot be normalized
// to DER bytes or the resulting DER does not parse as an X.509
// certificate.
var ErrInvalidCertificate = errors.New("invalid certificate")

// seatIDPOPPattern matches the Peppol-assigned "POP" seat prefix; a
// prefix match, not a full match, per the CN grammar it's drawn from.
var seatIDPOPPattern = regexp.MustCompile(`(?i)^POP\d{3,}`)

// seatIDGenericPattern matches a bare alphanumeric seat code; a full
// match, case-insensitive.
var seatIDGenericPattern = regexp.MustCompile(`(?i)^[A-Z0-9]{4,20}$`)

// cnPattern extracts a CN= component's value up to the next unescaped
// comma, case-insensitive on the "CN=" label.
var cnPattern = regexp.MustCompile(`(?i)CN=((?:\\.|[^,\\])*)`)

// fingerprint returns the uppercase-hex SHA-256 of der.
func fingerprint(der []byte) string {
	sum := sha256.Sum256(der)
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// normalize strips PEM armor lines and all whitespace from raw, then
// base64-decodes what remains to DER. It accepts both PEM-wrapped and
// bare base64 input, and produces identical DER for either
// representation of the same certificate.
func normalize(raw string) ([]byte, error) {
	var sb strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-----") {
			continue
		}
		sb.WriteString(line)
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, sb.String())

	der, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCertificate, err)
	}
	return der, nil
}

// extractSeatID parses a subject DN's CN component and classifies it as
// a SeatID per the POP-prefix and generic-alphanumeric rules, or returns
// "" when neither matches.
func extractSeatID(subjectDN string) string {
	m := cnPattern.FindStringSubmatch(subjectDN)
	if m == nil || m[1] == "" {
		return ""
	}
	cn := m[1]

	if seatIDPOPPattern.MatchString(cn) || seatIDGenericPattern.MatchString(cn) {
		return strings.ToUpper(cn)
	}
	return ""
}

func parseInfo(der []byte, fp, raw string) (*Info, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCertificate, err)
	}

	subject := cert.Subject.String()
	return &Info{
		Fingerprint:  fp,
		Subject:      subject,
		Issuer:       cert.Issuer.String(),
		SerialNumber: cert.SerialNumber.String(),
		NotBefore:    cert.NotBefore,
		NotAfter:     cert.NotAfter,
		IsExpired:    time.Now().After(cert.NotAfter),
		SeatID:       extractSeatID(subject),
		Raw:          raw,
	}, nil
}
