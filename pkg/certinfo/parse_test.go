package certinfo

import (
	"strings"
	"testing"
)

// testCertBase64 is a synthetic self-signed certificate with
// CN=PBE000028, exercising the same fields as the Ixor access-point
// certificate this package's SeatID and fingerprint rules are drawn
// from, without claiming to be a byte-for-byte copy of it.
const testCertBase64 = `MIIDRzCCAi+gAwIBAgIUWDEThiEbMZU2a6NsjCRrAjc2+UgwDQYJKoZIhvcNAQEL
BQAwMzELMAkGA1UEBhMCQkUxEDAOBgNVBAoMB0l4b3IgTlYxEjAQBgNVBAMMCVBC
RTAwMDAyODAeFw0yNjA4MDMwNjQzNDJaFw0yODA4MDIwNjQzNDJaMDMxCzAJBgNV
BAYTAkJFMRAwDgYDVQQKDAdJeG9yIE5WMRIwEAYDVQQDDAlQQkUwMDAwMjgwggEi
MA0GCSqGSIb3DQEBAQUAA4IBDwAwggEKAoIBAQDEVrzUh/5I65T0wKajS7BEAReN
OIw534mdoPvz/JWEgNylyiZU0k9cHmdn2lcKQQ4nVSAMLemVsDH0uY08wBHQThvX
JVM6C42Q4bQnXfnxiMlzy4gADaysOCIEgaEZgaaj3YqIm0daQQAf4RJUWjjj7bud
pcrmai7++Spgc8ckwSTaWdKsaqtsosPVcciUsboVMVrbsQpMZxtgPwNxt9wPmksa
zkGqj62tEo5PJuQz8siJiW8CDJWkXaLC/KZwS6cjOJo34qOX9Wd83gw9dFuxCyTP
I76G+v7DK5IJ0Wim8vcYjjoAAJsVHAB74gx1dUEJLmE+8kO+9xRg2EQMYiorAgMB
AAGjUzBRMB0GA1UdDgQWBBQTvILJjDaf8IemJu3lfplUNrxDDzAfBgNVHSMEGDAW
gBQTvILJjDaf8IemJu3lfplUNrxDDzAPBgNVHRMBAf8EBTADAQH/MA0GCSqGSIb3
DQEBCwUAA4IBAQAJMMQwRR82DGofK3c0gdC/hiI1xdPCYlGGGWygEvQx5s5qCSWc
RBF6WFEUQC2kCjQCJXwmHuhdVQy56YfvrLx1HPbQUySg1dlRXB5+QEop2PULM+06
o4dQmSkcGStVnUxZ5DL8v4zqaDcqfC46e/CK37GlU01fBELHssJoGgS1+ArCbpf6
UVurWpcGE20AWMll1eS3QmUFOFwfRfWHngWjU2zk8iRgWsdlAZvsZM/wYrGIorZ9
yNGsFJPPozYAmb21GLEzhXOHMtg0fqAkkRxcKhi5eVVt/gcc6n4KpIfufkjdRSPc
aiWA9Liq4xeTdGKu8Kyd4Z7cIJezEshwGtGv`

const testCertFingerprint = "92B0BC0CE3FF9AD975D8BB67CD89A5A57823D7652272C373344138C01EC054D9"

func testCertPEM() string {
	return "-----BEGIN CERTIFICATE-----\n" + testCertBase64 + "\n-----END CERTIFICATE-----\n"
}

func TestParseBareBase64(t *testing.T) {
	cache := NewCache()
	info, err := cache.Parse(testCertBase64)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if info.Fingerprint != testCertFingerprint {
		t.Errorf("Fingerprint = %s, want %s", info.Fingerprint, testCertFingerprint)
	}
	if info.SeatID != "PBE000028" {
		t.Errorf("SeatID = %q, want PBE000028", info.SeatID)
	}
}

func TestParsePEMAndBareBase64ProduceSameFingerprint(t *testing.T) {
	cache := NewCache()
	bare, err := cache.Parse(testCertBase64)
	if err != nil {
		t.Fatalf("Parse(bare) error = %v", err)
	}
	pem, err := cache.Parse(testCertPEM())
	if err != nil {
		t.Fatalf("Parse(pem) error = %v", err)
	}
	if bare.Fingerprint != pem.Fingerprint {
		t.Errorf("fingerprints differ: bare=%s pem=%s", bare.Fingerprint, pem.Fingerprint)
	}
}

func TestParseIsCachedByFingerprint(t *testing.T) {
	cache := NewCache()
	first, err := cache.Parse(testCertBase64)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	second, err := cache.Parse(testCertBase64)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if first != second {
		t.Error("second Parse() of the same certificate should return the cached *Info")
	}
}

func TestClearEmptiesCache(t *testing.T) {
	cache := NewCache()
	first, _ := cache.Parse(testCertBase64)
	cache.Clear()
	second, err := cache.Parse(testCertBase64)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if first == second {
		t.Error("Parse() after Clear() should not return the pre-Clear *Info")
	}
	if first.Fingerprint != second.Fingerprint {
		t.Error("fingerprint should be stable across Clear()")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	cache := NewCache()
	_, err := cache.Parse("not a certificate")
	if err == nil {
		t.Fatal("Parse() error = nil, want ErrInvalidCertificate")
	}
}

func TestExtractSeatIDPOPPrefix(t *testing.T) {
	got := extractSeatID("CN=pop123456,O=Some AP,C=FR")
	if got != "POP123456" {
		t.Errorf("extractSeatID() = %q, want POP123456", got)
	}
}

func TestExtractSeatIDGenericAlphanumeric(t *testing.T) {
	got := extractSeatID("CN=abcd1234,O=Some AP,C=NL")
	if got != "ABCD1234" {
		t.Errorf("extractSeatID() = %q, want ABCD1234", got)
	}
}

func TestExtractSeatIDRejectsNonMatchingCN(t *testing.T) {
	got := extractSeatID("CN=Acme Corporation AS4 Gateway,O=Acme,C=BE")
	if got != "" {
		t.Errorf("extractSeatID() = %q, want empty", got)
	}
}

func TestExtractSeatIDNoCN(t *testing.T) {
	got := extractSeatID("O=Acme,C=BE")
	if got != "" {
		t.Errorf("extractSeatID() = %q, want empty", got)
	}
}

func TestNormalizeStripsPEMArmorAndWhitespace(t *testing.T) {
	der, err := normalize(testCertPEM())
	if err != nil {
		t.Fatalf("normalize() error = %v", err)
	}
	bareDer, err := normalize(testCertBase64)
	if err != nil {
		t.Fatalf("normalize() error = %v", err)
	}
	if string(der) != string(bareDer) {
		t.Error("PEM and bare base64 should normalize to identical DER")
	}
}

func TestFingerprintIsUppercaseHex(t *testing.T) {
	der, err := normalize(testCertBase64)
	if err != nil {
		t.Fatalf("normalize() error = %v", err)
	}
	fp := fingerprint(der)
	if fp != strings.ToUpper(fp) {
		t.Error("fingerprint should be uppercase")
	}
	if len(fp) != 64 {
		t.Errorf("fingerprint length = %d, want 64", len(fp))
	}
}
