package resolver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/peppol-smp-resolver/pkg/peppolid"
)

func startTestNAPTRServer(t *testing.T, rcode int, smpURL string) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	mux := dns.NewServeMux()
	mux.HandleFunc(".", func(w dns.ResponseWriter, r *dns.Msg) {
		resp := new(dns.Msg)
		resp.SetReply(r)
		resp.Rcode = rcode
		if smpURL != "" {
			resp.Answer = []dns.RR{&dns.NAPTR{
				Hdr:        dns.RR_Header{Name: "test.", Rrtype: dns.TypeNAPTR, Class: dns.ClassINET, Ttl: 300},
				Order:      10,
				Preference: 10,
				Flags:      "u",
				Service:    "Meta:SMP",
				Regexp:     "!^.*$!" + smpURL + "!",
			}}
		}
		_ = w.WriteMsg(resp)
	})

	server := &dns.Server{PacketConn: pc, Handler: mux}
	go server.ActivateAndServe()
	t.Cleanup(func() { _ = server.Shutdown() })

	return pc.LocalAddr().String()
}

const testParticipant = "0208:0843766574"

func docIDHrefSegment(t *testing.T) string {
	t.Helper()
	return url.PathEscape("busdox-docid-qns::urn:oasis:names:specification:ubl:schema:xsd:Invoice-2::Invoice")
}

func TestResolveHappyPath(t *testing.T) {
	id, err := peppolid.Parse(testParticipant)
	require.NoError(t, err)
	segment := docIDHrefSegment(t)

	var smp *httptest.Server
	smp = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/" + id.FullForm():
			fmt.Fprintf(w, `<ServiceGroup>
  <ParticipantIdentifier scheme="0208">0843766574</ParticipantIdentifier>
  <ServiceMetadataReferenceCollection>
    <ServiceMetadataReference href="%s/services/%s"/>
  </ServiceMetadataReferenceCollection>
</ServiceGroup>`, smp.URL, segment)
		case "/services/" + segment:
			fmt.Fprint(w, `<ServiceMetadata>
  <ServiceInformation>
    <DocumentIdentifier scheme="busdox-docid-qns">urn:oasis:names:specification:ubl:schema:xsd:Invoice-2::Invoice</DocumentIdentifier>
    <ProcessList>
      <Process>
        <ProcessIdentifier scheme="cenbii-procid-ubl">urn:www.cenbii.eu:profile:bii04:ver1.0</ProcessIdentifier>
        <ServiceEndpointList>
          <Endpoint transportProfile="peppol-transport-as4-v2_0">
            <EndpointURI>https://as4.example.com/as4</EndpointURI>
          </Endpoint>
        </ServiceEndpointList>
      </Process>
    </ProcessList>
  </ServiceInformation>
</ServiceMetadata>`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer smp.Close()

	dnsAddr := startTestNAPTRServer(t, dns.RcodeSuccess, smp.URL)

	r := NewResolver(Config{DNSServers: []string{dnsAddr}})
	defer r.Close()

	result, err := r.Resolve(context.Background(), testParticipant, Options{FetchDocumentTypes: true})
	require.NoError(t, err)
	require.Equal(t, StatusActive, result.Status)
	require.True(t, result.IsRegistered)
	require.True(t, result.HasActiveEndpoints)
	require.NotNil(t, result.Endpoint)
	require.Equal(t, "https://as4.example.com/as4", result.Endpoint.URL)
	require.Equal(t, "peppol-transport-as4-v2_0", result.Endpoint.TransportProfile)

	parsedSMP, _ := url.Parse(smp.URL)
	require.Equal(t, parsedSMP.Host, result.SMPHostname)
}

func TestResolveDNSAbsentIsUnregistered(t *testing.T) {
	httpCalls := 0
	smp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpCalls++
		w.WriteHeader(http.StatusOK)
	}))
	defer smp.Close()

	dnsAddr := startTestNAPTRServer(t, dns.RcodeNameError, "")

	r := NewResolver(Config{DNSServers: []string{dnsAddr}})
	defer r.Close()

	result, err := r.Resolve(context.Background(), "0208:9999999999", Options{})
	require.NoError(t, err)
	require.False(t, result.IsRegistered)
	require.Equal(t, StatusUnregistered, result.Status)
	require.Contains(t, result.Error, "No SMP found")
	require.Equal(t, 0, httpCalls)
}

func TestResolveMalformedIdentifier(t *testing.T) {
	r := NewResolver(Config{DNSServers: []string{"127.0.0.1:1"}})
	defer r.Close()

	result, err := r.Resolve(context.Background(), "invalid-format", Options{})
	require.NoError(t, err)
	require.False(t, result.IsRegistered)
	require.Equal(t, StatusUnregistered, result.Status)
	require.Contains(t, result.Error, "Invalid participant ID format")
}

func TestResolveServiceGroup404IsParkedNotUnregistered(t *testing.T) {
	smp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer smp.Close()

	dnsAddr := startTestNAPTRServer(t, dns.RcodeSuccess, smp.URL)

	r := NewResolver(Config{DNSServers: []string{dnsAddr}})
	defer r.Close()

	result, err := r.Resolve(context.Background(), testParticipant, Options{})
	require.NoError(t, err)
	require.True(t, result.IsRegistered)
	require.Equal(t, StatusParked, result.Status)
	require.False(t, result.HasActiveEndpoints)
}

func TestResolveEmptyReferenceCollectionIsParked(t *testing.T) {
	id, err := peppolid.Parse(testParticipant)
	require.NoError(t, err)

	smp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/"+id.FullForm() {
			fmt.Fprint(w, `<ServiceGroup>
  <ParticipantIdentifier scheme="0208">0843766574</ParticipantIdentifier>
  <ServiceMetadataReferenceCollection></ServiceMetadataReferenceCollection>
</ServiceGroup>`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer smp.Close()

	dnsAddr := startTestNAPTRServer(t, dns.RcodeSuccess, smp.URL)

	r := NewResolver(Config{DNSServers: []string{dnsAddr}})
	defer r.Close()

	result, err := r.Resolve(context.Background(), testParticipant, Options{})
	require.NoError(t, err)
	require.True(t, result.IsRegistered)
	require.Equal(t, StatusParked, result.Status)
	require.False(t, result.HasActiveEndpoints)
}

func TestResolveContextCancellationSurfacesAsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver(Config{DNSServers: []string{"127.0.0.1:1"}})
	defer r.Close()

	_, err := r.Resolve(ctx, testParticipant, Options{Timeout: time.Hour})
	require.Error(t, err)

	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	require.Equal(t, StageDNS, resErr.Stage)
	require.ErrorIs(t, err, context.Canceled)
}

func TestResolveSignedServiceMetadataRecordsDiagnostic(t *testing.T) {
	id, err := peppolid.Parse(testParticipant)
	require.NoError(t, err)
	segment := docIDHrefSegment(t)

	var smp *httptest.Server
	smp = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/" + id.FullForm():
			fmt.Fprintf(w, `<ServiceGroup>
  <ParticipantIdentifier scheme="0208">0843766574</ParticipantIdentifier>
  <ServiceMetadataReferenceCollection>
    <ServiceMetadataReference href="%s/services/%s"/>
  </ServiceMetadataReferenceCollection>
</ServiceGroup>`, smp.URL, segment)
		case "/services/" + segment:
			fmt.Fprint(w, `<SignedServiceMetadata>
  <ServiceMetadata>
    <ServiceInformation>
      <DocumentIdentifier scheme="busdox-docid-qns">urn:oasis:names:specification:ubl:schema:xsd:Invoice-2::Invoice</DocumentIdentifier>
      <ProcessList>
        <Process>
          <ProcessIdentifier scheme="cenbii-procid-ubl">urn:www.cenbii.eu:profile:bii04:ver1.0</ProcessIdentifier>
          <ServiceEndpointList>
            <Endpoint transportProfile="peppol-transport-as4-v2_0">
              <EndpointURI>https://as4.example.com/as4</EndpointURI>
            </Endpoint>
          </ServiceEndpointList>
        </Process>
      </ProcessList>
    </ServiceInformation>
  </ServiceMetadata>
</SignedServiceMetadata>`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer smp.Close()

	dnsAddr := startTestNAPTRServer(t, dns.RcodeSuccess, smp.URL)

	r := NewResolver(Config{DNSServers: []string{dnsAddr}})
	defer r.Close()

	result, err := r.Resolve(context.Background(), testParticipant, Options{})
	require.NoError(t, err)
	require.Equal(t, StatusActive, result.Status)
	require.Len(t, result.Diagnostics, 1)
	require.Contains(t, result.Diagnostics[0].Message, "SignedServiceMetadata")
}

func TestAllEndpointsExposesFullList(t *testing.T) {
	id, err := peppolid.Parse(testParticipant)
	require.NoError(t, err)
	segment := docIDHrefSegment(t)

	var smp *httptest.Server
	smp = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/" + id.FullForm():
			fmt.Fprintf(w, `<ServiceGroup>
  <ParticipantIdentifier scheme="0208">0843766574</ParticipantIdentifier>
  <ServiceMetadataReferenceCollection>
    <ServiceMetadataReference href="%s/services/%s"/>
  </ServiceMetadataReferenceCollection>
</ServiceGroup>`, smp.URL, segment)
		case "/services/" + segment:
			fmt.Fprint(w, `<ServiceMetadata>
  <ServiceInformation>
    <DocumentIdentifier scheme="busdox-docid-qns">urn:oasis:names:specification:ubl:schema:xsd:Invoice-2::Invoice</DocumentIdentifier>
    <ProcessList>
      <Process>
        <ProcessIdentifier scheme="cenbii-procid-ubl">urn:www.cenbii.eu:profile:bii04:ver1.0</ProcessIdentifier>
        <ServiceEndpointList>
          <Endpoint transportProfile="peppol-transport-as4-v2_0">
            <EndpointURI>https://as4.example.com/as4</EndpointURI>
          </Endpoint>
          <Endpoint transportProfile="busdox-transport-ebms3-as4-v1p0">
            <EndpointURI>https://legacy.example.com/as4</EndpointURI>
          </Endpoint>
        </ServiceEndpointList>
      </Process>
    </ProcessList>
  </ServiceInformation>
</ServiceMetadata>`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer smp.Close()

	dnsAddr := startTestNAPTRServer(t, dns.RcodeSuccess, smp.URL)

	r := NewResolver(Config{DNSServers: []string{dnsAddr}})
	defer r.Close()

	result, err := r.Resolve(context.Background(), testParticipant, Options{FetchDocumentTypes: true})
	require.NoError(t, err)
	require.Equal(t, "https://as4.example.com/as4", result.Endpoint.URL)

	all := AllEndpoints(result)
	require.Len(t, all, 2)
	require.Equal(t, "https://legacy.example.com/as4", all[1].URL)
}
