package resolver

import (
	"time"

	"github.com/sirosfoundation/peppol-smp-resolver/pkg/certinfo"
)

// RegistrationStatus classifies a participant's presence in Peppol.
type RegistrationStatus string

const (
	StatusUnregistered RegistrationStatus = "unregistered"
	StatusParked       RegistrationStatus = "parked"
	StatusActive       RegistrationStatus = "active"
)

// Endpoint is the selected AS4 transport endpoint descriptor.
type Endpoint struct {
	TransportProfile              string
	URL                           string
	Certificate                   string
	ServiceActivationDate         *time.Time
	ServiceExpirationDate         *time.Time
	ServiceDescription            string
	TechnicalContactURL           string
	TechnicalInformationURL       string
	RequireBusinessLevelSignature bool
}

// DocumentType is a friendly-named document-type identifier collected from
// a participant's ServiceGroup.
type DocumentType struct {
	Scheme       string
	Value        string
	FriendlyName string
}

// BusinessEntity is the organizational identity published via a
// participant's optional business card.
type BusinessEntity struct {
	Name                    string
	CountryCode             string
	GeographicalInformation string
	Identifiers             []BusinessIdentifier
	Websites                []string
	Contacts                []BusinessContact
}

// BusinessIdentifier is a scheme-qualified identifier on a BusinessEntity.
type BusinessIdentifier struct {
	Scheme string
	Value  string
}

// BusinessContact is a BusinessEntity contact entry.
type BusinessContact struct {
	TypeCode    string
	Name        string
	PhoneNumber string
	Email       string
}

// Diagnostic records a non-fatal anomaly encountered while resolving a
// participant — a failed auxiliary fetch, an unexpected but tolerated
// document shape, and so on.
type Diagnostic struct {
	CorrelationID string
	URL           string
	StatusCode    int
	Message       string
}

// Result is the complete output of resolving one participant identifier.
// It is always well-formed: callers never need to distinguish "resolution
// failed" from "resolution succeeded with a negative answer" by means
// other than inspecting this struct.
type Result struct {
	Identifier string

	IsRegistered bool
	Status       RegistrationStatus

	HasActiveEndpoints bool

	SMPHostname string

	DocumentTypes []DocumentType
	Endpoint      *Endpoint

	// allEndpoints carries every endpoint the chosen process published,
	// in document order, regardless of which one Endpoint selected. It
	// backs AllEndpoints and is not part of the stable Result surface.
	allEndpoints []Endpoint

	Certificate *certinfo.Info
	Entity      *BusinessEntity

	Diagnostics []Diagnostic

	// Error is a short, human-readable explanation set only when Status
	// is StatusUnregistered as a result of a terminal failure (invalid
	// input, DNS absence or failure, or a failed, non-200/non-404, or
	// unparseable ServiceGroup fetch). Empty otherwise.
	Error string
}

// Options controls which auxiliary work a single Resolve call performs.
type Options struct {
	// FetchDocumentTypes includes friendly document-type names and the
	// selected endpoint in the Result. Without it, the orchestrator still
	// selects an endpoint and classifies registration status but leaves
	// DocumentTypes/Endpoint unset.
	FetchDocumentTypes bool

	// IncludeBusinessCard probes for and, if found, includes the
	// business entity.
	IncludeBusinessCard bool

	// ParseCertificate decodes the selected endpoint's certificate, when
	// present, into Result.Certificate.
	ParseCertificate bool

	// Timeout bounds this resolution's total wall time via cancellation.
	// Zero means no resolution-level bound beyond the per-stage timeouts.
	Timeout time.Duration
}
