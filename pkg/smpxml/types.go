package smpxml

import "time"

// ServiceGroup is the participant's catalog: a participant identifier and
// an ordered list of ServiceMetadataReference hrefs.
type ServiceGroup struct {
	ParticipantScheme string
	ParticipantValue  string
	// References holds ServiceMetadataReference/@href values in document
	// order. An empty slice is legal and signals "parked".
	References []string
}

// ServiceMetadata is a per-document-type record: either a redirect to
// another ServiceMetadata document, or a document identifier with the
// processes/endpoints that handle it.
type ServiceMetadata struct {
	// RedirectHref is set when the document is a top-level Redirect; in
	// that case DocumentScheme/Value and Processes are empty.
	RedirectHref string

	// RootElement is the local name of the document's root: either
	// "ServiceMetadata" or "SignedServiceMetadata", the latter indicating
	// the SMP wrapped the response in an XML signature envelope.
	RootElement string

	DocumentScheme string
	DocumentValue  string
	Processes      []Process
}

// Process is a ProcessIdentifier and the endpoints that serve it.
type Process struct {
	ProcessScheme string
	ProcessValue  string
	Endpoints     []Endpoint
}

// Endpoint describes one transport endpoint within a Process.
type Endpoint struct {
	TransportProfile               string
	EndpointURL                    string
	Certificate                    string
	ServiceActivationDate          *time.Time
	ServiceExpirationDate          *time.Time
	ServiceDescription             string
	TechnicalContactURL            string
	TechnicalInformationURL        string
	RequireBusinessLevelSignature  bool
}

// BusinessCard is the optional SMP business-card extension.
type BusinessCard struct {
	Entity BusinessEntity
}

// BusinessEntity is the organizational identity published in a
// BusinessCard.
type BusinessEntity struct {
	Name                    string
	CountryCode             string
	Identifiers             []BusinessIdentifier
	GeographicalInformation string
	Websites                []string
	Contacts                []Contact
}

// BusinessIdentifier is a scheme-qualified identifier published on a
// BusinessEntity.
type BusinessIdentifier struct {
	Scheme string
	Value  string
}

// Contact is a BusinessEntity contact entry.
type Contact struct {
	TypeCode    string
	Name        string
	PhoneNumber string
	Email       string
}
