package smpxml

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
)

// ErrMalformedXML is returned when a document cannot be parsed as XML at
// all.
var ErrMalformedXML = errors.New("malformed XML document")

// ErrMissingParticipantIdentifier is returned when a ServiceGroup document
// has no ParticipantIdentifier element.
var ErrMissingParticipantIdentifier = errors.New("ServiceGroup missing ParticipantIdentifier")

// ErrMissingDocumentIdentifier is returned when a non-redirect
// ServiceMetadata document has no DocumentIdentifier.
var ErrMissingDocumentIdentifier = errors.New("ServiceMetadata missing DocumentIdentifier")

// ParseServiceGroup decodes a ServiceGroup document, ignoring namespace
// prefixes on every element. An empty ServiceMetadataReference collection
// is legal and is returned as a nil/empty slice.
func ParseServiceGroup(data []byte) (*ServiceGroup, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedXML)
	}

	pid := childByLocalName(root, "ParticipantIdentifier")
	if pid == nil || text(pid) == "" {
		return nil, ErrMissingParticipantIdentifier
	}
	scheme := attr(pid, "scheme")
	if scheme == "" {
		return nil, ErrMissingParticipantIdentifier
	}

	sg := &ServiceGroup{
		ParticipantScheme: scheme,
		ParticipantValue:  text(pid),
	}

	refCollection := childByLocalName(root, "ServiceMetadataReferenceCollection")
	for _, ref := range childrenByLocalName(refCollection, "ServiceMetadataReference") {
		href := attr(ref, "href")
		if href != "" {
			sg.References = append(sg.References, href)
		}
	}

	return sg, nil
}

// ParseServiceMetadata decodes a ServiceMetadata or SignedServiceMetadata
// document. If a top-level Redirect/@href is present, the result carries
// only RedirectHref and an empty document-type/process list.
func ParseServiceMetadata(data []byte) (*ServiceMetadata, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}

	root := rootByLocalName(doc, "ServiceMetadata", "SignedServiceMetadata")
	if root == nil {
		root = doc.Root()
	}
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedXML)
	}
	rootElement := root.Tag

	// SignedServiceMetadata wraps a nested ServiceMetadata element; unwrap
	// it so the rest of this function sees the same shape either way.
	if inner := childByLocalName(root, "ServiceMetadata"); inner != nil {
		root = inner
	}

	if redirect := childByLocalName(root, "Redirect"); redirect != nil {
		href := attr(redirect, "href")
		if href != "" {
			return &ServiceMetadata{RedirectHref: href, RootElement: rootElement}, nil
		}
	}

	info := childByLocalName(root, "ServiceInformation")
	if info == nil {
		return nil, ErrMissingDocumentIdentifier
	}

	docID := childByLocalName(info, "DocumentIdentifier")
	if docID == nil || text(docID) == "" || attr(docID, "scheme") == "" {
		return nil, ErrMissingDocumentIdentifier
	}

	sm := &ServiceMetadata{
		RootElement:    rootElement,
		DocumentScheme: attr(docID, "scheme"),
		DocumentValue:  text(docID),
	}

	processList := childByLocalName(info, "ProcessList")
	for _, procElem := range childrenByLocalName(processList, "Process") {
		procID := childByLocalName(procElem, "ProcessIdentifier")
		if procID == nil || text(procID) == "" || attr(procID, "scheme") == "" {
			continue
		}

		proc := Process{
			ProcessScheme: attr(procID, "scheme"),
			ProcessValue:  text(procID),
		}

		endpointList := childByLocalName(procElem, "ServiceEndpointList")
		for _, epElem := range childrenByLocalName(endpointList, "Endpoint") {
			ep, ok := parseEndpoint(epElem)
			if ok {
				proc.Endpoints = append(proc.Endpoints, ep)
			}
		}

		sm.Processes = append(sm.Processes, proc)
	}

	return sm, nil
}

func parseEndpoint(elem *etree.Element) (Endpoint, bool) {
	transportProfile := attr(elem, "transportProfile")
	if transportProfile == "" {
		return Endpoint{}, false
	}

	endpointURL := text(childByLocalName(elem, "EndpointURI"))
	if endpointURL == "" {
		endpointURL = text(childByLocalName(elem, "Address"))
	}
	if endpointURL == "" {
		return Endpoint{}, false
	}

	ep := Endpoint{
		TransportProfile:         transportProfile,
		EndpointURL:              endpointURL,
		Certificate:              text(childByLocalName(elem, "Certificate")),
		ServiceDescription:       text(childByLocalName(elem, "ServiceDescription")),
		TechnicalContactURL:      text(childByLocalName(elem, "TechnicalContactUrl")),
		TechnicalInformationURL:  text(childByLocalName(elem, "TechnicalInformationUrl")),
	}

	if activation := text(childByLocalName(elem, "ServiceActivationDate")); activation != "" {
		if t, err := parseISO8601(activation); err == nil {
			ep.ServiceActivationDate = &t
		}
	}
	if expiration := text(childByLocalName(elem, "ServiceExpirationDate")); expiration != "" {
		if t, err := parseISO8601(expiration); err == nil {
			ep.ServiceExpirationDate = &t
		}
	}

	if reqSig := text(childByLocalName(elem, "RequireBusinessLevelSignature")); reqSig != "" {
		if b, err := strconv.ParseBool(reqSig); err == nil {
			ep.RequireBusinessLevelSignature = b
		}
	}

	return ep, true
}

// parseISO8601 tries a handful of ISO-8601 layouts; callers treat failure
// as "field absent", never fatal.
func parseISO8601(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// ParseBusinessCard decodes a BusinessCard document. Absence of a
// BusinessCard root is not an error here; callers that probe for business
// cards treat a non-2xx/non-XML response as "absent" before ever calling
// this function.
func ParseBusinessCard(data []byte) (*BusinessCard, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}

	root := rootByLocalName(doc, "BusinessCard")
	if root == nil {
		root = doc.Root()
	}
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedXML)
	}

	entityElem := childByLocalName(root, "BusinessEntity")
	if entityElem == nil {
		return nil, fmt.Errorf("%w: missing BusinessEntity", ErrMalformedXML)
	}

	entity := BusinessEntity{
		Name:                    text(childByLocalName(entityElem, "Name")),
		CountryCode:             text(childByLocalName(entityElem, "CountryCode")),
		GeographicalInformation: text(childByLocalName(entityElem, "GeographicalInformation")),
	}

	for _, idElem := range childrenByLocalName(entityElem, "Identifier") {
		entity.Identifiers = append(entity.Identifiers, BusinessIdentifier{
			Scheme: attr(idElem, "scheme"),
			Value:  text(idElem),
		})
	}

	for _, site := range childrenByLocalName(entityElem, "WebsiteURI") {
		if t := text(site); t != "" {
			entity.Websites = append(entity.Websites, t)
		}
	}

	for _, contactElem := range childrenByLocalName(entityElem, "Contact") {
		entity.Contacts = append(entity.Contacts, Contact{
			TypeCode:    text(childByLocalName(contactElem, "TypeCode")),
			Name:        text(childByLocalName(contactElem, "Name")),
			PhoneNumber: text(childByLocalName(contactElem, "PhoneNumber")),
			Email:       text(childByLocalName(contactElem, "Email")),
		})
	}

	return &BusinessCard{Entity: entity}, nil
}
