package resolver

import (
	"regexp"
	"strings"
)

// CodeListLookup resolves a full document-identifier value (e.g.
// "urn:oasis:...:Invoice-2::Invoice##...") to a human-friendly name. It is
// the seam for the external Peppol document-type code-list data file,
// which this package does not ship — that table is a deliberately
// out-of-scope static lookup owned by the caller.
type CodeListLookup interface {
	FriendlyName(fullValue string) (string, bool)
}

var (
	ublDocTypePattern = regexp.MustCompile(`xsd:[A-Za-z]+-\d+::([^#]+)`)
	ciiDocTypePattern = regexp.MustCompile(`standard:([A-Za-z]+):\d+::`)
)

// friendlyDocumentTypeName derives a display name for a document
// identifier's full value by: consulting lookup if non-nil, then the UBL
// naming pattern, then the CII naming pattern, then the substring after
// the last "::".
func friendlyDocumentTypeName(lookup CodeListLookup, fullValue string) string {
	if lookup != nil {
		if name, ok := lookup.FriendlyName(fullValue); ok {
			return name
		}
	}
	if m := ublDocTypePattern.FindStringSubmatch(fullValue); m != nil {
		return m[1]
	}
	if m := ciiDocTypePattern.FindStringSubmatch(fullValue); m != nil {
		return m[1]
	}
	if idx := strings.LastIndex(fullValue, "::"); idx >= 0 {
		return fullValue[idx+2:]
	}
	return fullValue
}
