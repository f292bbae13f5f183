package smpxml

import (
	"strings"

	"github.com/beevik/etree"
)

// childByLocalName returns the first direct child of parent whose local
// name (tag, ignoring namespace prefix) equals name, or nil.
//
// etree splits "prefix:local" tags into Space/Tag at parse time, so a
// direct "./name" lookup already ignores the prefix in the common case;
// the local-name() fallback below covers documents where that lookup
// comes up empty for other structural reasons.
func childByLocalName(parent *etree.Element, name string) *etree.Element {
	if parent == nil {
		return nil
	}
	if e := parent.FindElement("./" + name); e != nil {
		return e
	}
	return parent.FindElement("./*[local-name()='" + name + "']")
}

// childrenByLocalName returns all direct children of parent whose local
// name equals name.
func childrenByLocalName(parent *etree.Element, name string) []*etree.Element {
	if parent == nil {
		return nil
	}
	if elems := parent.FindElements("./" + name); len(elems) > 0 {
		return elems
	}
	return parent.FindElements("./*[local-name()='" + name + "']")
}

// rootByLocalName returns the document root if its local name equals one
// of the given names.
func rootByLocalName(doc *etree.Document, names ...string) *etree.Element {
	root := doc.Root()
	if root == nil {
		return nil
	}
	for _, name := range names {
		if root.Tag == name {
			return root
		}
	}
	return nil
}

// attr returns the value of the named attribute on elem, ignoring
// namespace prefix, or "" if absent.
func attr(elem *etree.Element, name string) string {
	if elem == nil {
		return ""
	}
	if a := elem.SelectAttr(name); a != nil {
		return a.Value
	}
	for _, a := range elem.Attr {
		if a.Key == name {
			return a.Value
		}
	}
	return ""
}

// text returns elem's trimmed character-data text, or "" if elem is nil.
func text(elem *etree.Element) string {
	if elem == nil {
		return ""
	}
	return strings.TrimSpace(elem.Text())
}
