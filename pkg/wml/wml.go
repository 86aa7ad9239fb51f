// Package wml provides parsing, projection and extraction of WaterML
// documents as returned by WaterOneFlow services.
//
// WaterML exists in two versions (1.0 and 1.1) that differ in
// namespace and, for several elements, in tag casing. Projection
// functions therefore accept a list of candidate tag names and return
// the first one that matches, so that callers stay agnostic of the
// exact schema variant a live service emits.
package wml

import (
	"strings"

	"github.com/beevik/etree"
)

const (
	// NamespaceWML10 is the XML namespace of WaterML 1.0 documents.
	NamespaceWML10 = "http://www.cuahsi.org/waterML/1.0/"

	// NamespaceWML11 is the XML namespace of WaterML 1.1 documents.
	NamespaceWML11 = "http://www.cuahsi.org/waterML/1.1/"

	// ResponseTag is the element that wraps the canonical time series
	// payload in both SOAP and REST responses.
	ResponseTag = "timeSeriesResponse"
)

// Namespace maps a stored WaterML version string to its XML
// namespace. The version field of live services is free-form
// ("WaterML 1.1", "1.1" etc), so any string containing "1.1" selects
// the 1.1 namespace and everything else falls back to 1.0.
func Namespace(version string) string {
	if strings.Contains(version, "1.1") {
		return NamespaceWML11
	}
	return NamespaceWML10
}

// iterate returns all descendants of el (including el itself) with
// the given namespace URI and local tag name, in document order.
func iterate(el *etree.Element, ns, tag string) []*etree.Element {
	var res []*etree.Element
	if el == nil {
		return res
	}
	if el.Tag == tag && el.NamespaceURI() == ns {
		res = append(res, el)
	}
	for _, child := range el.ChildElements() {
		res = append(res, iterate(child, ns, tag)...)
	}
	return res
}

// ProjectText returns the text content of the first element matching
// any of the candidate tag names within namespace ns. Candidates are
// tried in order; the first name yielding a match wins. Returns dflt
// when no candidate matches or el is nil. The tree is not modified.
func ProjectText(el *etree.Element, ns string, names []string, dflt string) string {
	if el == nil {
		return dflt
	}
	for _, name := range names {
		matches := iterate(el, ns, name)
		if len(matches) > 0 {
			return matches[0].Text()
		}
	}
	return dflt
}

// ProjectAttr returns the value of attribute attr on the first
// element matching any of the candidate tag names. Returns dflt when
// no candidate matches, or when the matched element lacks the
// attribute.
func ProjectAttr(
	el *etree.Element,
	ns string,
	names []string,
	attr, dflt string,
) string {
	if el == nil {
		return dflt
	}
	for _, name := range names {
		matches := iterate(el, ns, name)
		if len(matches) > 0 {
			return matches[0].SelectAttrValue(attr, dflt)
		}
	}
	return dflt
}

// ProjectTexts returns the text content of every element matching
// the first candidate tag name that has matches. Returns an empty
// slice when nothing matches.
func ProjectTexts(el *etree.Element, ns string, names []string) []string {
	for _, name := range names {
		matches := iterate(el, ns, name)
		if len(matches) > 0 {
			res := make([]string, len(matches))
			for i, m := range matches {
				res[i] = m.Text()
			}
			return res
		}
	}
	return nil
}

// ProjectAttrs returns the value of attribute attr for every element
// matching the first candidate tag name that has matches. Elements
// lacking the attribute contribute an empty string, keeping the
// result aligned by index with ProjectTexts over the same candidates.
func ProjectAttrs(el *etree.Element, ns string, names []string, attr string) []string {
	for _, name := range names {
		matches := iterate(el, ns, name)
		if len(matches) > 0 {
			res := make([]string, len(matches))
			for i, m := range matches {
				res[i] = m.SelectAttrValue(attr, "")
			}
			return res
		}
	}
	return nil
}

// ProjectTree returns the first element matching any of the
// candidate tag names, for further projection. Returns nil when
// nothing matches.
func ProjectTree(el *etree.Element, ns string, names []string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, name := range names {
		matches := iterate(el, ns, name)
		if len(matches) > 0 {
			return matches[0]
		}
	}
	return nil
}

// ProjectTrees returns all elements matching the first candidate tag
// name that has matches, in document order. Returns an empty slice
// when nothing matches.
func ProjectTrees(el *etree.Element, ns string, names []string) []*etree.Element {
	if el == nil {
		return nil
	}
	for _, name := range names {
		matches := iterate(el, ns, name)
		if len(matches) > 0 {
			return matches
		}
	}
	return nil
}

// Parse parses raw bytes into an XML document and returns its root
// element.
func Parse(data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, ParseError(err)
	}
	root := doc.Root()
	if root == nil {
		return nil, ParseError(nil)
	}
	return root, nil
}
