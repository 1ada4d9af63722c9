package pageinsight

import (
	"strings"

	"golang.org/x/net/html"
)

// UnknownHTMLVersion is reported when no doctype is present or none of the
// version rules match.
const UnknownHTMLVersion = "Unknown HTML version"

type versionRule struct {
	match func(decl string) bool
	label string
}

func contains(fragment string) func(string) bool {
	return func(decl string) bool { return strings.Contains(decl, fragment) }
}

// versionRules are evaluated in order; the first match wins.
// XHTML maps to "HTML 1" for compatibility with existing consumers.
var versionRules = []versionRule{
	{match: contains("HTML 4.01"), label: "HTML 4.01"},
	{match: contains("HTML 3.2"), label: "HTML 3"},
	{match: contains("HTML 2.0"), label: "HTML 2"},
	{match: contains("XHTML"), label: "HTML 1"},
	{match: func(decl string) bool { return strings.Contains(strings.ToLower(decl), "html") }, label: "HTML5"},
}

// DetectVersion classifies the document by its doctype declaration.
func DetectVersion(doc *Document) string {
	decl, ok := doctypeDeclaration(doc)
	if !ok {
		return UnknownHTMLVersion
	}
	return classifyDoctype(decl)
}

func classifyDoctype(decl string) string {
	for _, rule := range versionRules {
		if rule.match(decl) {
			return rule.label
		}
	}
	return UnknownHTMLVersion
}

// doctypeDeclaration rebuilds the declaration text of the first doctype node,
// e.g. `html PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd"`.
func doctypeDeclaration(doc *Document) (string, bool) {
	for _, n := range doc.TopLevelNodes() {
		if n.Type != html.DoctypeNode {
			continue
		}

		var b strings.Builder
		b.WriteString(n.Data)
		var public, system string
		var hasPublic, hasSystem bool
		for _, a := range n.Attr {
			switch a.Key {
			case "public":
				public, hasPublic = a.Val, true
			case "system":
				system, hasSystem = a.Val, true
			}
		}
		if hasPublic {
			b.WriteString(` PUBLIC "` + public + `"`)
			if hasSystem {
				b.WriteString(` "` + system + `"`)
			}
		} else if hasSystem {
			b.WriteString(` SYSTEM "` + system + `"`)
		}
		return strings.TrimSpace(b.String()), true
	}
	return "", false
}
