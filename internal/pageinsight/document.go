package pageinsight

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Document is a parsed HTML page. It is built once per analysis and never
// modified afterwards.
type Document struct {
	doc *goquery.Document
}

// Parse builds a Document from UTF-8 markup. Malformed markup is accepted the
// way a browser would accept it; only read errors are returned.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// ParseString is Parse for markup already held in memory.
func ParseString(raw string) (*Document, error) {
	return Parse(strings.NewReader(raw))
}

// ParseEncoded decodes body to UTF-8 using the Content-Type header and any
// <meta charset> in the markup, then parses it.
func ParseEncoded(body io.Reader, contentType string) (*Document, error) {
	utf8Body, err := charset.NewReader(body, contentType)
	if err != nil {
		return nil, err
	}
	return Parse(utf8Body)
}

// Find runs a CSS selector over the whole document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// TopLevelNodes returns the direct children of the document root in source
// order, including doctype and comment nodes.
func (d *Document) TopLevelNodes() []*html.Node {
	if len(d.doc.Nodes) == 0 {
		return nil
	}
	var nodes []*html.Node
	for n := d.doc.Nodes[0].FirstChild; n != nil; n = n.NextSibling {
		nodes = append(nodes, n)
	}
	return nodes
}
