package pageinsight

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Bahjat/page-analyzer/internal/model"
)

// ClassifyLinks collects the absolute http(s) links of every anchor and splits
// them into links on the page's own host and links elsewhere. Each set keeps
// document order without duplicates. Hrefs that are relative paths, fragments,
// other schemes, or fail to parse are skipped.
func ClassifyLinks(doc *Document, pageURL *url.URL) model.LinkSet {
	set := model.LinkSet{}
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved, ok := resolveLink(strings.TrimSpace(href), pageURL)
		if !ok {
			return
		}

		abs := resolved.String()
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}

		if strings.EqualFold(resolved.Hostname(), pageURL.Hostname()) {
			set.Internal = append(set.Internal, abs)
		} else {
			set.External = append(set.External, abs)
		}
	})

	return set
}

func resolveLink(href string, pageURL *url.URL) (*url.URL, bool) {
	lower := strings.ToLower(href)
	if !strings.HasPrefix(lower, "/") &&
		!strings.HasPrefix(lower, "http://") &&
		!strings.HasPrefix(lower, "https://") {
		return nil, false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}

	resolved := pageURL.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil, false
	}
	if resolved.Host == "" {
		return nil, false
	}
	resolved.Host = normalizeHost(resolved.Scheme, resolved.Host)
	if resolved.Path == "" && resolved.RawPath == "" {
		resolved.Path = "/"
	}
	return resolved, true
}

// normalizeHost lowercases host and drops the scheme's default port, so
// "HTTPS://Example.com:443" and "https://example.com" dedupe to one link.
func normalizeHost(scheme, host string) string {
	host = strings.ToLower(host)
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	}
	return strings.TrimSuffix(host, ":")
}
