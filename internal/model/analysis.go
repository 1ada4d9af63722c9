package model

import (
	"encoding/json"
	"fmt"
)

// PageAnalysis holds the complete result of analyzing a web page.
type PageAnalysis struct {
	URL         string
	HTMLVersion string
	Title       string
	Headings    HeadingCounts
	Links       LinkSet
	IsLoginForm bool
	LinkResults []LinkProbeResult
}

// UnavailableLinks returns how many probed links were not available.
func (p *PageAnalysis) UnavailableLinks() int {
	var n int
	for _, r := range p.LinkResults {
		if !r.Available {
			n++
		}
	}
	return n
}

// HeadingCounts is the number of h1..h6 elements on a page.
type HeadingCounts struct {
	H1 int `json:"h1"`
	H2 int `json:"h2"`
	H3 int `json:"h3"`
	H4 int `json:"h4"`
	H5 int `json:"h5"`
	H6 int `json:"h6"`
}

// Add increments the count for the given level. Levels outside 1..6 are ignored.
func (h *HeadingCounts) Add(level, n int) {
	if p := h.slot(level); p != nil {
		*p += n
	}
}

// Level returns the count for the given level, or 0 outside 1..6.
func (h *HeadingCounts) Level(level int) int {
	if p := h.slot(level); p != nil {
		return *p
	}
	return 0
}

func (h *HeadingCounts) slot(level int) *int {
	switch level {
	case 1:
		return &h.H1
	case 2:
		return &h.H2
	case 3:
		return &h.H3
	case 4:
		return &h.H4
	case 5:
		return &h.H5
	case 6:
		return &h.H6
	}
	return nil
}

// LinkSet holds the deduplicated absolute links of a page, split by host.
type LinkSet struct {
	Internal []string `json:"internal"`
	External []string `json:"external"`
}

// All returns internal links followed by external links.
func (s LinkSet) All() []string {
	all := make([]string, 0, len(s.Internal)+len(s.External))
	all = append(all, s.Internal...)
	return append(all, s.External...)
}

// LinkProbeResult is the outcome of probing a single link.
type LinkProbeResult struct {
	Link       string
	Available  bool
	Error      string
	StatusCode int
}

// MarshalJSON renders an empty Error as null and omits a zero StatusCode.
func (r LinkProbeResult) MarshalJSON() ([]byte, error) {
	out := struct {
		Link       string  `json:"link"`
		Available  bool    `json:"available"`
		Error      *string `json:"error"`
		StatusCode int     `json:"statusCode,omitempty"`
	}{Link: r.Link, Available: r.Available, StatusCode: r.StatusCode}
	if r.Error != "" {
		out.Error = &r.Error
	}
	return json.Marshal(out)
}

// LinkOutputMode selects how links are rendered in a response.
type LinkOutputMode string

const (
	LinkOutputCount LinkOutputMode = "count"
	LinkOutputList  LinkOutputMode = "list"
)

// ParseLinkOutputMode validates a mode string. An empty string yields the fallback.
func ParseLinkOutputMode(s string, fallback LinkOutputMode) (LinkOutputMode, error) {
	switch LinkOutputMode(s) {
	case "":
		return fallback, nil
	case LinkOutputCount, LinkOutputList:
		return LinkOutputMode(s), nil
	}
	return "", fmt.Errorf("unknown link output mode %q", s)
}

// LinksView renders a LinkSet either as counts or as full lists.
type LinksView struct {
	Set  LinkSet
	Mode LinkOutputMode
}

// MarshalJSON renders link counts, or the link lists in LinkOutputList mode.
func (v LinksView) MarshalJSON() ([]byte, error) {
	if v.Mode == LinkOutputList {
		set := LinkSet{Internal: v.Set.Internal, External: v.Set.External}
		if set.Internal == nil {
			set.Internal = []string{}
		}
		if set.External == nil {
			set.External = []string{}
		}
		return json.Marshal(set)
	}
	return json.Marshal(struct {
		Internal int `json:"internal"`
		External int `json:"external"`
	}{len(v.Set.Internal), len(v.Set.External)})
}

// AnalysisResponse is the JSON shape returned for a successful analysis.
type AnalysisResponse struct {
	URL                   string            `json:"url"`
	HTMLVersion           string            `json:"htmlVersion"`
	PageTitle             string            `json:"pageTitle"`
	HeadingCounts         HeadingCounts     `json:"headingCounts"`
	Links                 LinksView         `json:"links"`
	IsLoginForm           bool              `json:"isLoginForm"`
	LinkValidationResults []LinkProbeResult `json:"linkValidationResults"`
}

// NewAnalysisResponse shapes a PageAnalysis for the wire.
func NewAnalysisResponse(p *PageAnalysis, mode LinkOutputMode) AnalysisResponse {
	results := p.LinkResults
	if results == nil {
		results = []LinkProbeResult{}
	}
	return AnalysisResponse{
		URL:                   p.URL,
		HTMLVersion:           p.HTMLVersion,
		PageTitle:             p.Title,
		HeadingCounts:         p.Headings,
		Links:                 LinksView{Set: p.Links, Mode: mode},
		IsLoginForm:           p.IsLoginForm,
		LinkValidationResults: results,
	}
}

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}
