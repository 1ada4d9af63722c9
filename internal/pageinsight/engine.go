package pageinsight

import (
	"context"
	"net/url"

	"github.com/Bahjat/page-analyzer/internal/model"
	"github.com/Bahjat/page-analyzer/internal/platform/errs"
)

// linkValidator defines how the engine checks link availability.
type linkValidator interface {
	Validate(ctx context.Context, links []string) []model.LinkProbeResult
}

// Engine orchestrates page fetching, document analysis, and link validation.
type Engine struct {
	fetcher   Fetcher
	validator linkValidator
}

// NewEngine returns an Engine backed by the given Fetcher and link validator.
func NewEngine(fetcher Fetcher, validator linkValidator) *Engine {
	return &Engine{
		fetcher:   fetcher,
		validator: validator,
	}
}

const invalidURLMessage = "Invalid URL format. Please ensure you entered a valid URL (e.g., https://example.com)."

// Analyze fetches a URL and analyzes the returned document. Only an invalid
// URL or a failed fetch make it return an error.
func (e *Engine) Analyze(ctx context.Context, targetURL string) (*model.PageAnalysis, error) {
	pageURL, err := parsePageURL(targetURL)
	if err != nil {
		return nil, err
	}

	page, err := e.fetcher.Fetch(ctx, targetURL)
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.Unreachable,
			Message: "The provided URL could not be reached. Check the address.",
			Cause:   err,
		}
	}
	defer func() { _ = page.Body.Close() }()

	if page.StatusCode >= 400 {
		return nil, &errs.AppError{
			Kind:           errs.Unreachable,
			UpstreamStatus: page.StatusCode,
			Message:        "The provided URL returned an error status.",
		}
	}

	doc, err := ParseEncoded(page.Body, page.ContentType)
	if err != nil {
		return nil, parseFailed(err)
	}

	return e.analyzeDocument(ctx, doc, targetURL, pageURL), nil
}

// AnalyzeHTML analyzes markup that was already retrieved from pageURL.
// Malformed markup never fails; the only error is an unusable pageURL.
func (e *Engine) AnalyzeHTML(ctx context.Context, rawHTML, pageURL string) (*model.PageAnalysis, error) {
	parsed, err := parsePageURL(pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := ParseString(rawHTML)
	if err != nil {
		return nil, parseFailed(err)
	}

	return e.analyzeDocument(ctx, doc, pageURL, parsed), nil
}

func (e *Engine) analyzeDocument(ctx context.Context, doc *Document, rawURL string, pageURL *url.URL) *model.PageAnalysis {
	title, headings := CountStructure(doc)
	links := ClassifyLinks(doc, pageURL)

	return &model.PageAnalysis{
		URL:         rawURL,
		HTMLVersion: DetectVersion(doc),
		Title:       title,
		Headings:    headings,
		Links:       links,
		IsLoginForm: IsLoginPage(rawURL, doc),
		LinkResults: e.validator.Validate(ctx, links.All()),
	}
}

func parsePageURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: invalidURLMessage,
			Cause:   err,
		}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: invalidURLMessage,
		}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "Only http and https URLs are supported.",
		}
	}
	return parsed, nil
}

func parseFailed(err error) error {
	return &errs.AppError{
		Kind:    errs.ParsingFailed,
		Message: "Failed to parse the HTML content.",
		Cause:   err,
	}
}
