package analyzer

import (
	"context"

	"github.com/Bahjat/page-analyzer/internal/model"
)

// PageInsightProvider fetches and analyzes a page.
type PageInsightProvider interface {
	Analyze(ctx context.Context, targetURL string) (*model.PageAnalysis, error)
}
