package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Bahjat/page-analyzer/internal/model"
	"github.com/Bahjat/page-analyzer/internal/platform/errs"
)

const analyzeTimeout = 60 * time.Second

var errURLRequired = errors.New("the \"url\" field is required")

// Transport handles HTTP requests for page analysis.
type Transport struct {
	service   *Service
	logger    *slog.Logger
	linksMode model.LinkOutputMode
}

// NewTransport creates an HTTP transport backed by the given service.
// linksMode is the default rendering of the "links" field.
func NewTransport(service *Service, logger *slog.Logger, linksMode model.LinkOutputMode) *Transport {
	if linksMode == "" {
		linksMode = model.LinkOutputCount
	}
	return &Transport{service: service, logger: logger, linksMode: linksMode}
}

// RegisterRoutes attaches the transport's handlers to the given mux.
func (t *Transport) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /analyze", t.handleAnalyze)
	mux.HandleFunc("GET /scrape", t.handleScrape)
	mux.HandleFunc("GET /healthz", t.handleHealthz)
}

type analyzeRequest struct {
	URL   string `json:"url"`
	Links string `json:"links"`
}

func (r analyzeRequest) validate() error {
	if r.URL == "" {
		return errURLRequired
	}
	return nil
}

func (t *Transport) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	const maxRequestBody = 1 << 20 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with a \"url\" field.")
		return
	}

	t.serveAnalysis(w, r, req)
}

// handleScrape is the query-string form: GET /scrape?url=...&links=list
func (t *Transport) handleScrape(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("url") == "" {
		t.renderError(w, http.StatusBadRequest, "URL parameter is required")
		return
	}
	t.serveAnalysis(w, r, analyzeRequest{URL: q.Get("url"), Links: q.Get("links")})
}

func (t *Transport) serveAnalysis(w http.ResponseWriter, r *http.Request, req analyzeRequest) {
	if err := req.validate(); err != nil {
		t.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	mode, err := model.ParseLinkOutputMode(req.Links, t.linksMode)
	if err != nil {
		t.renderError(w, http.StatusBadRequest, "The \"links\" option must be \"count\" or \"list\".")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	result, err := t.service.Analyze(ctx, req.URL)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	t.renderJSON(w, http.StatusOK, model.NewAnalysisResponse(result, mode))
}

func (t *Transport) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	t.renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (t *Transport) handleServiceError(w http.ResponseWriter, err error) {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		t.renderError(w, appErr.Kind.HTTPStatus(), appErr.Message)
		return
	}

	t.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.")
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message string) {
	t.renderJSON(w, status, model.ErrorResponse{
		Error:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}
