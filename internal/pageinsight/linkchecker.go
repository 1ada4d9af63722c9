package pageinsight

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/Bahjat/page-analyzer/internal/model"
)

const (
	maxLinks         = 1000
	maxProbeBodyRead = 64 << 10

	defaultProbeConcurrency = 10
	defaultProbeTimeout     = 5 * time.Second
	defaultProbeBudget      = 30 * time.Second
)

// Failure categories prefixed to LinkProbeResult.Error.
const (
	FailureTimeout    = "timeout"
	FailureDNS        = "dns"
	FailureTLS        = "tls"
	FailureConnection = "connection"
	FailureBlocked    = "blocked"
	FailureInvalidURL = "invalid url"
	FailureCancelled  = "cancelled"
	FailureSkipped    = "skipped"
)

var errInvalidLink = errors.New("cannot build request")

// LinkCheckerOptions bounds how links are probed.
type LinkCheckerOptions struct {
	// Concurrency is the number of probes in flight across all hosts.
	Concurrency int
	// PerHost caps in-flight probes against a single host. Zero means Concurrency.
	PerHost int
	// Timeout bounds a single probe, including the GET fallback.
	Timeout time.Duration
	// Budget bounds a whole Validate call.
	Budget time.Duration
	// RatePerSecond paces probe starts. Zero disables pacing.
	RatePerSecond float64
	// AllowPrivate lets probes reach private and loopback addresses.
	AllowPrivate bool
}

func (o LinkCheckerOptions) withDefaults() LinkCheckerOptions {
	if o.Concurrency < 1 {
		o.Concurrency = defaultProbeConcurrency
	}
	if o.PerHost < 1 || o.PerHost > o.Concurrency {
		o.PerHost = o.Concurrency
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultProbeTimeout
	}
	if o.Budget <= 0 {
		o.Budget = defaultProbeBudget
	}
	return o
}

// LinkChecker probes links for availability using a reusable HTTP client.
type LinkChecker struct {
	client *http.Client
	opts   LinkCheckerOptions
}

// NewLinkChecker returns a LinkChecker that does not follow redirects and,
// unless opts.AllowPrivate is set, refuses private/reserved addresses.
func NewLinkChecker(opts LinkCheckerOptions) *LinkChecker {
	opts = opts.withDefaults()
	return newLinkChecker(opts, &http.Transport{
		DialContext:         newDialer(opts.Timeout, opts.AllowPrivate).DialContext,
		TLSHandshakeTimeout: opts.Timeout,
		MaxConnsPerHost:     opts.PerHost,
		MaxIdleConnsPerHost: opts.PerHost,
		IdleConnTimeout:     90 * time.Second,
	})
}

func newLinkChecker(opts LinkCheckerOptions, transport http.RoundTripper) *LinkChecker {
	return &LinkChecker{
		opts: opts.withDefaults(),
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type probeJob struct {
	index int
	link  string
}

// Validate probes every link and returns one result per link, in input order.
// Probes run on a fixed pool of workers; a failing, slow or cancelled probe
// only affects its own result. Links past the first 1000 are not probed.
func (lc *LinkChecker) Validate(ctx context.Context, links []string) []model.LinkProbeResult {
	results := make([]model.LinkProbeResult, len(links))
	for i, link := range links {
		results[i] = model.LinkProbeResult{Link: link}
	}

	limit := min(len(links), maxLinks)
	for i := limit; i < len(links); i++ {
		results[i].Error = failure(FailureSkipped, fmt.Sprintf("only the first %d links are checked", maxLinks))
	}
	if limit == 0 {
		return results
	}

	ctx, cancel := context.WithTimeout(ctx, lc.opts.Budget)
	defer cancel()

	gates := lc.hostGates(links[:limit])
	pacer := lc.newPacer()

	jobs := make(chan probeJob, limit)
	for i, link := range links[:limit] {
		jobs <- probeJob{index: i, link: link}
	}
	close(jobs)

	var wg sync.WaitGroup
	for range min(limit, lc.opts.Concurrency) {
		wg.Go(func() {
			for job := range jobs {
				results[job.index] = lc.runJob(ctx, job, gates, pacer)
			}
		})
	}
	wg.Wait()

	return results
}

// hostGates builds one semaphore per distinct host before any worker starts,
// so the map is only read concurrently.
func (lc *LinkChecker) hostGates(links []string) map[string]*semaphore.Weighted {
	gates := make(map[string]*semaphore.Weighted)
	for _, link := range links {
		host := hostOf(link)
		if _, ok := gates[host]; !ok {
			gates[host] = semaphore.NewWeighted(int64(lc.opts.PerHost))
		}
	}
	return gates
}

func (lc *LinkChecker) newPacer() *rate.Limiter {
	if lc.opts.RatePerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(lc.opts.RatePerSecond), 1)
}

func (lc *LinkChecker) runJob(ctx context.Context, job probeJob, gates map[string]*semaphore.Weighted, pacer *rate.Limiter) model.LinkProbeResult {
	if err := ctx.Err(); err != nil {
		return notStarted(job.link, err)
	}

	gate := gates[hostOf(job.link)]
	if err := gate.Acquire(ctx, 1); err != nil {
		return notStarted(job.link, err)
	}
	defer gate.Release(1)

	if pacer != nil {
		if err := pacer.Wait(ctx); err != nil {
			return notStarted(job.link, ctx.Err())
		}
	}

	return lc.probe(ctx, job.link)
}

// probe sends HEAD and falls back to GET when the server rejects HEAD.
func (lc *LinkChecker) probe(ctx context.Context, link string) model.LinkProbeResult {
	probeCtx, cancel := context.WithTimeout(ctx, lc.opts.Timeout)
	defer cancel()

	status, err := lc.request(probeCtx, http.MethodHead, link)
	if err == nil && headRejected(status) {
		status, err = lc.request(probeCtx, http.MethodGet, link)
	}
	if err != nil {
		return model.LinkProbeResult{Link: link, Error: describeProbeError(ctx, err, lc.opts.Timeout)}
	}

	return model.LinkProbeResult{
		Link:       link,
		Available:  status == http.StatusOK,
		StatusCode: status,
	}
}

func (lc *LinkChecker) request(ctx context.Context, method, link string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, link, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errInvalidLink, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := lc.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain a little so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxProbeBodyRead))

	return resp.StatusCode, nil
}

func headRejected(status int) bool {
	switch status {
	case http.StatusForbidden, http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return true
	}
	return false
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func failure(category, detail string) string {
	return category + ": " + detail
}

func notStarted(link string, err error) model.LinkProbeResult {
	if errors.Is(err, context.Canceled) {
		return model.LinkProbeResult{Link: link, Error: failure(FailureCancelled, "analysis aborted before the probe started")}
	}
	return model.LinkProbeResult{Link: link, Error: failure(FailureTimeout, "link check budget exhausted before the probe started")}
}

// describeProbeError maps a transport error to a category-prefixed message.
// parent is the context the probe was started with, used to tell a client
// abort apart from a probe timeout.
func describeProbeError(parent context.Context, err error, timeout time.Duration) string {
	var (
		netErr       net.Error
		dnsErr       *net.DNSError
		verifyErr    *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)

	switch {
	case errors.Is(err, errInvalidLink):
		return failure(FailureInvalidURL, err.Error())
	case errors.Is(parent.Err(), context.Canceled):
		return failure(FailureCancelled, "analysis aborted during the probe")
	case errors.Is(err, errBlockedAddress):
		return failure(FailureBlocked, errBlockedAddress.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return failure(FailureTimeout, fmt.Sprintf("no response within %s", timeout))
	case errors.As(err, &dnsErr):
		return failure(FailureDNS, dnsErr.Error())
	case errors.As(err, &verifyErr), errors.As(err, &recordErr), errors.As(err, &authorityErr),
		errors.As(err, &hostnameErr), errors.As(err, &invalidErr):
		return failure(FailureTLS, err.Error())
	default:
		return failure(FailureConnection, err.Error())
	}
}
