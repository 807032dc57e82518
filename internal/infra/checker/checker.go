package checker

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"records-atlas/internal/domain/entity"
	"records-atlas/internal/observability/metrics"
	"records-atlas/internal/resilience/circuitbreaker"
	"records-atlas/internal/resilience/retry"
	"records-atlas/internal/usecase/linkcheck"
)

const userAgent = "records-atlas-checker/1.0"

// Checker implements linkcheck.Prober over HTTP.
// It probes resource URLs and reports whether they are still alive.
// A URL is alive when the server answers with a 2xx status after redirects.
type Checker struct {
	client  *http.Client
	config  Config
	breaker *circuitbreaker.CircuitBreaker
	retry   retry.Config
	logger  *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewChecker creates a Checker with the given configuration.
func NewChecker(cfg Config, logger *slog.Logger) *Checker {
	c := &Checker{
		config:   cfg,
		breaker:  circuitbreaker.New(circuitbreaker.LinkCheckConfig()),
		retry:    retry.LinkCheckConfig(),
		logger:   logger,
		limiters: make(map[string]*rate.Limiter),
	}
	c.client = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
			}
			if cfg.DenyPrivateIPs {
				if err := c.validateTarget(req.URL); err != nil {
					return fmt.Errorf("redirect target rejected: %w", err)
				}
			}
			return nil
		},
	}
	return c
}

// Check probes a single URL. The returned error is non-nil only for
// invalid input or a cancelled context; an unreachable or dead URL is
// reported through Result with Alive set to false.
func (c *Checker) Check(ctx context.Context, rawURL string) (linkcheck.Result, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return linkcheck.Result{}, fmt.Errorf("Check: parse URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return linkcheck.Result{}, fmt.Errorf("Check: unsupported scheme %q: %w", parsed.Scheme, entity.ErrInvalidInput)
	}
	if c.config.DenyPrivateIPs {
		if err := c.validateTarget(parsed); err != nil {
			return linkcheck.Result{}, fmt.Errorf("Check: %w", err)
		}
	}

	if err := c.waitHost(ctx, parsed.Hostname()); err != nil {
		return linkcheck.Result{}, fmt.Errorf("Check: rate limit: %w", err)
	}

	start := time.Now()
	var res linkcheck.Result
	err = retry.WithBackoff(ctx, c.retry, func() error {
		var attemptErr error
		res, attemptErr = c.probeOnce(ctx, rawURL)
		return attemptErr
	})
	res.Duration = time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return linkcheck.Result{}, fmt.Errorf("Check: %w", ctx.Err())
		}
		var httpErr *retry.HTTPError
		if errors.As(err, &httpErr) {
			res.StatusCode = httpErr.StatusCode
		}
		res.Alive = false
		c.logger.Debug("link check failed",
			slog.String("url", rawURL),
			slog.Int("status", res.StatusCode),
			slog.String("error", err.Error()))
	}
	metrics.RecordLinkCheck(res.Alive, res.Duration)
	return res, nil
}

// probeOnce performs one HEAD probe with a GET fallback. Errors carry
// retry semantics: 5xx and transport failures are retryable, 4xx are not.
func (c *Checker) probeOnce(ctx context.Context, rawURL string) (linkcheck.Result, error) {
	status, err := c.doBreaker(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return linkcheck.Result{}, err
	}

	// Some servers reject or mishandle HEAD. Retry those with GET,
	// which also lets us extract the title and preview.
	needsGet := status == http.StatusMethodNotAllowed ||
		status == http.StatusNotImplemented ||
		status == http.StatusForbidden ||
		c.wantsBody(status)

	if !needsGet {
		return c.resultFor(status), statusError(status)
	}

	var res linkcheck.Result
	status, err = c.doBreaker(ctx, http.MethodGet, rawURL, &res)
	if err != nil {
		return linkcheck.Result{}, err
	}
	r := c.resultFor(status)
	r.Title = res.Title
	r.Preview = res.Preview
	return r, statusError(status)
}

// wantsBody reports whether a successful HEAD should still be followed
// by a GET to harvest page metadata.
func (c *Checker) wantsBody(status int) bool {
	return c.config.FetchPreviews && status >= 200 && status < 300
}

func (c *Checker) resultFor(status int) linkcheck.Result {
	return linkcheck.Result{
		StatusCode: status,
		Alive:      status >= 200 && status < 300,
	}
}

// statusError maps non-2xx statuses to retryable errors so WithBackoff
// retries transient failures and gives up immediately on hard 4xx.
func statusError(status int) error {
	if status >= 200 && status < 300 {
		return nil
	}
	return &retry.HTTPError{StatusCode: status, Message: http.StatusText(status)}
}

// doBreaker runs one request through the circuit breaker. When out is
// non-nil and the response is a successful GET, the body is parsed for
// a title and preview.
func (c *Checker) doBreaker(ctx context.Context, method, rawURL string, out *linkcheck.Result) (int, error) {
	v, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
		if err != nil {
			return 0, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

		resp, err := c.client.Do(req)
		if err != nil {
			return 0, fmt.Errorf("%s %s: %w", method, rawURL, err)
		}
		defer resp.Body.Close()

		if out != nil && method == http.MethodGet &&
			resp.StatusCode >= 200 && resp.StatusCode < 300 {
			c.extractMeta(resp, out)
		}
		return resp.StatusCode, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// waitHost blocks until the per-host token bucket permits a request.
func (c *Checker) waitHost(ctx context.Context, host string) error {
	c.mu.Lock()
	lim, ok := c.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(c.config.HostRPS), c.config.HostBurst)
		c.limiters[host] = lim
	}
	c.mu.Unlock()
	return lim.Wait(ctx)
}

// validateTarget applies the SSRF rules to a request target: the host
// must not be, or resolve to, a private or loopback address.
func (c *Checker) validateTarget(u *url.URL) error {
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("missing host: %w", entity.ErrInvalidInput)
	}
	if strings.EqualFold(host, "localhost") {
		return fmt.Errorf("localhost is not allowed: %w", entity.ErrInvalidInput)
	}
	if ip := net.ParseIP(host); ip != nil {
		if entity.IsPrivateIP(ip) {
			return fmt.Errorf("private address %s is not allowed: %w", host, entity.ErrInvalidInput)
		}
		return nil
	}
	addrs, err := net.LookupIP(host)
	if err != nil {
		// Resolution failures surface as a dead link later, not as
		// an SSRF rejection.
		return nil
	}
	for _, ip := range addrs {
		if entity.IsPrivateIP(ip) {
			return fmt.Errorf("host %s resolves to private address %s: %w", host, ip, entity.ErrInvalidInput)
		}
	}
	return nil
}
