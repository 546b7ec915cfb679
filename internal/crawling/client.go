package crawling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/profile2pdf/internal/credentials"
	"github.com/jonathan/profile2pdf/internal/observability"
	"github.com/jonathan/profile2pdf/internal/types"
)

const (
	// DefaultBaseURL is the Firecrawl API endpoint
	DefaultBaseURL = "https://api.firecrawl.dev"
	// DefaultTimeout bounds a whole crawl, from job start to the last poll
	DefaultTimeout = 90 * time.Second
	// DefaultPollInterval is the wait between job status checks
	DefaultPollInterval = 2 * time.Second
)

// Crawler is anything that can crawl a URL into labeled records.
type Crawler interface {
	Crawl(ctx context.Context, url string, opts Options) (*types.CrawlResult, error)
}

// Client talks to the Firecrawl v1 crawl API. The credential is read from
// the store at the start of every call, so a key set while the process runs
// takes effect on the next crawl.
type Client struct {
	store        credentials.Store
	baseURL      string
	httpClient   *http.Client
	timeout      time.Duration
	pollInterval time.Duration
	logger       observability.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithBaseURL points the client at another API endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each crawl.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithPollInterval sets the job status polling interval.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) { c.pollInterval = d }
}

// WithLogger sets the logger.
func WithLogger(l observability.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client reading its API key from store.
func NewClient(store credentials.Store, opts ...ClientOption) *Client {
	c := &Client{
		store:        store,
		baseURL:      DefaultBaseURL,
		httpClient:   &http.Client{},
		timeout:      DefaultTimeout,
		pollInterval: DefaultPollInterval,
		logger:       observability.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type scrapeOptions struct {
	Formats []string `json:"formats"`
}

type crawlRequest struct {
	URL           string        `json:"url"`
	Limit         int           `json:"limit,omitempty"`
	ScrapeOptions scrapeOptions `json:"scrapeOptions"`
}

type crawlStartResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Error   string `json:"error"`
}

type pageMetadata struct {
	Title      string `json:"title"`
	SourceURL  string `json:"sourceURL"`
	StatusCode int    `json:"statusCode"`
}

type pageData struct {
	Markdown string       `json:"markdown"`
	HTML     string       `json:"html"`
	RawHTML  string       `json:"rawHtml"`
	Metadata pageMetadata `json:"metadata"`
}

type crawlStatusResponse struct {
	Success   *bool      `json:"success"`
	Status    string     `json:"status"`
	Total     int        `json:"total"`
	Completed int        `json:"completed"`
	Data      []pageData `json:"data"`
	Next      string     `json:"next"`
	Error     string     `json:"error"`
}

// Crawl crawls url and returns labeled records built from every page.
//
// ErrMissingCredential is returned, with no request sent, when the store has
// no key. A store failure is returned as a *CrawlError. Everything that goes
// wrong once the provider is involved (HTTP errors, a failed job, the crawl
// timeout, caller cancellation) is reported as CrawlResult{Success: false}
// with a nil error.
func (c *Client) Crawl(ctx context.Context, url string, opts Options) (*types.CrawlResult, error) {
	key, ok, err := c.store.Get(ctx)
	if err != nil {
		return nil, &CrawlError{Message: "failed to read API key", Cause: err}
	}
	if !ok {
		return nil, ErrMissingCredential
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	c.logger.Debug("starting crawl", zap.String("url", url), zap.Int("limit", opts.Limit))

	jobID, err := c.startJob(ctx, key, url, opts)
	if err != nil {
		return c.failure(url, err), nil
	}

	pages, err := c.waitForJob(ctx, key, jobID, url)
	if err != nil {
		return c.failure(url, err), nil
	}

	records, err := ExtractRecords(pages, opts.Extractors)
	if err != nil {
		return c.failure(url, err), nil
	}

	c.logger.Info("crawl completed",
		zap.String("url", url),
		zap.Int("pages", len(pages)),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(start)))
	return &types.CrawlResult{Success: true, Records: records}, nil
}

func (c *Client) failure(url string, err error) *types.CrawlResult {
	if errors.Is(err, context.DeadlineExceeded) {
		err = &CrawlError{Message: fmt.Sprintf("crawl timed out after %s", c.timeout), Cause: err}
	}
	c.logger.Warn("crawl failed", zap.String("url", url), zap.Error(err))
	return &types.CrawlResult{Success: false, Error: err.Error()}
}

func (c *Client) startJob(ctx context.Context, key, url string, opts Options) (string, error) {
	body, err := json.Marshal(crawlRequest{
		URL:           url,
		Limit:         opts.Limit,
		ScrapeOptions: scrapeOptions{Formats: opts.Formats},
	})
	if err != nil {
		return "", &CrawlError{Message: "failed to encode crawl request", Cause: err}
	}

	var resp crawlStartResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/crawl", key, body, &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.ID == "" {
		msg := resp.Error
		if msg == "" {
			msg = "crawl job was not accepted"
		}
		return "", &ProviderError{Message: msg}
	}
	return resp.ID, nil
}

// waitForJob polls the job until it completes, then follows "next" links
// to collect every page of the result.
func (c *Client) waitForJob(ctx context.Context, key, jobID, target string) ([]Page, error) {
	statusURL := c.baseURL + "/v1/crawl/" + jobID

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var status crawlStatusResponse
		if err := c.do(ctx, http.MethodGet, statusURL, key, nil, &status); err != nil {
			return nil, err
		}

		switch status.Status {
		case "completed":
			pages := toPages(status.Data, target)
			next := status.Next
			for next != "" {
				var more crawlStatusResponse
				if err := c.do(ctx, http.MethodGet, next, key, nil, &more); err != nil {
					return nil, err
				}
				pages = append(pages, toPages(more.Data, target)...)
				next = more.Next
			}
			return pages, nil
		case "failed", "cancelled":
			msg := status.Error
			if msg == "" {
				msg = "crawl job " + status.Status
			}
			return nil, &ProviderError{Message: msg}
		}
		if status.Success != nil && !*status.Success {
			return nil, &ProviderError{Message: status.Error}
		}

		c.logger.Debug("crawl in progress",
			zap.String("job", jobID),
			zap.String("status", status.Status),
			zap.Int("completed", status.Completed),
			zap.Int("total", status.Total))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// toPages converts provider pages. Pages without a source URL are attributed to target.
func toPages(data []pageData, target string) []Page {
	pages := make([]Page, 0, len(data))
	for _, d := range data {
		html := d.HTML
		if html == "" {
			html = d.RawHTML
		}
		pageURL := d.Metadata.SourceURL
		if pageURL == "" {
			pageURL = target
		}
		pages = append(pages, Page{
			URL:      pageURL,
			HTML:     html,
			Markdown: d.Markdown,
			Title:    d.Metadata.Title,
		})
	}
	return pages
}

func (c *Client) do(ctx context.Context, method, url, key string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &CrawlError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &CrawlError{Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &CrawlError{Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(data, &errBody) == nil && errBody.Error != "" {
			msg = errBody.Error
		}
		return &ProviderError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &CrawlError{Message: "failed to decode provider response", Cause: err}
	}
	return nil
}
