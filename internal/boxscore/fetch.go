package boxscore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const (
	// UserAgent sent with every document request
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultFetchTimeout bounds a single document fetch
	DefaultFetchTimeout = 30 * time.Second
)

// ErrFetchFailed marks a document that could not be retrieved or came back with a non-success status
var ErrFetchFailed = errors.New("result document fetch failed")

// Fetcher retrieves a result document as text
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches plain server-rendered result pages
type HTTPFetcher struct {
	client  *fasthttp.Client
	timeout time.Duration
}

// NewHTTPFetcher creates a fetcher with the given per-request timeout
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPFetcher{
		client: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		timeout: timeout,
	}
}

// Fetch downloads url and returns its body. Non-200 responses wrap ErrFetchFailed.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(f.timeout)
	}
	if err := f.client.DoDeadline(req, resp, deadline); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrFetchFailed, url, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return "", fmt.Errorf("%w: %s returned status %d", ErrFetchFailed, url, resp.StatusCode())
	}

	return string(resp.Body()), nil
}

// BrowserFetcher renders result pages in headless Chrome for sites that build
// their box score tables with JavaScript
type BrowserFetcher struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewBrowserFetcher creates a headless browser allocator
func NewBrowserFetcher(timeout time.Duration, logger zerolog.Logger) *BrowserFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserFetcher{
		allocCtx: allocCtx,
		cancel:   cancel,
		timeout:  timeout,
		logger:   logger.With().Str("component", "browser_fetcher").Logger(),
	}
}

// Close releases the browser allocator
func (f *BrowserFetcher) Close() {
	if f.cancel != nil {
		f.cancel()
	}
}

// Fetch navigates to url and returns the rendered HTML
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(f.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, f.timeout)
	defer cancel()

	// Stop the browser when the caller gives up
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(time.Second),
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		f.logger.Warn().Str("url", url).Err(err).Msg("browser fetch failed")
		return "", fmt.Errorf("%w: %s: %v", ErrFetchFailed, url, err)
	}

	if strings.TrimSpace(htmlContent) == "" {
		return "", fmt.Errorf("%w: %s: empty HTML content returned", ErrFetchFailed, url)
	}

	return htmlContent, nil
}

// ResultURL joins the result site base with a game's relative link
func ResultURL(base, link string) string {
	if link == "" {
		return ""
	}
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(link, "/")
}
