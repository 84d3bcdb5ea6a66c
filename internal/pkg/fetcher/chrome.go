package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/chromedp/chromedp"

	"github.com/Vodeneev/specialsbot/internal/pkg/config"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

	menuSelector         = ".menu-items-wrapper"
	enhancedLinkSelector = `.menu-items-wrapper a[href*="enhanced"]`
	eventSelector        = ".widgetEvent"
)

// Fetcher renders the specials listing in headless Chrome and returns
// the page HTML for extraction.
type Fetcher struct {
	cfg *config.ScraperConfig
}

// New creates a page fetcher.
func New(cfg *config.ScraperConfig) *Fetcher {
	return &Fetcher{cfg: cfg}
}

// Fetch navigates to the base URL, follows the enhanced-specials menu
// link and returns the rendered page body once event elements are
// present. Failure to locate the link or the events container is fatal
// to the run: there is no partial fallback.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	if f.cfg.BaseURL == "" {
		return "", fmt.Errorf("scraper base_url is required")
	}

	timeout := f.cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	userAgent := f.cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		// Images are never extracted, skipping them speeds up the load.
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	slog.Info("Navigating to start page", "url", f.cfg.BaseURL)
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(f.cfg.BaseURL),
		chromedp.WaitVisible(menuSelector, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("failed to load start page: %w", err)
	}

	targetURL, err := f.resolveEnhancedLink(browserCtx)
	if err != nil {
		return "", err
	}

	slog.Info("Navigating to enhanced specials page", "url", targetURL)
	if err := chromedp.Run(browserCtx, chromedp.Navigate(targetURL)); err != nil {
		return "", fmt.Errorf("failed to navigate to enhanced specials page: %w", err)
	}

	if err := f.waitForEvents(browserCtx); err != nil {
		return "", err
	}

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("body", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

// resolveEnhancedLink reads the href of the enhanced-specials menu link
// and resolves it against the base URL.
func (f *Fetcher) resolveEnhancedLink(ctx context.Context) (string, error) {
	var href string
	var ok bool
	if err := chromedp.Run(ctx,
		chromedp.AttributeValue(enhancedLinkSelector, "href", &href, &ok, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("failed to read enhanced specials link: %w", err)
	}
	if !ok || href == "" {
		return "", fmt.Errorf("enhanced specials link not found in menu")
	}

	base, err := url.Parse(f.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base_url: %w", err)
	}
	target, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid enhanced specials link %q: %w", href, err)
	}
	return base.ResolveReference(target).String(), nil
}

// waitForEvents polls until at least one event element is rendered.
// Dynamic content can lag behind navigation, so the check retries with
// exponential backoff until the fetch context expires.
func (f *Fetcher) waitForEvents(ctx context.Context) error {
	check := func() error {
		var count int
		script := fmt.Sprintf(`document.querySelectorAll(%q).length`, eventSelector)
		if err := chromedp.Run(ctx, chromedp.Evaluate(script, &count)); err != nil {
			return backoff.Permanent(err)
		}
		if count == 0 {
			return fmt.Errorf("no event elements on page yet")
		}
		slog.Info("Events container ready", "events", count)
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 5 * time.Second

	if err := backoff.Retry(check, backoff.WithContext(policy, ctx)); err != nil {
		return fmt.Errorf("events container not found: %w", err)
	}
	return nil
}
