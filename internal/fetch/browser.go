package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest extracted text accepted as a real page.
// Anything below it is assumed to be an unhydrated app shell.
const MinContentLength = 500

// ShouldUseBrowser reports whether the plain HTTP fetch came back too thin
// to trust. Obituary networks increasingly ship JavaScript shells whose
// notices only exist after hydration, and those need a real browser.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// WithBrowser loads the URL in headless Chrome and returns the DOM after
// scripts have run. Chrome or Chromium must be installed on the host.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, verbose bool) (string, error) {
	if verbose {
		log.Printf("[browser] rendering %s", url)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	var html string
	if err := chromedp.Run(browserCtx, renderTasks(url, &html)); err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if verbose {
		log.Printf("[browser] rendered %d bytes from %s", len(html), url)
	}
	return html, nil
}

// renderTasks navigates, gives scripts time to hydrate, swats any consent
// banner, and captures the resulting DOM.
func renderTasks(url string, html *string) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(3 * time.Second),
		chromedp.ActionFunc(dismissConsentBanner),
		chromedp.Sleep(1 * time.Second),
		chromedp.OuterHTML("html", html),
	}
}

// dismissConsentBanner clicks the accept button of common cookie walls.
// Click waits for its selector, so the attempt gets a short deadline of its
// own; pages without a banner just spend it and move on.
func dismissConsentBanner(ctx context.Context) error {
	const selector = `button[id*="accept" i], button[class*="accept" i], button[aria-label*="accept" i]`
	clickCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_ = chromedp.Click(selector, chromedp.NodeVisible).Do(clickCtx)
	return nil
}
