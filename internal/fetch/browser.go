package fetch

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest extracted text accepted from a plain
// HTTP fetch. Anything below it means the posting almost certainly renders
// client-side and needs the headless fallback.
const MinContentLength = 500

// renderSettle is how long scripts get to populate the page after the body
// is ready; dismissSettle covers re-rendering after a consent banner is
// clicked away.
const (
	renderSettle  = 3 * time.Second
	dismissSettle = 1 * time.Second
)

// acceptButtons matches the consent buttons that otherwise sit on top of
// the posting text.
const acceptButtons = `button[id*="accept"], button[class*="accept"]`

// ShouldUseBrowser reports whether an extraction came back too thin to be
// a real posting.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// WithBrowser renders the page in headless Chrome and returns the final
// HTML. Requires a Chrome or Chromium binary on the host. Verbose progress
// goes to stderr like the rest of the CLI's diagnostics.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, verbose bool) (string, error) {
	if verbose {
		fmt.Fprintf(os.Stderr, "rendering %s in headless browser\n", url)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(renderSettle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// A missing banner is the happy path, not an error.
			_ = chromedp.Click(acceptButtons, chromedp.NodeVisible).Do(ctx)
			return nil
		}),
		chromedp.Sleep(dismissSettle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "rendered %d bytes of HTML\n", len(html))
	}
	return html, nil
}
