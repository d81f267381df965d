package fetch

import (
	"context"
	"time"
)

// PostingResult is a fetched job posting reduced to plain text.
type PostingResult struct {
	URL         string   `json:"url"`
	Platform    Platform `json:"platform"`
	Text        string   `json:"text"`
	UsedBrowser bool     `json:"used_browser,omitempty"`
}

// PostingOptions configures a job posting fetch.
type PostingOptions struct {
	HTTP       *Options
	UseBrowser bool // allow the headless-browser fallback for SPA boards
	Verbose    bool
}

// FetchJobPosting retrieves a posting URL and extracts its JD text using
// platform-aware selectors. When the plain HTTP fetch yields too little text
// and the browser fallback is enabled, the page is re-rendered headlessly
// before extraction runs again.
func FetchJobPosting(ctx context.Context, urlStr string, opts *PostingOptions) (*PostingResult, error) {
	if opts == nil {
		opts = &PostingOptions{}
	}

	platform := DetectPlatform(urlStr)
	contentSelectors := PlatformContentSelectors(platform)
	noiseSelectors := PlatformNoiseSelectors(platform)

	result, err := URL(ctx, urlStr, opts.HTTP)
	if err != nil {
		return nil, err
	}

	text, err := ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to extract posting text", Cause: err}
	}

	posting := &PostingResult{
		URL:      urlStr,
		Platform: platform,
		Text:     text,
	}

	if !ShouldUseBrowser(text) || !opts.UseBrowser {
		if ShouldUseBrowser(text) {
			return posting, &Error{URL: urlStr, Message: "extracted text too short; posting likely renders client-side"}
		}
		return posting, nil
	}

	timeout := DefaultTimeout
	if opts.HTTP != nil && opts.HTTP.Timeout > 0 {
		timeout = opts.HTTP.Timeout
	}
	html, err := WithBrowser(ctx, urlStr, deadline(ctx, timeout), opts.Verbose)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "browser fallback failed", Cause: err}
	}

	text, err = ExtractMainText(html, contentSelectors, noiseSelectors...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to extract rendered posting text", Cause: err}
	}

	posting.Text = text
	posting.UsedBrowser = true
	if ShouldUseBrowser(text) {
		return posting, &Error{URL: urlStr, Message: "rendered page still yields too little text"}
	}
	return posting, nil
}

// deadline computes the remaining context budget, capped at the default
// timeout, so the browser render never outlives the caller.
func deadline(ctx context.Context, fallback time.Duration) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if remaining := time.Until(dl); remaining < fallback {
			return remaining
		}
	}
	return fallback
}
