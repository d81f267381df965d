package fetch

import (
	"net/url"
	"strings"
)

// Platform identifies the ATS hosting a job posting. Each known board gets
// its own extraction selectors; everything else falls back to the generic
// ones in fetch.go.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

// platformHosts maps host fragments to platforms, first match wins.
var platformHosts = []struct {
	fragment string
	platform Platform
}{
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"myworkdayjobs.com", PlatformWorkday},
	{"workday.com", PlatformWorkday},
	{"ashbyhq.com", PlatformAshby},
}

// DetectPlatform recognizes the hosting ATS from a posting URL. Subdomains
// count: boards.greenhouse.io and jobs.lever.co resolve like their parents.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	for _, entry := range platformHosts {
		if strings.Contains(host, entry.fragment) {
			return entry.platform
		}
	}
	return PlatformUnknown
}

// platformContent lists JD-body selectors per board, most specific first.
var platformContent = map[Platform][]string{
	PlatformGreenhouse: {
		".job__description.body",
		".job__description",
		".job-description__content",
		"#content",
		".job-post-container",
	},
	PlatformLever: {
		".posting-page",
		".section-wrapper.page-full-width",
		".posting-description",
		".content",
	},
	PlatformWorkday: {
		"[data-automation-id='jobDescription']",
		".WDXK",
		".gwt-HTML",
		".job-description",
	},
	// Ashby renders client-side; these only match after the browser
	// fallback has run.
	PlatformAshby: {
		"[class*='_descriptionText']",
		"[class*='jobPosting']",
		".job-posting-content",
	},
}

// PlatformContentSelectors returns the JD-body selectors for a board,
// falling back to the generic posting selectors for unrecognized hosts.
func PlatformContentSelectors(platform Platform) []string {
	if selectors, ok := platformContent[platform]; ok {
		return selectors
	}
	return JobPostingSelectors()
}

// noiseCommon matches the chrome every board shares: application forms,
// EEO disclosures, share widgets, and consent banners. Stripping these
// keeps boilerplate out of the keyword extraction.
var noiseCommon = []string{
	"form",
	"#application-form",
	".application-form",
	".application--container",
	".apply-button-container",
	"[data-testid='application-form']",

	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	"[data-testid='eeo']",
	".legal-disclosure",
	".self-identification",

	".social-share",
	".share-buttons",
	".social-links",

	".cookie-banner",
	".cookie-consent",
	".gdpr-notice",
}

// noiseExtras holds the board-specific chrome on top of noiseCommon.
var noiseExtras = map[Platform][]string{
	PlatformGreenhouse: {
		".application--wrapper",
		".voluntary-self-id",
		".voluntary-self-id-wrapper",
		"#usa_self_id_section",
		".post-apply",
	},
	PlatformLever: {
		".apply-section",
		".lever-application-form",
		".posting-apply",
	},
	PlatformWorkday: {
		"[data-automation-id='applyButton']",
		".application-section",
		".WDAF",
	},
	PlatformAshby: {
		"[class*='applicationForm']",
		"[class*='_applyButton']",
	},
}

// PlatformNoiseSelectors returns every selector to strip before extracting
// text from a board's page.
func PlatformNoiseSelectors(platform Platform) []string {
	extras := noiseExtras[platform]
	out := make([]string, 0, len(noiseCommon)+len(extras))
	out = append(out, noiseCommon...)
	return append(out, extras...)
}
