// Package fetch retrieves job postings from the web and reduces them to the
// plain description text the analyzer consumes.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the HTTP request timeout for posting fetches.
const DefaultTimeout = 30 * time.Second

const defaultUserAgent = "Mozilla/5.0 (compatible; ResumeDash/1.0)"

// Error wraps a fetch failure with the URL it happened on.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Posting is a fetched job posting.
type Posting struct {
	URL         string
	Title       string
	Description string
	Platform    Platform
	UsedBrowser bool
}

// Fetcher downloads job postings. The zero value is not usable; construct
// with New.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

func New() *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: DefaultTimeout},
		timeout: DefaultTimeout,
	}
}

// JobPosting fetches a posting URL and extracts its description text. Plain
// HTTP is tried first; when the extracted text is too short to be a real
// posting the page is re-rendered in a headless browser, since most job
// boards are JavaScript applications.
func (f *Fetcher) JobPosting(ctx context.Context, rawURL string) (*Posting, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	platform := DetectPlatform(rawURL)

	html, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	posting := &Posting{URL: rawURL, Platform: platform}
	posting.Title, posting.Description, err = extract(html, platform)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "parse failed", Cause: err}
	}

	if shouldUseBrowser(posting.Description) {
		rendered, berr := renderInBrowser(ctx, rawURL, f.timeout)
		if berr != nil {
			// keep whatever the plain fetch produced
			return posting, nil
		}
		if title, desc, perr := extract(rendered, platform); perr == nil && len(desc) > len(posting.Description) {
			posting.Title = title
			posting.Description = desc
			posting.UsedBrowser = true
		}
	}
	return posting, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "building request", Cause: err}
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "reading body", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return string(body), nil
}

// extract strips noise elements and pulls the posting text using
// platform-aware selectors, falling back to the whole body.
func extract(html string, platform Platform) (title, description string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", err
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("nav, footer, header, script, style, noscript, .ad, .sidebar, .cookie-banner, .popup").Remove()
	if noise := strings.Join(platformNoiseSelectors(platform), ", "); noise != "" {
		doc.Find(noise).Remove()
	}

	var content *goquery.Selection
	for _, selector := range platformContentSelectors(platform) {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}
	return title, cleanWhitespace(content.Text()), nil
}

func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
