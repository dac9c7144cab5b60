// Package yahoo resolves Yahoo! weather city pages by scraping the site's
// search page. The page has no API; the first city-forecast link in the
// result list is taken as the answer.
package yahoo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/weather-lookup/internal/links"
)

// userAgent is a desktop browser string; the search page serves a reduced
// layout without city links to unknown clients.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var cityPagePath = regexp.MustCompile(`^/weather/jp/\d+/\d+/\d+\.html$`)

// Scraper implements links.PlaceResolver against the Yahoo! weather search
// page.
type Scraper struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewScraper creates a scraper allowing at most perSecond page fetches per
// second.
func NewScraper(baseURL string, timeout time.Duration, perSecond float64, logger *slog.Logger) *Scraper {
	return &Scraper{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:     logger,
	}
}

func (s *Scraper) Name() string { return "yahoo-scrape" }

// ResolvePlaceURL returns the first city page listed for place.City. Any
// failure, including a page with no matching link, is a miss.
func (s *Scraper) ResolvePlaceURL(ctx context.Context, place links.Place) (string, bool) {
	if place.City == "" {
		return "", false
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return "", false
	}

	path, err := s.firstCityLink(ctx, place.City)
	if err != nil {
		s.logger.Warn("yahoo search scrape failed", "city", place.City, "error", err)
		return "", false
	}
	if path == "" {
		return "", false
	}
	return s.baseURL + path, true
}

func (s *Scraper) firstCityLink(ctx context.Context, city string) (string, error) {
	u := s.baseURL + "/weather/search/?" + url.Values{"k": {city}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("yahoo search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("yahoo search: status %d", resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}
	doc, err := html.Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return findCityLink(doc), nil
}

// findCityLink walks the document in order and returns the path of the first
// anchor pointing at a city forecast page.
func findCityLink(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "a" {
		for _, attr := range n.Attr {
			if attr.Key != "href" {
				continue
			}
			if p := cityPath(attr.Val); p != "" {
				return p
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if p := findCityLink(child); p != "" {
			return p
		}
	}
	return ""
}

// cityPath accepts relative paths and absolute links on the Yahoo! host.
func cityPath(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.Host != "" && u.Host != "weather.yahoo.co.jp" {
		return ""
	}
	if !cityPagePath.MatchString(u.Path) {
		return ""
	}
	return u.Path
}
