// Package point130 scrapes completed-sale results from 130point.com, which
// aggregates eBay sold listings without requiring API credentials.
package point130

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"

	"github.com/guarzo/cardgap/internal/model"
)

const (
	salesEndpoint = "https://130point.com/sales/"
	userAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// Unofficial source; keep the request rate polite.
	defaultRate = rate.Limit(0.5)
)

var priceCleaner = regexp.MustCompile(`[^0-9.]`)

// Client scrapes 130point sold-listing search results.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a 130point scraper.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(defaultRate, 1),
	}
}

// SetRateLimit overrides the outbound request rate.
func (c *Client) SetRateLimit(perSec float64) {
	c.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
}

// Available reports whether the scraper can run. No credentials needed.
func (c *Client) Available() bool { return true }

// Source names this fetcher for logs and metrics.
func (c *Client) Source() string { return "130point" }

// SearchSold posts a sales search and parses the result rows into sale
// candidates. Rows without a title are dropped; unparseable prices become 0.
func (c *Client) SearchSold(ctx context.Context, query string, max int) ([]model.SaleCandidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("query", query)
	form.Set("type", "2") // sold listings

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, salesEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("130point request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("130point returned status %d", resp.StatusCode)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}

	return parseSales(body, max)
}

// decodeBody unwraps the negotiated content encoding.
func decodeBody(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		return gz, nil
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}

// parseSales extracts sale rows from the results table.
func parseSales(body io.Reader, max int) ([]model.SaleCandidate, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse 130point HTML: %w", err)
	}

	var out []model.SaleCandidate
	doc.Find("tr.sales-row, table#salesTable tbody tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		title := strings.TrimSpace(row.Find(".item-title, td.title a").First().Text())
		if title == "" {
			return true
		}

		c := model.SaleCandidate{
			Title:    title,
			Price:    parsePrice(row.Find(".item-price, td.price").First().Text()),
			Currency: "USD",
		}
		if t, ok := parseDate(row.Find(".item-date, td.date").First().Text()); ok {
			c.SoldDate = &t
		}

		out = append(out, c)
		return len(out) < max
	})

	return out, nil
}

// parsePrice coerces a scraped price cell to a float; anything malformed
// comes back as 0, which the aggregation layer treats as "no price".
func parsePrice(text string) float64 {
	cleaned := priceCleaner.ReplaceAllString(text, "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	for _, layout := range []string{"2006-01-02", "01/02/2006", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
