package pricing

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"holdings-engine/internal/logger"
	"holdings-engine/internal/types"
)

// ScrapeSource pulls last-traded prices from public quote pages. It is the
// fallback when no quote API is configured; selectors are per-site and
// sources are tried in order until one yields a usable price.
type ScrapeSource struct {
	sources []QuoteSite
	timeout time.Duration
}

// QuoteSite describes one scrapeable quote page.
type QuoteSite struct {
	Name          string
	BaseURL       string
	QuotePath     string // path template, {symbol} replaced
	PriceSelector string // CSS selector of the last-traded price element
	RateLimit     time.Duration
}

// NewScrapeSource creates a scraper over the default public quote pages.
func NewScrapeSource(timeout time.Duration) *ScrapeSource {
	return &ScrapeSource{
		sources: defaultQuoteSites(),
		timeout: timeout,
	}
}

func defaultQuoteSites() []QuoteSite {
	return []QuoteSite{
		{
			Name:          "MoneyControl",
			BaseURL:       "https://www.moneycontrol.com",
			QuotePath:     "/india/stockpricequote/{symbol}",
			PriceSelector: "div.inprice1 span#nsecp",
			RateLimit:     2 * time.Second,
		},
		{
			Name:          "EconomicTimes",
			BaseURL:       "https://economictimes.indiatimes.com",
			QuotePath:     "/markets/stocks/{symbol}",
			PriceSelector: "span.commonLastPrice",
			RateLimit:     2 * time.Second,
		},
	}
}

func (s *ScrapeSource) Quote(ctx context.Context, instrumentKey string) (float64, error) {
	var lastErr error
	for _, site := range s.sources {
		price, err := s.scrapeSite(ctx, site, instrumentKey)
		if err != nil {
			logger.Debug(ctx, "Quote page scrape failed",
				"site", site.Name,
				"instrument", instrumentKey,
				"error", err.Error(),
			)
			lastErr = err
			time.Sleep(site.RateLimit)
			continue
		}
		return price, nil
	}
	return 0, fmt.Errorf("%s: %w: %v", instrumentKey, types.ErrPricingUnavailable, lastErr)
}

func (s *ScrapeSource) scrapeSite(ctx context.Context, site QuoteSite, symbol string) (float64, error) {
	var (
		price float64
		found bool
	)

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(site.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	// Set user agent to avoid being blocked
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(site.PriceSelector, func(e *colly.HTMLElement) {
		if found {
			return
		}
		text := e.Text
		if strings.TrimSpace(text) == "" {
			// Some quote pages nest the figure inside child spans.
			text = firstNestedText(e.DOM)
		}
		if v, err := ParsePrice(text); err == nil {
			price = v
			found = true
		}
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = err
	})

	quoteURL := site.BaseURL + strings.ReplaceAll(site.QuotePath, "{symbol}", strings.ToLower(symbol))
	if err := c.Visit(quoteURL); err != nil {
		return 0, fmt.Errorf("failed to visit %s: %w", quoteURL, err)
	}
	c.Wait()

	if visitErr != nil {
		return 0, visitErr
	}
	if !found {
		return 0, fmt.Errorf("no price element matched %q on %s", site.PriceSelector, site.Name)
	}
	return price, nil
}

// ParsePrice extracts the first numeric price from scraped text,
// tolerating currency symbols, thousands separators and trailing noise
// like a change percentage.
func ParsePrice(text string) (float64, error) {
	runes := []rune(strings.TrimSpace(text))

	start := -1
	for i, r := range runes {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, fmt.Errorf("no numeric price in %q", text)
	}

	var b strings.Builder
scan:
	for _, r := range runes[start:] {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == ',':
			// thousands separator
		default:
			break scan
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable price %q: %w", text, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("non-positive price %q", text)
	}
	return v, nil
}

// firstNestedText returns the text of the first descendant element that
// carries any, depth first.
func firstNestedText(sel *goquery.Selection) string {
	var text string
	sel.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := strings.TrimSpace(s.Text()); t != "" {
			text = t
			return false
		}
		return true
	})
	return text
}

func getDomain(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	return u.Host
}
