package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/wonny/optionlab/backend/pkg/httputil"
	"github.com/wonny/optionlab/backend/pkg/logger"
)

// maxSisePages bounds pagination on the daily-quote listing.
const maxSisePages = 150

// SiseClient scrapes daily close tables from a finance quote site. One page
// holds ten trading days, newest first; the client walks pages until the
// requested range is covered.
type SiseClient struct {
	baseURL    string
	httpClient *httputil.Client
	limiter    *rate.Limiter
	logger     *logger.Logger
}

// NewSiseClient creates a new scrape client. rps caps outbound requests.
func NewSiseClient(baseURL string, httpClient *httputil.Client, rps float64, log *logger.Logger) *SiseClient {
	if rps <= 0 {
		rps = 2
	}
	return &SiseClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     log,
	}
}

// DailyCloses implements Provider by scraping the paginated daily-quote table.
func (c *SiseClient) DailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]Bar, error) {
	var bars []Bar
	noDataPages := 0

	for page := 1; page <= maxSisePages; page++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}

		url := fmt.Sprintf("%s/item/sise_day.naver?code=%s&page=%d", c.baseURL, ticker, page)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request failed: %w", err)
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
		req.Header.Set("Referer", c.baseURL+"/")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		pageBars, lastDate, err := c.parseSisePage(resp)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("parse page %d failed: %w", page, err)
		}

		for _, b := range pageBars {
			if b.Date.Before(from) || b.Date.After(to) {
				continue
			}
			bars = append(bars, b)
		}

		// Pages run newest-first: once past the range start, stop.
		if !lastDate.IsZero() && lastDate.Before(from) {
			break
		}

		if lastDate.IsZero() {
			noDataPages++
			if noDataPages >= 3 {
				break
			}
		} else {
			noDataPages = 0
		}
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(bars),
	}).Debug("Fetched daily closes")

	if len(bars) == 0 {
		return nil, errEmpty(ticker, from, to)
	}
	return bars, nil
}

// parseSisePage extracts (date, close) rows from one quote page.
// Returns the oldest date seen on the page for pagination control.
func (c *SiseClient) parseSisePage(resp *http.Response) ([]Bar, time.Time, error) {
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, time.Time{}, err
	}

	var bars []Bar
	var lastDate time.Time

	doc.Find("table.type2 tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td span")
		if cells.Length() < 2 {
			return
		}

		dateStr := strings.TrimSpace(cells.Eq(0).Text())
		date, err := time.Parse("2006.01.02", dateStr)
		if err != nil {
			return
		}

		closeStr := strings.ReplaceAll(strings.TrimSpace(cells.Eq(1).Text()), ",", "")
		closePrice, err := strconv.ParseFloat(closeStr, 64)
		if err != nil || closePrice <= 0 {
			return
		}

		bars = append(bars, Bar{Date: date, Close: closePrice})
		if lastDate.IsZero() || date.Before(lastDate) {
			lastDate = date
		}
	})

	return bars, lastDate, nil
}
