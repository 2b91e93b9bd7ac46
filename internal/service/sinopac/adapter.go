// Package sinopac fetches and extracts SinoPac Futures' daily chip report.
// Unlike Fubon there is no predictable report URL: the research page lists
// report links, and the day's entry appears only after publication. The
// listing is scraped for a link titled 台指期籌碼快訊 dated exactly the
// requested day.
package sinopac

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"ChipFlash/internal/domain/models"
	"ChipFlash/internal/service/pdftext"
	"ChipFlash/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	userAgent  = "Mozilla/5.0 (compatible; chipflash/1.0)"
	titleToken = "台指期籌碼快訊"
)

// Adapter implements repository.SinopacSource.
type Adapter struct {
	client  *resty.Client
	listURL string
	siteURL string
	log     *logger.Logger
}

// NewAdapter builds the adapter. siteURL is the base the listing's relative
// hrefs resolve against; empty falls back to the listing URL itself.
func NewAdapter(listURL, siteURL string, timeout time.Duration, log *logger.Logger) *Adapter {
	if siteURL == "" {
		siteURL = listURL
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetRetryCount(1)
	return &Adapter{
		client:  client,
		listURL: listURL,
		siteURL: siteURL,
		log:     log,
	}
}

// Fetch locates the day's report link on the research page, downloads the
// PDF and extracts its fields. An absent or stale listing entry maps to
// models.ErrNotReady.
func (a *Adapter) Fetch(ctx context.Context, day models.TradingDay) (*models.SinopacPayload, error) {
	reportURL, err := a.findReportURL(ctx, day)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.R().SetContext(ctx).Get(reportURL)
	if err != nil {
		return nil, fmt.Errorf("sinopac fetch %s: %w", reportURL, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("sinopac fetch %s: unexpected status %d", reportURL, resp.StatusCode())
	}
	body := resp.Body()
	if !pdftext.IsPDF(body) {
		return nil, fmt.Errorf("sinopac report for %s not a pdf: %w", day, models.ErrNotReady)
	}

	text, err := pdftext.Extract(body)
	if err != nil {
		return nil, fmt.Errorf("sinopac report for %s: %w", day, err)
	}

	payload := parsePayload(day, text)
	if missing := payload.Missing(); len(missing) > 0 {
		a.log.Warn("sinopac extraction left fields unset",
			logger.String("day", day.String()),
			logger.Strings("fields", missing))
	}
	return payload, nil
}

// findReportURL scrapes the listing for the chip report link dated exactly
// day. A listing that loads fine but only carries older entries is the
// normal pre-publication state, not an error.
func (a *Adapter) findReportURL(ctx context.Context, day models.TradingDay) (string, error) {
	resp, err := a.client.R().SetContext(ctx).Get(a.listURL)
	if err != nil {
		return "", fmt.Errorf("sinopac list %s: %w", a.listURL, err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("sinopac list %s: unexpected status %d", a.listURL, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return "", fmt.Errorf("sinopac list parse: %w", err)
	}

	var href string
	doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(sel.Text(), titleToken) {
			return true
		}
		if !entryDatedToday(sel, day) {
			return true
		}
		href, _ = sel.Attr("href")
		return href == ""
	})
	if href == "" {
		return "", fmt.Errorf("sinopac report for %s not listed: %w", day, models.ErrNotReady)
	}
	return a.resolveURL(href)
}

// entryDatedToday checks the link or its listing row for the day's date.
// The site renders dates as 2025/03/10 in some layouts and 2025-03-10 in
// others.
func entryDatedToday(sel *goquery.Selection, day models.TradingDay) bool {
	scope := sel.Text()
	if parent := sel.Closest("li,tr"); parent.Length() > 0 {
		scope = parent.Text()
	}
	slash := day.String()
	dash := strings.ReplaceAll(slash, "/", "-")
	return strings.Contains(scope, slash) || strings.Contains(scope, dash)
}

func (a *Adapter) resolveURL(href string) (string, error) {
	base, err := url.Parse(a.siteURL)
	if err != nil {
		return "", fmt.Errorf("sinopac site url: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("sinopac report href %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}
