// Package fubon fetches and extracts Fubon Futures' daily chip report.
// The publisher posts one PDF per trading day at a date-stamped URL, so a
// successful fetch of the day's URL is itself the freshness proof.
package fubon

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ChipFlash/internal/domain/models"
	"ChipFlash/internal/service/pdftext"
	"ChipFlash/pkg/logger"

	"github.com/go-resty/resty/v2"
)

const userAgent = "Mozilla/5.0 (compatible; chipflash/1.0)"

// Adapter implements repository.FubonSource.
type Adapter struct {
	client  *resty.Client
	baseURL string
	log     *logger.Logger
}

func NewAdapter(baseURL string, timeout time.Duration, log *logger.Logger) *Adapter {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetRetryCount(1)
	return &Adapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// Fetch downloads the report dated exactly day and extracts its fields.
// A 404, or a non-PDF body at the report URL, means the publisher has not
// posted yet and maps to models.ErrNotReady.
func (a *Adapter) Fetch(ctx context.Context, day models.TradingDay) (*models.FubonPayload, error) {
	url := a.reportURL(day)

	resp, err := a.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fubon fetch %s: %w", url, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("fubon report for %s: %w", day, models.ErrNotReady)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fubon fetch %s: unexpected status %d", url, resp.StatusCode())
	}
	body := resp.Body()
	if !pdftext.IsPDF(body) {
		return nil, fmt.Errorf("fubon report for %s not a pdf yet: %w", day, models.ErrNotReady)
	}

	text, err := pdftext.Extract(body)
	if err != nil {
		return nil, fmt.Errorf("fubon report for %s: %w", day, err)
	}

	payload := parsePayload(day, text)
	if missing := payload.Missing(); len(missing) > 0 {
		a.log.Warn("fubon extraction left fields unset",
			logger.String("day", day.String()),
			logger.Strings("fields", missing))
	}
	return payload, nil
}

// reportURL builds the date-stamped PDF location, e.g. TWPM_2025.03.10.pdf.
func (a *Adapter) reportURL(day models.TradingDay) string {
	stamp := strings.ReplaceAll(day.String(), "/", ".")
	return fmt.Sprintf("%s/TWPM_%s.pdf", a.baseURL, stamp)
}
