package usecase

import (
	"context"
	"errors"

	"ChipFlash/internal/domain/models"
	"ChipFlash/internal/domain/repository"
	"ChipFlash/pkg/cache"
	"ChipFlash/pkg/logger"
)

// latestReportKey caches the most recently rendered report text.
const latestReportKey = "report:latest"

// ReportBuilder runs the merge-archive-render pipeline shared by the
// scheduled and manual paths: look up the prior report, merge the payload
// pair, persist the result and render the message.
type ReportBuilder struct {
	rec     *Reconciler
	fmt     *Formatter
	archive repository.ReportArchive
	cache   cache.Service
	log     *logger.Logger
}

func NewReportBuilder(rec *Reconciler, fm *Formatter, archive repository.ReportArchive, c cache.Service, log *logger.Logger) *ReportBuilder {
	return &ReportBuilder{rec: rec, fmt: fm, archive: archive, cache: c, log: log}
}

// Build merges the pair into day's canonical report and renders it.
// A missing prior report, and even an archive read failure, degrade to
// unavailable deltas rather than blocking the day. Archive and cache writes
// are best effort; the report is already final when they run.
func (b *ReportBuilder) Build(ctx context.Context, day models.TradingDay, fubon *models.FubonPayload, sinopac *models.SinopacPayload) (*models.CanonicalReport, string, error) {
	prev, err := b.archive.LastBefore(ctx, day)
	if err != nil {
		if !errors.Is(err, models.ErrNoPriorReport) {
			b.log.Warn("prior report lookup failed, deltas will be unavailable",
				logger.String("day", day.String()), logger.Error(err))
		}
		prev = nil
	}

	rep, err := b.rec.Merge(day, fubon, sinopac, prev)
	if err != nil {
		return nil, "", err
	}

	if err := b.archive.Store(ctx, rep); err != nil {
		b.log.Error("report archive store failed",
			logger.String("day", day.String()), logger.Error(err))
	}

	text := b.fmt.Render(rep)

	if b.cache != nil {
		if err := b.cache.Set(ctx, latestReportKey, text, 0); err != nil {
			b.log.Warn("latest report cache set failed", logger.Error(err))
		}
	}

	return rep, text, nil
}
