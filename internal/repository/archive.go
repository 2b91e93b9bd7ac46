package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"ChipFlash/internal/domain/models"
	"ChipFlash/pkg/clickhouse"
)

// Schema for the canonical report archive. ReplacingMergeTree keyed on the
// day makes re-storing the same day (manual trigger after the automatic
// push) an overwrite, not a duplicate.
var archiveSchema = []string{
	`CREATE TABLE IF NOT EXISTS chip_reports (
		day        String,
		payload    String,
		created_at DateTime DEFAULT now()
	) ENGINE = ReplacingMergeTree(created_at)
	ORDER BY day`,
}

// ClickHouseArchive implements repository.ReportArchive. The archived prior
// report is what every day-over-day delta is computed from, so losing it
// degrades the next report to unavailable deltas but never blocks it.
type ClickHouseArchive struct {
	db *sql.DB
}

func NewClickHouseArchive(ctx context.Context, client *clickhouse.Client) (*ClickHouseArchive, error) {
	if err := client.InitSchema(ctx, archiveSchema); err != nil {
		return nil, fmt.Errorf("report archive schema: %w", err)
	}
	return &ClickHouseArchive{db: client.DB()}, nil
}

func (a *ClickHouseArchive) Store(ctx context.Context, rep *models.CanonicalReport) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("archive marshal %s: %w", rep.Day, err)
	}
	_, err = a.db.ExecContext(ctx,
		`INSERT INTO chip_reports (day, payload) VALUES (?, ?)`,
		rep.Day.String(), string(payload))
	if err != nil {
		return fmt.Errorf("archive store %s: %w", rep.Day, err)
	}
	return nil
}

// LastBefore returns the most recent report strictly earlier than day.
// The canonical day layout is zero-padded, so lexicographic order is
// chronological order and a string comparison suffices.
func (a *ClickHouseArchive) LastBefore(ctx context.Context, day models.TradingDay) (*models.CanonicalReport, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT payload FROM chip_reports FINAL WHERE day < ? ORDER BY day DESC LIMIT 1`,
		day.String())

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNoPriorReport
		}
		return nil, fmt.Errorf("archive lookup before %s: %w", day, err)
	}

	var rep models.CanonicalReport
	if err := json.Unmarshal([]byte(payload), &rep); err != nil {
		return nil, fmt.Errorf("archive unmarshal before %s: %w", day, err)
	}
	return &rep, nil
}

// MemoryArchive implements repository.ReportArchive in process memory, for
// development runs without ClickHouse. Deltas then survive only as long as
// the process does.
type MemoryArchive struct {
	mu      sync.Mutex
	reports map[models.TradingDay]*models.CanonicalReport
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{reports: make(map[models.TradingDay]*models.CanonicalReport)}
}

func (a *MemoryArchive) Store(_ context.Context, rep *models.CanonicalReport) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reports[rep.Day] = rep
	return nil
}

func (a *MemoryArchive) LastBefore(_ context.Context, day models.TradingDay) (*models.CanonicalReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	days := make([]models.TradingDay, 0, len(a.reports))
	for d := range a.reports {
		if d < day {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return nil, models.ErrNoPriorReport
	}
	sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })
	return a.reports[days[0]], nil
}
