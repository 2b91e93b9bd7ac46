package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ChipFlash/internal/domain/models"
	"ChipFlash/pkg/cache"
)

// ledgerTTL keeps dispatch marks around long enough to survive any restart
// pattern within a day, then lets them expire instead of accumulating.
const ledgerTTL = 7 * 24 * time.Hour

// CacheLedger implements repository.DispatchLedger on the cache service.
// With the Redis backend the mark survives restarts, which is what makes
// the once-per-day guarantee hold across process lives; SetNX supplies the
// first-writer-wins semantics.
type CacheLedger struct {
	cache cache.Service
}

func NewCacheLedger(c cache.Service) *CacheLedger {
	return &CacheLedger{cache: c}
}

func ledgerKey(day models.TradingDay) string {
	return fmt.Sprintf("dispatch:%s", day)
}

func (l *CacheLedger) AlreadySent(ctx context.Context, day models.TradingDay) (bool, error) {
	exists, err := l.cache.Exists(ctx, ledgerKey(day))
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		return false, fmt.Errorf("ledger check %s: %w", day, err)
	}
	return exists, nil
}

func (l *CacheLedger) MarkSent(ctx context.Context, day models.TradingDay) (bool, error) {
	claimed, err := l.cache.SetNX(ctx, ledgerKey(day), time.Now().UTC().Format(time.RFC3339), ledgerTTL)
	if err != nil {
		return false, fmt.Errorf("ledger mark %s: %w", day, err)
	}
	return claimed, nil
}
