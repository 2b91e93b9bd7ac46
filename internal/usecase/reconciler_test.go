package usecase

import (
	"testing"
	"time"

	"ChipFlash/internal/domain/models"

	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 15, 5, 0, 0, time.UTC)
}

func TestMerge_NoPriorReport(t *testing.T) {
	rec := NewReconciler(fixedNow)
	day := models.TradingDay("2025/03/10")

	rep, err := rec.Merge(day, fullFubonPayload(day), fullSinopacPayload(day), nil)
	require.NoError(t, err)

	require.Equal(t, day, rep.Day)
	require.Equal(t, 17500.50, rep.TaiexClose)
	require.Equal(t, -20.5, rep.TxBias)
	require.Equal(t, int64(-10000), rep.ThreeInstOI)

	// No prior report: every comparison stays unavailable, never zero.
	require.Nil(t, rep.TaiexChange)
	require.Nil(t, rep.TaiexChangePct)
	require.Nil(t, rep.TxChange)
	require.Nil(t, rep.ThreeInstOIDelta)
	require.Nil(t, rep.ForeignOIDelta)
	require.Nil(t, rep.PCRatioPrev)
	require.Nil(t, rep.VIXPrev)
	require.Nil(t, rep.RetailMTXRatioPrev)
}

func TestMerge_DeltasAgainstPrior(t *testing.T) {
	rec := NewReconciler(fixedNow)
	day := models.TradingDay("2025/03/10")

	prev := &models.CanonicalReport{
		Day:            models.TradingDay("2025/03/07"),
		TaiexClose:     17400.00,
		TxClose:        17390.00,
		ThreeInstOI:    -12000,
		ForeignOI:      -26500,
		TrustOI:        17500,
		DealerOI:       -3000,
		ForeignCallOI:  50000,
		ForeignPutOI:   49000,
		PCRatio:        101.10,
		VIX:            19.00,
		RetailMTXRatio: 10.00,
	}

	rep, err := rec.Merge(day, fullFubonPayload(day), fullSinopacPayload(day), prev)
	require.NoError(t, err)

	require.Equal(t, 100.5, *rep.TaiexChange)
	require.InDelta(t, 0.58, *rep.TaiexChangePct, 0.001)
	require.Equal(t, 90.0, *rep.TxChange)
	require.Equal(t, int64(2000), *rep.ThreeInstOIDelta)
	require.Equal(t, int64(1500), *rep.ForeignOIDelta)
	require.Equal(t, int64(500), *rep.TrustOIDelta)
	require.Equal(t, int64(0), *rep.DealerOIDelta)
	require.Equal(t, int64(2000), *rep.ForeignCallOIDelta)
	require.Equal(t, int64(-1000), *rep.ForeignPutOIDelta)
	require.Equal(t, 101.10, *rep.PCRatioPrev)
	require.Equal(t, 19.00, *rep.VIXPrev)
	require.Equal(t, 10.00, *rep.RetailMTXRatioPrev)
}

func TestMerge_MissingFieldRejectsDay(t *testing.T) {
	rec := NewReconciler(fixedNow)
	day := models.TradingDay("2025/03/10")

	fubon := fullFubonPayload(day)
	fubon.InstForeign = nil

	rep, err := rec.Merge(day, fubon, fullSinopacPayload(day), nil)
	require.Nil(t, rep)

	var incomplete *models.DataIncompleteError
	require.ErrorAs(t, err, &incomplete)
	require.Equal(t, models.SourceFubon, incomplete.Source)
	require.Equal(t, "inst_foreign", incomplete.Field)
}

func TestMerge_MissingSinopacField(t *testing.T) {
	rec := NewReconciler(fixedNow)
	day := models.TradingDay("2025/03/10")

	sinopac := fullSinopacPayload(day)
	sinopac.VIX = nil

	_, err := rec.Merge(day, fullFubonPayload(day), sinopac, nil)

	var incomplete *models.DataIncompleteError
	require.ErrorAs(t, err, &incomplete)
	require.Equal(t, models.SourceSinopac, incomplete.Source)
	require.Equal(t, "vix", incomplete.Field)
}

func TestMerge_StalePayloadRejected(t *testing.T) {
	rec := NewReconciler(fixedNow)
	day := models.TradingDay("2025/03/10")

	stale := fullFubonPayload(models.TradingDay("2025/03/07"))
	_, err := rec.Merge(day, stale, fullSinopacPayload(day), nil)

	var staleErr *models.StalePayloadError
	require.ErrorAs(t, err, &staleErr)
	require.Equal(t, models.SourceFubon, staleErr.Source)
}

func TestMerge_Deterministic(t *testing.T) {
	rec := NewReconciler(fixedNow)
	day := models.TradingDay("2025/03/10")

	prev := &models.CanonicalReport{Day: models.TradingDay("2025/03/07"), TaiexClose: 17400, TxClose: 17390}

	a, err := rec.Merge(day, fullFubonPayload(day), fullSinopacPayload(day), prev)
	require.NoError(t, err)
	b, err := rec.Merge(day, fullFubonPayload(day), fullSinopacPayload(day), prev)
	require.NoError(t, err)

	require.Equal(t, a, b)
}
