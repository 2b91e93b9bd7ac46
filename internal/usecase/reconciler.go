package usecase

import (
	"math"
	"time"

	"ChipFlash/internal/domain/models"
)

// Reconciler merges one fresh payload per source into a canonical report.
// Field ownership is fixed and complementary: Fubon owns market data and
// institutional figures, SinoPac owns option gauges and retail positioning.
// Neither source ever overrides the other, so there is no conflict policy
// to get wrong. All day-over-day deltas are derived here from the archived
// prior report; publisher-printed deltas are never trusted.
type Reconciler struct {
	now func() time.Time
}

func NewReconciler(now func() time.Time) *Reconciler {
	if now == nil {
		now = time.Now
	}
	return &Reconciler{now: now}
}

// Merge builds the canonical report for day. Both payloads must be dated
// exactly day and carry every required field; otherwise no report is
// produced. prev is the most recent archived report before day, nil when
// none exists, in which case every comparison field stays nil.
//
// Apart from GeneratedAt, the output is a pure function of its inputs:
// merging the same payloads against the same prior report always yields the
// same report.
func (r *Reconciler) Merge(day models.TradingDay, fubon *models.FubonPayload, sinopac *models.SinopacPayload, prev *models.CanonicalReport) (*models.CanonicalReport, error) {
	if fubon.Day != day {
		return nil, &models.StalePayloadError{Source: models.SourceFubon, Want: day, Got: fubon.Day}
	}
	if sinopac.Day != day {
		return nil, &models.StalePayloadError{Source: models.SourceSinopac, Want: day, Got: sinopac.Day}
	}
	if missing := fubon.Missing(); len(missing) > 0 {
		return nil, &models.DataIncompleteError{Source: models.SourceFubon, Field: missing[0]}
	}
	if missing := sinopac.Missing(); len(missing) > 0 {
		return nil, &models.DataIncompleteError{Source: models.SourceSinopac, Field: missing[0]}
	}

	rep := &models.CanonicalReport{
		Day: day,

		TaiexClose:  *fubon.TaiexClose,
		TaiexVolume: *fubon.TaiexVolume,
		TxClose:     *fubon.TxClose,
		TxBias:      round2(*fubon.TxClose - *fubon.TaiexClose),

		InstTotal:   *fubon.InstTotal,
		InstForeign: *fubon.InstForeign,
		InstTrust:   *fubon.InstTrust,
		InstDealer:  *fubon.InstDealer,

		ForeignOI: *fubon.ForeignOI,
		TrustOI:   *fubon.TrustOI,
		DealerOI:  *fubon.DealerOI,

		ForeignCallOI: *sinopac.ForeignCallOI,
		ForeignPutOI:  *sinopac.ForeignPutOI,
		PCRatio:       *sinopac.PCRatio,
		VIX:           *sinopac.VIX,

		MaxCallOIStrike: *sinopac.MaxCallOIStrike,
		MaxCallOILots:   *sinopac.MaxCallOILots,
		MaxPutOIStrike:  *sinopac.MaxPutOIStrike,
		MaxPutOILots:    *sinopac.MaxPutOILots,

		RetailMTXRatio:  *sinopac.RetailMTXRatio,
		RetailMTXLong:   *sinopac.RetailMTXLong,
		RetailMTXShort:  *sinopac.RetailMTXShort,
		RetailXMTXRatio: *sinopac.RetailXMTXRatio,
		RetailXMTXLong:  *sinopac.RetailXMTXLong,
		RetailXMTXShort: *sinopac.RetailXMTXShort,

		Sources:     []models.Source{models.SourceFubon, models.SourceSinopac},
		GeneratedAt: r.now(),
	}
	rep.ThreeInstOI = rep.ForeignOI + rep.TrustOI + rep.DealerOI

	if prev != nil {
		rep.TaiexChange = floatPtr(round2(rep.TaiexClose - prev.TaiexClose))
		rep.TaiexChangePct = pctChange(rep.TaiexClose, prev.TaiexClose)
		rep.TxChange = floatPtr(round2(rep.TxClose - prev.TxClose))
		rep.TxChangePct = pctChange(rep.TxClose, prev.TxClose)

		rep.ThreeInstOIDelta = intPtr(rep.ThreeInstOI - prev.ThreeInstOI)
		rep.ForeignOIDelta = intPtr(rep.ForeignOI - prev.ForeignOI)
		rep.TrustOIDelta = intPtr(rep.TrustOI - prev.TrustOI)
		rep.DealerOIDelta = intPtr(rep.DealerOI - prev.DealerOI)

		rep.ForeignCallOIDelta = intPtr(rep.ForeignCallOI - prev.ForeignCallOI)
		rep.ForeignPutOIDelta = intPtr(rep.ForeignPutOI - prev.ForeignPutOI)

		rep.PCRatioPrev = floatPtr(prev.PCRatio)
		rep.VIXPrev = floatPtr(prev.VIX)
		rep.RetailMTXRatioPrev = floatPtr(prev.RetailMTXRatio)
		rep.RetailXMTXRatioPrev = floatPtr(prev.RetailXMTXRatio)
	}

	return rep, nil
}

func pctChange(cur, prev float64) *float64 {
	if prev == 0 {
		return nil
	}
	return floatPtr(round2((cur - prev) / prev * 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int64) *int64 { return &v }
