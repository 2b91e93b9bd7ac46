package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CanonicalReport is the single merged view of one trading day, built from
// exactly one fresh payload per source. Non-pointer fields are always
// present in a valid report. Pointer fields are day-over-day comparisons
// that require an archived prior report; nil renders as unavailable, never
// as zero.
type CanonicalReport struct {
	Day TradingDay `json:"day"`

	// Market data (Fubon).
	TaiexClose     float64         `json:"taiex_close"`
	TaiexChange    *float64        `json:"taiex_change,omitempty"`
	TaiexChangePct *float64        `json:"taiex_change_pct,omitempty"`
	TaiexVolume    decimal.Decimal `json:"taiex_volume"`
	TxClose        float64         `json:"tx_close"`
	TxChange       *float64        `json:"tx_change,omitempty"`
	TxChangePct    *float64        `json:"tx_change_pct,omitempty"`
	TxBias         float64         `json:"tx_bias"`

	// Institutional spot flows, 億元 (Fubon).
	InstTotal   decimal.Decimal `json:"inst_total"`
	InstForeign decimal.Decimal `json:"inst_foreign"`
	InstTrust   decimal.Decimal `json:"inst_trust"`
	InstDealer  decimal.Decimal `json:"inst_dealer"`

	// Institutional TX futures net open interest, lots (Fubon).
	ThreeInstOI      int64  `json:"three_inst_oi"`
	ThreeInstOIDelta *int64 `json:"three_inst_oi_delta,omitempty"`
	ForeignOI        int64  `json:"foreign_oi"`
	ForeignOIDelta   *int64 `json:"foreign_oi_delta,omitempty"`
	TrustOI          int64  `json:"trust_oi"`
	TrustOIDelta     *int64 `json:"trust_oi_delta,omitempty"`
	DealerOI         int64  `json:"dealer_oi"`
	DealerOIDelta    *int64 `json:"dealer_oi_delta,omitempty"`

	// Foreign TX options open interest, lots (SinoPac).
	ForeignCallOI      int64  `json:"foreign_call_oi"`
	ForeignCallOIDelta *int64 `json:"foreign_call_oi_delta,omitempty"`
	ForeignPutOI       int64  `json:"foreign_put_oi"`
	ForeignPutOIDelta  *int64 `json:"foreign_put_oi_delta,omitempty"`

	// Option market gauges (SinoPac). Prev fields carry yesterday's level.
	PCRatio     float64  `json:"pc_ratio"`
	PCRatioPrev *float64 `json:"pc_ratio_prev,omitempty"`
	VIX         float64  `json:"vix"`
	VIXPrev     *float64 `json:"vix_prev,omitempty"`

	MaxCallOIStrike int64 `json:"max_call_oi_strike"`
	MaxCallOILots   int64 `json:"max_call_oi_lots"`
	MaxPutOIStrike  int64 `json:"max_put_oi_strike"`
	MaxPutOILots    int64 `json:"max_put_oi_lots"`

	// Retail positioning (SinoPac).
	RetailMTXRatio      float64  `json:"retail_mtx_ratio"`
	RetailMTXRatioPrev  *float64 `json:"retail_mtx_ratio_prev,omitempty"`
	RetailMTXLong       int64    `json:"retail_mtx_long"`
	RetailMTXShort      int64    `json:"retail_mtx_short"`
	RetailXMTXRatio     float64  `json:"retail_xmtx_ratio"`
	RetailXMTXRatioPrev *float64 `json:"retail_xmtx_ratio_prev,omitempty"`
	RetailXMTXLong      int64    `json:"retail_xmtx_long"`
	RetailXMTXShort     int64    `json:"retail_xmtx_short"`

	Sources     []Source  `json:"sources"`
	GeneratedAt time.Time `json:"generated_at"`
}
