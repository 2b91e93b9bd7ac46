package models

import "github.com/shopspring/decimal"

// Source identifies one of the two report publishers.
type Source string

const (
	SourceFubon   Source = "fubon"
	SourceSinopac Source = "sinopac"
)

// DisplayName returns the publisher name used in rendered reports.
func (s Source) DisplayName() string {
	switch s {
	case SourceFubon:
		return "富邦期貨"
	case SourceSinopac:
		return "永豐期貨"
	}
	return string(s)
}

// FubonPayload holds the fields extracted from Fubon's daily chip report.
// Every field is a pointer: nil means the extractor could not find the value,
// which the reconciler treats as fatal for the day. Payloads carry levels
// only; day-over-day deltas are derived later against the archived prior
// report, never trusted from the publisher.
type FubonPayload struct {
	Day TradingDay

	// Market data.
	TaiexClose  *float64
	TaiexVolume *decimal.Decimal // 億元
	TxClose     *float64

	// Institutional net buy/sell in the spot market, 億元.
	InstTotal   *decimal.Decimal
	InstForeign *decimal.Decimal
	InstTrust   *decimal.Decimal
	InstDealer  *decimal.Decimal

	// Institutional TX futures net open interest, lots.
	ForeignOI *int64
	TrustOI   *int64
	DealerOI  *int64
}

// Missing returns the names of required fields the extractor left unset.
func (p *FubonPayload) Missing() []string {
	var out []string
	req := []struct {
		name string
		ok   bool
	}{
		{"taiex_close", p.TaiexClose != nil},
		{"taiex_volume", p.TaiexVolume != nil},
		{"tx_close", p.TxClose != nil},
		{"inst_total", p.InstTotal != nil},
		{"inst_foreign", p.InstForeign != nil},
		{"inst_trust", p.InstTrust != nil},
		{"inst_dealer", p.InstDealer != nil},
		{"foreign_oi", p.ForeignOI != nil},
		{"trust_oi", p.TrustOI != nil},
		{"dealer_oi", p.DealerOI != nil},
	}
	for _, f := range req {
		if !f.ok {
			out = append(out, f.name)
		}
	}
	return out
}

// SinopacPayload holds the fields extracted from SinoPac's daily chip report.
// Same conventions as FubonPayload: pointers, levels only.
type SinopacPayload struct {
	Day TradingDay

	// Foreign TX options open interest, lots.
	ForeignCallOI *int64
	ForeignPutOI  *int64

	// Option market gauges.
	PCRatio *float64 // percent
	VIX     *float64

	// Strikes with the largest call/put open interest.
	MaxCallOIStrike *int64
	MaxCallOILots   *int64
	MaxPutOIStrike  *int64
	MaxPutOILots    *int64

	// Retail long/short positioning in mini and micro TX futures.
	RetailMTXRatio  *float64 // percent
	RetailMTXLong   *int64
	RetailMTXShort  *int64
	RetailXMTXRatio *float64 // percent
	RetailXMTXLong  *int64
	RetailXMTXShort *int64
}

// Missing returns the names of required fields the extractor left unset.
func (p *SinopacPayload) Missing() []string {
	var out []string
	req := []struct {
		name string
		ok   bool
	}{
		{"foreign_call_oi", p.ForeignCallOI != nil},
		{"foreign_put_oi", p.ForeignPutOI != nil},
		{"pc_ratio", p.PCRatio != nil},
		{"vix", p.VIX != nil},
		{"max_call_oi_strike", p.MaxCallOIStrike != nil},
		{"max_call_oi_lots", p.MaxCallOILots != nil},
		{"max_put_oi_strike", p.MaxPutOIStrike != nil},
		{"max_put_oi_lots", p.MaxPutOILots != nil},
		{"retail_mtx_ratio", p.RetailMTXRatio != nil},
		{"retail_mtx_long", p.RetailMTXLong != nil},
		{"retail_mtx_short", p.RetailMTXShort != nil},
		{"retail_xmtx_ratio", p.RetailXMTXRatio != nil},
		{"retail_xmtx_long", p.RetailXMTXLong != nil},
		{"retail_xmtx_short", p.RetailXMTXShort != nil},
	}
	for _, f := range req {
		if !f.ok {
			out = append(out, f.name)
		}
	}
	return out
}
