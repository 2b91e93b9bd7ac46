package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"ChipFlash/internal/domain/models"

	"github.com/shopspring/decimal"
)

// Formatter renders a canonical report into the fixed message template.
// Rendering is pure: the same report always produces the same bytes.
// Comparison fields without a prior report render as N/A, never as zero.
type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

// Render produces the full report message.
func (f *Formatter) Render(rep *models.CanonicalReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "【期貨盤後籌碼整合快報】%s\n\n", rep.Day)

	b.WriteString("【大盤數據】\n")
	fmt.Fprintf(&b, "加權指數: %s %s\n", formatIndex(rep.TaiexClose), formatMove(rep.TaiexChange, rep.TaiexChangePct))
	fmt.Fprintf(&b, "台指期近月: %s %s\n", formatIndex(rep.TxClose), formatMove(rep.TxChange, rep.TxChangePct))
	fmt.Fprintf(&b, "台指期現貨價差: %+.2f\n", rep.TxBias)
	fmt.Fprintf(&b, "成交金額: %s 億元\n\n", rep.TaiexVolume.StringFixed(2))

	b.WriteString("【三大法人買賣超】\n")
	fmt.Fprintf(&b, "三大法人: %s 億元\n", signedDecimal(rep.InstTotal))
	fmt.Fprintf(&b, "外資: %s 億元\n", signedDecimal(rep.InstForeign))
	fmt.Fprintf(&b, "投信: %s 億元\n", signedDecimal(rep.InstTrust))
	fmt.Fprintf(&b, "自營商: %s 億元\n\n", signedDecimal(rep.InstDealer))

	b.WriteString("【期貨未平倉】\n")
	fmt.Fprintf(&b, "三大法人台指期未平倉: %+d 口 (%s)\n", rep.ThreeInstOI, signedIntOrNA(rep.ThreeInstOIDelta))
	fmt.Fprintf(&b, "外資台指期未平倉: %+d 口 (%s)\n", rep.ForeignOI, signedIntOrNA(rep.ForeignOIDelta))
	fmt.Fprintf(&b, "投信台指期未平倉: %+d 口 (%s)\n", rep.TrustOI, signedIntOrNA(rep.TrustOIDelta))
	fmt.Fprintf(&b, "自營商台指期未平倉: %+d 口 (%s)\n", rep.DealerOI, signedIntOrNA(rep.DealerOIDelta))
	fmt.Fprintf(&b, "外資買權未平倉: %d 口 (%s)\n", rep.ForeignCallOI, signedIntOrNA(rep.ForeignCallOIDelta))
	fmt.Fprintf(&b, "外資賣權未平倉: %d 口 (%s)\n\n", rep.ForeignPutOI, signedIntOrNA(rep.ForeignPutOIDelta))

	b.WriteString("【散戶指標】\n")
	fmt.Fprintf(&b, "小台散戶多空比: %.2f%% (前日: %s)\n", rep.RetailMTXRatio, pctOrNA(rep.RetailMTXRatioPrev))
	fmt.Fprintf(&b, "小台散戶多單: %d 口\n", rep.RetailMTXLong)
	fmt.Fprintf(&b, "小台散戶空單: %d 口\n", rep.RetailMTXShort)
	fmt.Fprintf(&b, "微台散戶多空比: %.2f%% (前日: %s)\n", rep.RetailXMTXRatio, pctOrNA(rep.RetailXMTXRatioPrev))
	fmt.Fprintf(&b, "微台散戶多單: %d 口\n", rep.RetailXMTXLong)
	fmt.Fprintf(&b, "微台散戶空單: %d 口\n\n", rep.RetailXMTXShort)

	b.WriteString("【其他指標】\n")
	fmt.Fprintf(&b, "Put/Call Ratio: %.2f%% (前日: %s)\n", rep.PCRatio, pctOrNA(rep.PCRatioPrev))
	fmt.Fprintf(&b, "VIX指標: %.2f (前日: %s)\n", rep.VIX, floatOrNA(rep.VIXPrev))
	fmt.Fprintf(&b, "最大買權未平倉履約價: %d (%d 口)\n", rep.MaxCallOIStrike, rep.MaxCallOILots)
	fmt.Fprintf(&b, "最大賣權未平倉履約價: %d (%d 口)\n\n", rep.MaxPutOIStrike, rep.MaxPutOILots)

	b.WriteString("【資料來源】\n")
	names := make([]string, 0, len(rep.Sources))
	for _, s := range rep.Sources {
		names = append(names, s.DisplayName())
	}
	fmt.Fprintf(&b, "%s\n", strings.Join(names, "、"))
	fmt.Fprintf(&b, "更新時間: %s", rep.GeneratedAt.Format("2006/01/02 15:04"))

	return b.String()
}

// formatIndex prints an index level without trailing zero noise.
func formatIndex(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatMove renders a day-over-day index move as ▲123.45(0.72%) with the
// direction carried by the triangle, or N/A when no prior close exists.
func formatMove(change, pct *float64) string {
	if change == nil {
		return "N/A"
	}
	arrow := "▲"
	if *change < 0 {
		arrow = "▼"
	}
	p := "N/A"
	if pct != nil {
		p = fmt.Sprintf("%.2f%%", absFloat(*pct))
	}
	return fmt.Sprintf("%s%.2f(%s)", arrow, absFloat(*change), p)
}

func signedDecimal(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.Sign() >= 0 {
		return "+" + s
	}
	return s
}

func signedIntOrNA(v *int64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%+d", *v)
}

func pctOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *v)
}

func floatOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
