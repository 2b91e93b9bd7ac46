package fubon

import (
	"regexp"

	"ChipFlash/internal/domain/models"
	"ChipFlash/internal/service/pdftext"
)

// Field patterns for the extracted report text. Each captures the level
// figure only; the deltas Fubon prints alongside are ignored, they are
// derived later against the archived prior report.
var (
	reTaiexClose  = regexp.MustCompile(`加權指數\s*(` + pdftext.Num + `)`)
	reTaiexVolume = regexp.MustCompile(`成交金額\s*(` + pdftext.Num + `)\s*億`)
	reTxClose     = regexp.MustCompile(`台指期近月\s*(` + pdftext.Num + `)`)

	reInstTotal   = regexp.MustCompile(`三大法人買賣超\s*(` + pdftext.Num + `)\s*億`)
	reInstForeign = regexp.MustCompile(`外資買賣超\s*(` + pdftext.Num + `)\s*億`)
	reInstTrust   = regexp.MustCompile(`投信買賣超\s*(` + pdftext.Num + `)\s*億`)
	reInstDealer  = regexp.MustCompile(`自營商買賣超\s*(` + pdftext.Num + `)\s*億`)

	reForeignOI = regexp.MustCompile(`外資台指期未平倉\s*(` + pdftext.Num + `)\s*口`)
	reTrustOI   = regexp.MustCompile(`投信台指期未平倉\s*(` + pdftext.Num + `)\s*口`)
	reDealerOI  = regexp.MustCompile(`自營商台指期未平倉\s*(` + pdftext.Num + `)\s*口`)
)

func parsePayload(day models.TradingDay, text string) *models.FubonPayload {
	return &models.FubonPayload{
		Day:         day,
		TaiexClose:  pdftext.FindFloat(reTaiexClose, text),
		TaiexVolume: pdftext.FindDecimal(reTaiexVolume, text),
		TxClose:     pdftext.FindFloat(reTxClose, text),
		InstTotal:   pdftext.FindDecimal(reInstTotal, text),
		InstForeign: pdftext.FindDecimal(reInstForeign, text),
		InstTrust:   pdftext.FindDecimal(reInstTrust, text),
		InstDealer:  pdftext.FindDecimal(reInstDealer, text),
		ForeignOI:   pdftext.FindInt(reForeignOI, text),
		TrustOI:     pdftext.FindInt(reTrustOI, text),
		DealerOI:    pdftext.FindInt(reDealerOI, text),
	}
}
