package sinopac

import (
	"regexp"

	"ChipFlash/internal/domain/models"
	"ChipFlash/internal/service/pdftext"
)

// Field patterns for the extracted report text. Levels only; printed deltas
// are ignored.
var (
	reForeignCallOI = regexp.MustCompile(`外資買權未平倉\s*(` + pdftext.Num + `)\s*口`)
	reForeignPutOI  = regexp.MustCompile(`外資賣權未平倉\s*(` + pdftext.Num + `)\s*口`)

	rePCRatio = regexp.MustCompile(`(?i)put\s*/\s*call\s*ratio\s*(` + pdftext.Num + `)\s*%`)
	reVIX     = regexp.MustCompile(`VIX指標\s*(` + pdftext.Num + `)`)

	// Strike rows print the strike and its open interest together,
	// e.g. 最大買權未平倉履約價 18,000 (31,000口).
	reMaxCall = regexp.MustCompile(`最大買權未平倉履約價\s*(` + pdftext.Num + `)\s*\(\s*(` + pdftext.Num + `)\s*口\s*\)`)
	reMaxPut  = regexp.MustCompile(`最大賣權未平倉履約價\s*(` + pdftext.Num + `)\s*\(\s*(` + pdftext.Num + `)\s*口\s*\)`)

	reRetailMTXRatio  = regexp.MustCompile(`小台散戶多空比\s*(` + pdftext.Num + `)\s*%`)
	reRetailMTXLong   = regexp.MustCompile(`小台散戶多單\s*(` + pdftext.Num + `)\s*口`)
	reRetailMTXShort  = regexp.MustCompile(`小台散戶空單\s*(` + pdftext.Num + `)\s*口`)
	reRetailXMTXRatio = regexp.MustCompile(`微台散戶多空比\s*(` + pdftext.Num + `)\s*%`)
	reRetailXMTXLong  = regexp.MustCompile(`微台散戶多單\s*(` + pdftext.Num + `)\s*口`)
	reRetailXMTXShort = regexp.MustCompile(`微台散戶空單\s*(` + pdftext.Num + `)\s*口`)
)

func parsePayload(day models.TradingDay, text string) *models.SinopacPayload {
	p := &models.SinopacPayload{
		Day:             day,
		ForeignCallOI:   pdftext.FindInt(reForeignCallOI, text),
		ForeignPutOI:    pdftext.FindInt(reForeignPutOI, text),
		PCRatio:         pdftext.FindFloat(rePCRatio, text),
		VIX:             pdftext.FindFloat(reVIX, text),
		RetailMTXRatio:  pdftext.FindFloat(reRetailMTXRatio, text),
		RetailMTXLong:   pdftext.FindInt(reRetailMTXLong, text),
		RetailMTXShort:  pdftext.FindInt(reRetailMTXShort, text),
		RetailXMTXRatio: pdftext.FindFloat(reRetailXMTXRatio, text),
		RetailXMTXLong:  pdftext.FindInt(reRetailXMTXLong, text),
		RetailXMTXShort: pdftext.FindInt(reRetailXMTXShort, text),
	}

	if m := reMaxCall.FindStringSubmatch(text); len(m) == 3 {
		p.MaxCallOIStrike = pdftext.ParseInt(m[1])
		p.MaxCallOILots = pdftext.ParseInt(m[2])
	}
	if m := reMaxPut.FindStringSubmatch(text); len(m) == 3 {
		p.MaxPutOIStrike = pdftext.ParseInt(m[1])
		p.MaxPutOILots = pdftext.ParseInt(m[2])
	}
	return p
}
