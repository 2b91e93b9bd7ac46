// Package pdftext extracts plain text from publisher PDF reports and
// provides the numeric helpers the source adapters share.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"
)

// Num matches a signed number with optional thousand separators, the shape
// every figure in both publishers' reports takes. Adapters compose it into
// their field patterns as a single capture group.
const Num = `[-+]?[\d,]+(?:\.\d+)?`

// Extract returns the concatenated plain text of a PDF document.
func Extract(raw []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	tr, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var b strings.Builder
	if _, err := io.Copy(&b, tr); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return b.String(), nil
}

// IsPDF reports whether raw starts with the PDF magic. Publishers sometimes
// serve an HTML placeholder at the report URL before the upload lands.
func IsPDF(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte("%PDF"))
}

// FindFloat applies a one-group pattern and parses the capture.
// Returns nil when the pattern does not match or the capture is not numeric.
func FindFloat(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return nil
	}
	return ParseFloat(m[1])
}

// FindInt applies a one-group pattern and parses the capture.
func FindInt(re *regexp.Regexp, text string) *int64 {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return nil
	}
	return ParseInt(m[1])
}

// FindDecimal applies a one-group pattern and parses the capture.
func FindDecimal(re *regexp.Regexp, text string) *decimal.Decimal {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return nil
	}
	return ParseDecimal(m[1])
}

// ParseFloat parses a report figure, tolerating thousand separators and an
// explicit plus sign.
func ParseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(normalize(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseInt parses an integer report figure.
func ParseInt(s string) *int64 {
	v, err := strconv.ParseInt(normalize(s), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseDecimal parses a monetary report figure.
func ParseDecimal(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(normalize(s))
	if err != nil {
		return nil
	}
	return &d
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	return s
}
