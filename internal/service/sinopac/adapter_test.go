package sinopac

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ChipFlash/internal/domain/models"
	"ChipFlash/pkg/logger"

	"github.com/stretchr/testify/require"
)

func listPage(rows string) string {
	return fmt.Sprintf(`<html><body><ul class="report-list">%s</ul></body></html>`, rows)
}

func TestFindReportURL_NotListedIsNotReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listPage(`<li>2025/03/07 <a href="/reports/0307.pdf">台指期籌碼快訊</a></li>`)))
	}))
	defer srv.Close()

	a := NewAdapter(srv.URL+"/research", srv.URL, time.Second, logger.Nop())
	_, err := a.Fetch(context.Background(), models.TradingDay("2025/03/10"))
	require.ErrorIs(t, err, models.ErrNotReady)
}

func TestFindReportURL_OtherTitlesIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listPage(`<li>2025/03/10 <a href="/reports/other.pdf">選擇權週報</a></li>`)))
	}))
	defer srv.Close()

	a := NewAdapter(srv.URL+"/research", srv.URL, time.Second, logger.Nop())
	_, err := a.Fetch(context.Background(), models.TradingDay("2025/03/10"))
	require.ErrorIs(t, err, models.ErrNotReady)
}

func TestFetch_FollowsTodaysLink(t *testing.T) {
	var pdfRequested string
	mux := http.NewServeMux()
	mux.HandleFunc("/research", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listPage(
			`<li>2025/03/07 <a href="/reports/0307.pdf">台指期籌碼快訊</a></li>` +
				`<li>2025/03/10 <a href="/reports/0310.pdf">台指期籌碼快訊</a></li>`)))
	})
	mux.HandleFunc("/reports/0310.pdf", func(w http.ResponseWriter, r *http.Request) {
		pdfRequested = r.URL.Path
		// Not a real PDF; the fetch must reach the body check.
		w.Write([]byte("<html>placeholder</html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := NewAdapter(srv.URL+"/research", srv.URL, time.Second, logger.Nop())
	_, err := a.Fetch(context.Background(), models.TradingDay("2025/03/10"))

	require.Equal(t, "/reports/0310.pdf", pdfRequested)
	require.ErrorIs(t, err, models.ErrNotReady)
}

func TestFetch_DashedDateAccepted(t *testing.T) {
	var pdfRequested bool
	mux := http.NewServeMux()
	mux.HandleFunc("/research", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listPage(`<li>2025-03-10 <a href="/reports/0310.pdf">台指期籌碼快訊</a></li>`)))
	})
	mux.HandleFunc("/reports/0310.pdf", func(w http.ResponseWriter, r *http.Request) {
		pdfRequested = true
		w.Write([]byte("x"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := NewAdapter(srv.URL+"/research", srv.URL, time.Second, logger.Nop())
	_, _ = a.Fetch(context.Background(), models.TradingDay("2025/03/10"))
	require.True(t, pdfRequested)
}

func TestParsePayload_AllFields(t *testing.T) {
	text := `永豐期貨 台指期籌碼快訊 2025/03/10
外資買權未平倉 52,000口
外資賣權未平倉 48,000口
Put/Call Ratio 103.25%
VIX指標 18.42
最大買權未平倉履約價 18,000 (31,000口)
最大賣權未平倉履約價 17,000 (28,000口)
小台散戶多空比 12.34%
小台散戶多單 41,000口
小台散戶空單 36,500口
微台散戶多空比 -4.56%
微台散戶多單 21,000口
微台散戶空單 22,800口`

	day := models.TradingDay("2025/03/10")
	p := parsePayload(day, text)

	require.Empty(t, p.Missing())
	require.Equal(t, int64(52000), *p.ForeignCallOI)
	require.Equal(t, 103.25, *p.PCRatio)
	require.Equal(t, 18.42, *p.VIX)
	require.Equal(t, int64(18000), *p.MaxCallOIStrike)
	require.Equal(t, int64(31000), *p.MaxCallOILots)
	require.Equal(t, int64(17000), *p.MaxPutOIStrike)
	require.Equal(t, -4.56, *p.RetailXMTXRatio)
	require.Equal(t, int64(22800), *p.RetailXMTXShort)
}

func TestParsePayload_PartialTextLeavesNils(t *testing.T) {
	p := parsePayload(models.TradingDay("2025/03/10"), "外資買權未平倉 52,000口")
	require.NotNil(t, p.ForeignCallOI)
	require.Nil(t, p.VIX)
	require.Contains(t, p.Missing(), "vix")
}
