package pdftext

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"17,500.50", 17500.50, true},
		{"+305.17", 305.17, true},
		{"-174.67", -174.67, true},
		{"12", 12, true},
		{" 18.42 ", 18.42, true},
		{"n/a", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got := ParseFloat(c.in)
		if !c.ok {
			require.Nil(t, got, c.in)
			continue
		}
		require.NotNil(t, got, c.in)
		require.Equal(t, c.want, *got, c.in)
	}
}

func TestParseInt(t *testing.T) {
	require.Equal(t, int64(-25000), *ParseInt("-25,000"))
	require.Equal(t, int64(18000), *ParseInt("+18,000"))
	require.Nil(t, ParseInt("18,000.5"))
}

func TestFindHelpersMissingPattern(t *testing.T) {
	re := regexp.MustCompile(`加權指數\s*(` + Num + `)`)
	require.Nil(t, FindFloat(re, "無此欄位"))
	require.Equal(t, 17500.5, *FindFloat(re, "加權指數 17,500.50 點"))
}

func TestIsPDF(t *testing.T) {
	require.True(t, IsPDF([]byte("%PDF-1.7 rest")))
	require.False(t, IsPDF([]byte("<html>not yet</html>")))
}
