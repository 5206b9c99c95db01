package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestEuro(t *testing.T) {
	require.Equal(t, "12.50 €", Euro(decimal.RequireFromString("12.5"), true))
	require.Equal(t, "199 €", Euro(decimal.NewFromInt(199), false))
	require.Equal(t, "199.9 €", Euro(decimal.RequireFromString("199.90"), false))
}

func TestHasCurrency(t *testing.T) {
	for _, s := range []string{"49,90 €", "$12", "12 EUR", "12 eur"} {
		require.True(t, HasCurrency(s), s)
	}
	require.False(t, HasCurrency("49,90"))
}

func TestPercent(t *testing.T) {
	require.Equal(t, "-20%", Percent(20))
	require.Empty(t, Percent(0))
	require.Empty(t, Percent(-5))
}

func TestFmtDate(t *testing.T) {
	d := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "01/09/2026", FmtDate(d, "fr"))
	require.Equal(t, "Sep 1, 2026", FmtDate(d, "en"))
	require.Empty(t, FmtDate(time.Time{}, "fr"))
}
