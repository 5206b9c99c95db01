package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAnalyticsFromEnv(t *testing.T) {
	t.Setenv("MOTO_WEB_GA_MEASUREMENT_ID", "G-TEST")
	t.Setenv("MOTO_WEB_GTM_CONTAINER_ID", "")
	t.Setenv("MOTO_WEB_ANALYTICS_DEBUG", "1")

	a := LoadAnalyticsFromEnv()
	require.Equal(t, "G-TEST", a.GA4MeasurementID)
	require.True(t, a.Debug)
	require.True(t, a.Enabled())

	require.False(t, Analytics{}.Enabled())
}
