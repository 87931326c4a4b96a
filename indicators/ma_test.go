package indicators

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"nsebot/market"
)

func seriesFromCloses(closes ...float64) market.Series {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(market.Series, len(closes))
	for i, c := range closes {
		px := decimal.NewFromFloat(c)
		s[i] = market.Candle{
			Time:  base.Add(time.Duration(i) * time.Minute),
			Open:  px,
			High:  px,
			Low:   px,
			Close: px,
		}
	}
	return s
}

func TestSMA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		closes []float64
		period int
		want   string
	}{
		{"flat", []float64{10, 10, 10}, 3, "10"},
		{"trailing window", []float64{1, 2, 3, 4, 5}, 2, "4.5"},
		{"full series", []float64{1, 2, 3, 4, 5}, 5, "3"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := SMA(seriesFromCloses(tt.closes...), tt.period)
			assert.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s want %s", got, tt.want)
		})
	}
}

func TestSMAErrors(t *testing.T) {
	t.Parallel()

	_, err := SMA(seriesFromCloses(1, 2, 3), 0)
	assert.Error(t, err)

	_, err = SMA(seriesFromCloses(1, 2, 3), 4)
	assert.Error(t, err)
}
