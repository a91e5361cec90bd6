package charts

import (
	"math"

	"github.com/markcheno/go-talib"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

const (
	smaPeriod = 5
	rsiPeriod = 14
)

// SeriesStats summarizes a price series for the chart header.
// SMA and RSI are nil when the series is too short for their period.
type SeriesStats struct {
	Open          decimal.Decimal  `json:"open"`
	Close         decimal.Decimal  `json:"close"`
	High          decimal.Decimal  `json:"high"`
	Low           decimal.Decimal  `json:"low"`
	Change        decimal.Decimal  `json:"change"`
	ChangePercent decimal.Decimal  `json:"change_percent"`
	Volatility    decimal.Decimal  `json:"volatility"` // std dev of step returns, in percent
	SMA           *decimal.Decimal `json:"sma,omitempty"`
	RSI           *decimal.Decimal `json:"rsi,omitempty"`
}

// Stats computes SeriesStats over points, which must be oldest first.
// An empty series yields zero stats.
func Stats(points []PricePoint) SeriesStats {
	var s SeriesStats
	if len(points) == 0 {
		return s
	}

	prices := make([]float64, len(points))
	s.High, s.Low = points[0].Price, points[0].Price
	for i, p := range points {
		prices[i] = p.Price.InexactFloat64()
		if p.Price.GreaterThan(s.High) {
			s.High = p.Price
		}
		if p.Price.LessThan(s.Low) {
			s.Low = p.Price
		}
	}

	s.Open = points[0].Price
	s.Close = points[len(points)-1].Price
	s.Change = s.Close.Sub(s.Open)
	if !s.Open.IsZero() {
		s.ChangePercent = s.Change.Div(s.Open).Mul(decimal.NewFromInt(100)).Round(2)
	}

	if returns := stepReturns(prices); len(returns) > 1 {
		s.Volatility = fromFloat(stat.StdDev(returns, nil) * 100)
	}
	if len(prices) >= smaPeriod {
		s.SMA = lastValue(talib.Sma(prices, smaPeriod))
	}
	if len(prices) > rsiPeriod {
		s.RSI = lastValue(talib.Rsi(prices, rsiPeriod))
	}
	return s
}

// stepReturns returns the fractional change between consecutive prices,
// skipping steps that start from zero.
func stepReturns(prices []float64) []float64 {
	out := make([]float64, 0, len(prices))
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		out = append(out, (prices[i]-prices[i-1])/prices[i-1])
	}
	return out
}

func lastValue(series []float64) *decimal.Decimal {
	if len(series) == 0 {
		return nil
	}
	v := series[len(series)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	d := fromFloat(v)
	return &d
}

func fromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
