package trend

import (
	"gonum.org/v1/gonum/stat"

	"github.com/driftline/driftline/pkg/models"
)

// Stats holds regression statistics over a series' total counts.
type Stats struct {
	Slope       float64 `json:"slope" toon:"slope"`             // Issue count change per build step
	Intercept   float64 `json:"intercept" toon:"intercept"`     // Y-intercept
	RSquared    float64 `json:"r_squared" toon:"r_squared"`     // Goodness of fit (0-1)
	Correlation float64 `json:"correlation" toon:"correlation"` // Pearson correlation (-1 to 1)
}

// ComputeStats calculates regression statistics over the series. Points
// are indexed by position, not build number, so gaps between builds do
// not distort the slope. Returns zero values for fewer than 2 points.
func ComputeStats(series *models.TrendSeries) Stats {
	if series == nil || len(series.Points) < 2 {
		return Stats{}
	}

	n := len(series.Points)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range series.Points {
		xs[i] = float64(i)
		ys[i] = float64(p.Total)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	rSquared := stat.RSquared(xs, ys, nil, intercept, slope)
	correlation := stat.Correlation(xs, ys, nil)

	return Stats{
		Slope:       slope,
		Intercept:   intercept,
		RSquared:    rSquared,
		Correlation: correlation,
	}
}
