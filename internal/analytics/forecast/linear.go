package forecast

import (
	"github.com/montanaflynn/stats"
	"github.com/petdex/analytics/internal/analytics"
	"github.com/petdex/analytics/internal/models"
	"gonum.org/v1/gonum/mat"
)

// rcond is the relative singular value cutoff for the least squares solve.
// Collinear or constant channels get a zero coefficient instead of blowing up.
const rcond = 1e-10

// Channels returns the predictor channels selected by limits.
func Channels(limits analytics.Limits) []string {
	channels := append([]string(nil), models.AccelerometerChannels...)
	if limits.IncludeGyroscope {
		channels = append(channels, models.GyroscopeChannels...)
	}
	return channels
}

// Fit joins heart-rate and motion readings and fits heart rate against the
// standardized motion channels by ordinary least squares.
func Fit(heart []models.HeartRateRecord, motion []models.MotionRecord, limits analytics.Limits) (*Model, error) {
	if len(heart) == 0 || len(motion) == 0 {
		return nil, ErrInsufficientData
	}

	channels := Channels(limits)
	rows := Join(heart, motion, channels, limits)
	if len(rows) == 0 {
		return nil, ErrInsufficientData
	}

	n, p := len(rows), len(channels)
	y := make([]float64, n)
	columns := make([][]float64, p)
	for j := range columns {
		columns[j] = make([]float64, n)
	}
	for i, r := range rows {
		y[i] = r.HeartRate
		for j, v := range r.Predictors {
			columns[j][i] = v
		}
	}

	m := &Model{
		Channels:        channels,
		Coefficients:    make(map[string]float64, p),
		RawCoefficients: make(map[string]float64, p),
		Correlations:    make(map[string]float64, p),
		Standardization: make(map[string]Scale, p),
		Samples:         n,
		LastObserved:    rows[n-1].Time,
		coef:            make([]float64, p),
		means:           make([]float64, p),
		scales:          make([]float64, p),
		horizon:         limits.ForecastHorizon,
		step:            limits.ForecastStep,
	}

	for j, ch := range channels {
		r, _ := stats.Pearson(columns[j], y)
		m.Correlations[ch] = analytics.Round(r, 3)

		mean, _ := stats.Mean(columns[j])
		sd, _ := stats.StandardDeviationPopulation(columns[j])
		if sd == 0 {
			sd = 1
		}
		m.means[j], m.scales[j] = mean, sd
		m.Standardization[ch] = Scale{Mean: mean, Scale: sd}
	}

	z := mat.NewDense(n, p, nil)
	for i, r := range rows {
		z.SetRow(i, m.standardize(r.Predictors))
	}

	yMean, _ := stats.Mean(y)
	centered := mat.NewVecDense(n, nil)
	for i, v := range y {
		centered.SetVec(i, v-yMean)
	}

	// Standardized columns are centered, so the intercept is the response mean.
	m.intercept = yMean
	solveLeastSquares(z, centered, m.coef)

	var sse, sst float64
	for i := 0; i < n; i++ {
		resid := y[i] - m.evaluate(z.RawRowView(i))
		sse += resid * resid
		d := y[i] - yMean
		sst += d * d
	}
	m.MSE = analytics.Round(sse/float64(n), 4)
	switch {
	case sst > 0:
		m.R2 = analytics.Round(1-sse/sst, 4)
	case sse == 0:
		m.R2 = 1
	}

	m.Intercept = analytics.Round(m.intercept, 4)
	rawIntercept := m.intercept
	for j, ch := range channels {
		m.Coefficients[ch] = analytics.Round(m.coef[j], 4)
		raw := m.coef[j] / m.scales[j]
		m.RawCoefficients[ch] = analytics.Round(raw, 4)
		rawIntercept -= raw * m.means[j]
	}
	m.RawIntercept = analytics.Round(rawIntercept, 4)

	m.projectionInput = trailingMean(z, limits.ProjectionRows)
	return m, nil
}

// solveLeastSquares writes the minimum-norm solution of z*beta = y into beta.
// A rank-zero design leaves beta at zero.
func solveLeastSquares(z *mat.Dense, y *mat.VecDense, beta []float64) {
	var svd mat.SVD
	if !svd.Factorize(z, mat.SVDThin) {
		return
	}
	rank := svd.Rank(rcond)
	if rank == 0 {
		return
	}

	dst := mat.NewVecDense(len(beta), nil)
	svd.SolveVecTo(dst, y, rank)
	for i := range beta {
		beta[i] = dst.AtVec(i)
	}
}

// trailingMean averages the last k rows of z column by column.
func trailingMean(z *mat.Dense, k int) []float64 {
	n, p := z.Dims()
	if k <= 0 || k > n {
		k = n
	}

	out := make([]float64, p)
	for i := n - k; i < n; i++ {
		for j := 0; j < p; j++ {
			out[j] += z.At(i, j)
		}
	}
	for j := range out {
		out[j] /= float64(k)
	}
	return out
}
