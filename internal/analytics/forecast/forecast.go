// Package forecast fits a linear model of heart rate on motion channels and
// projects it a few steps ahead.
package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/petdex/analytics/internal/analytics"
)

var (
	// ErrInsufficientData is returned when there is nothing to fit on.
	ErrInsufficientData = errors.New("insufficient data for regression")

	// ErrMissingChannel is returned by Predict when an input channel is absent.
	ErrMissingChannel = errors.New("missing predictor channel")
)

// Scale holds the standardization parameters of one channel.
type Scale struct {
	Mean  float64 `json:"media"`
	Scale float64 `json:"escala"`
}

// ProjectedPoint is one projected heart-rate value.
type ProjectedPoint struct {
	Time  time.Time `json:"timestamp"`
	Value float64   `json:"batimento_previsto"`
}

// Model is a fitted linear regression of heart rate on standardized motion
// channels. Coefficients apply to standardized inputs; RawCoefficients and
// RawIntercept express the same function over raw channel values.
type Model struct {
	Channels        []string           `json:"canais"`
	Coefficients    map[string]float64 `json:"coeficientes"`
	Intercept       float64            `json:"intercepto"`
	RawCoefficients map[string]float64 `json:"coeficientes_brutos"`
	RawIntercept    float64            `json:"intercepto_bruto"`
	Correlations    map[string]float64 `json:"correlacoes"`
	Standardization map[string]Scale   `json:"padronizacao"`
	R2              float64            `json:"r2"`
	MSE             float64            `json:"mse"`
	Samples         int                `json:"amostras"`
	LastObserved    time.Time          `json:"ultimo_registro"`

	coef      []float64
	intercept float64
	means     []float64
	scales    []float64

	// mean of the trailing standardized rows
	projectionInput []float64

	horizon int
	step    time.Duration
}

// evaluate applies the fitted function to a standardized row.
func (m *Model) evaluate(z []float64) float64 {
	y := m.intercept
	for i, c := range m.coef {
		y += c * z[i]
	}
	return y
}

// standardize maps raw channel values to the training scale.
func (m *Model) standardize(raw []float64) []float64 {
	z := make([]float64, len(raw))
	for i, v := range raw {
		z[i] = (v - m.means[i]) / m.scales[i]
	}
	return z
}

// Project applies the model to the mean of the last standardized training rows
// and repeats that value for each step of the horizon, starting one step after
// the last observation. The projection is flat by construction.
func (m *Model) Project() []ProjectedPoint {
	value := analytics.Round(m.evaluate(m.projectionInput), 2)

	points := make([]ProjectedPoint, m.horizon)
	for i := range points {
		points[i] = ProjectedPoint{
			Time:  m.LastObserved.Add(time.Duration(i+1) * m.step),
			Value: value,
		}
	}
	return points
}

// Predict estimates the heart rate for raw motion values of a single instant.
// Inputs are standardized with the training parameters before the fitted
// coefficients are applied.
func (m *Model) Predict(raw map[string]float64) (float64, error) {
	values := make([]float64, len(m.Channels))
	for i, ch := range m.Channels {
		v, ok := raw[ch]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingChannel, ch)
		}
		values[i] = v
	}
	return analytics.Round(m.evaluate(m.standardize(values)), 2), nil
}
