package anomaly

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/petdex/analytics/internal/analytics"
)

// Classify scores value against the in-band reference readings.
//
// The reference is reduced to the physiological band and summarized by its
// population mean and standard deviation. A value outside
// [HeartRateMin, SanityMax] is reported invalid without a z-score. Otherwise
// z = |value-mean|/sd and the two-tailed probability 2*(1-Phi(z)) is returned
// as a percentage. A zero deviation scores 100% when value equals the mean and
// 0% (rare) otherwise. The returned value is rounded to 2 decimals.
func Classify(value float64, reference []float64, limits analytics.Limits) Classification {
	result := Classification{Value: analytics.Round(value, 2)}

	filtered := make([]float64, 0, len(reference))
	for _, v := range reference {
		if limits.InBand(v) {
			filtered = append(filtered, v)
		}
	}

	minPoints := limits.MinReferencePoints
	if minPoints < 1 {
		minPoints = 1
	}
	if len(filtered) < minPoints {
		result.Tier = TierInsufficientData
		result.Message = fmt.Sprintf("Histórico insuficiente: são necessárias ao menos %d medições válidas", minPoints)
		return result
	}

	mean, _ := stats.Mean(filtered)
	sd, _ := stats.StandardDeviationPopulation(filtered)
	result.Mean = analytics.Ptr(analytics.Round(mean, 2))
	result.StdDev = analytics.Ptr(analytics.Round(sd, 2))

	if value < limits.HeartRateMin || value > limits.SanityMax {
		result.Tier = TierInvalid
		result.Message = fmt.Sprintf("Valor fora da faixa aceitável (%.0f a %.0f bpm)", limits.HeartRateMin, limits.SanityMax)
		return result
	}

	var z, probability float64
	if sd == 0 {
		if value == mean {
			z, probability = 0, 100
		} else {
			z, probability = math.Inf(1), 0
		}
	} else {
		z = math.Abs((value - mean) / sd)
		probability = stats.NormSf(z, 0, 1) * 2 * 100
	}

	tier := TierFor(z)
	probability = analytics.Round(probability, 2)

	if !math.IsInf(z, 0) {
		result.ZScore = analytics.Ptr(analytics.Round(z, 2))
	}
	result.Probability = &probability
	result.Tier = tier
	result.Title = tier.Title()
	result.Interpretation = interpret(tier, result.Value, probability)
	return result
}
