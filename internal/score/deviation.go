package score

import (
	"math"

	"git.lost.host/meutraa/eotw-stats/internal/game"
)

// StandardDeviation of the offsets in a histogram, in milliseconds.
//
// The weighted mean is truncated to a whole millisecond before the
// variance is taken, so results match the reference numbers exactly. An
// empty histogram has no deviation and returns NaN.
func StandardDeviation(h *Histogram) float64 {
	var valueWeightSum, weightSum int64
	for i, weight := range h {
		value := int64(i - game.OffsetBucketRange)
		valueWeightSum += value * int64(weight)
		weightSum += int64(weight)
	}
	if weightSum == 0 {
		return math.NaN()
	}

	mean := valueWeightSum / weightSum

	var varianceSum int64
	for i, weight := range h {
		d := int64(i-game.OffsetBucketRange) - mean
		varianceSum += int64(weight) * d * d
	}

	return math.Sqrt(float64(varianceSum) / float64(weightSum))
}
