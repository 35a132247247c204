package emotext

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Shape names the distribution a score series most resembles. It only
// annotates chart titles.
type Shape string

const (
	ShapeInsufficient Shape = "insufficient data"
	ShapeConstant     Shape = "constant"
	ShapeNormal       Shape = "approximately normal"
	ShapeRightSkewed  Shape = "right-skewed"
	ShapeLeftSkewed   Shape = "left-skewed"
	ShapeHeavyTailed  Shape = "heavy-tailed"
	ShapeFlat         Shape = "flat"
)

// Thresholds used by AnalyzeShape.
const (
	skewThreshold     = 0.5
	kurtosisThreshold = 1.0
	minShapeSamples   = 4
)

var shapeNames = map[Shape]string{
	ShapeInsufficient: "dados insuficientes",
	ShapeConstant:     "constante",
	ShapeNormal:       "aproximadamente normal",
	ShapeRightSkewed:  "assimétrica à direita",
	ShapeLeftSkewed:   "assimétrica à esquerda",
	ShapeHeavyTailed:  "caudas pesadas",
	ShapeFlat:         "achatada",
}

// DisplayName returns the label shown in chart titles.
func (s Shape) DisplayName() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return string(s)
}

// AnalyzeShape classifies a score series by sample skewness and excess
// kurtosis. Skew dominates: a series is only called heavy-tailed or flat when
// it is roughly symmetric.
func AnalyzeShape(scores []float64) Shape {
	if len(scores) < minShapeSamples {
		return ShapeInsufficient
	}
	std := stat.StdDev(scores, nil)
	if std < 1e-12 || math.IsNaN(std) {
		return ShapeConstant
	}

	skew := stat.Skew(scores, nil)
	kurt := stat.ExKurtosis(scores, nil)

	switch {
	case skew >= skewThreshold:
		return ShapeRightSkewed
	case skew <= -skewThreshold:
		return ShapeLeftSkewed
	case kurt >= kurtosisThreshold:
		return ShapeHeavyTailed
	case kurt <= -kurtosisThreshold:
		return ShapeFlat
	default:
		return ShapeNormal
	}
}

// DefaultOutlierMultiplier is the Tukey fence multiplier.
const DefaultOutlierMultiplier = 1.5

// Outliers holds the result of DetectOutliers.
type Outliers struct {
	Values  []float64
	Indices []int
	Lower   float64
	Upper   float64
}

// DetectOutliers flags the values outside [Q1 - k*IQR, Q3 + k*IQR], where Q1
// and Q3 are empirical quantiles. Fewer than four values never produce
// outliers; the bounds are then the series minimum and maximum.
func DetectOutliers(scores []float64, k float64) Outliers {
	var out Outliers
	if len(scores) == 0 {
		return out
	}

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	if len(sorted) < minShapeSamples {
		out.Lower = sorted[0]
		out.Upper = sorted[len(sorted)-1]
		return out
	}

	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	iqr := q3 - q1

	out.Lower = q1 - k*iqr
	out.Upper = q3 + k*iqr

	for i, v := range scores {
		if v < out.Lower || v > out.Upper {
			out.Values = append(out.Values, v)
			out.Indices = append(out.Indices, i)
		}
	}
	return out
}
