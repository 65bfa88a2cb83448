package synth

import (
	"math"
	"strings"

	"corpusgen/internal/schema"
)

const (
	defaultIntMinimum   = 0
	defaultIntMaximum   = 1000
	integerCap          = 10000
	defaultFloatMinimum = 0.0
	defaultFloatMaximum = 1000.0
	floatCap            = 10000.0
)

// intRange is a keyword-selected integer range, evaluated in order.
type intRange struct {
	keywords []string
	min, max int
}

var intRanges = []intRange{
	{[]string{"age"}, 18, 90},
	{[]string{"year"}, 2020, 2025},
	{[]string{"month"}, 1, 12},
	{[]string{"day"}, 1, 28},
	{[]string{"hour"}, 0, 23},
	{[]string{"minute", "second"}, 0, 59},
	{[]string{"count", "total", "quantity"}, 1, 100},
	{[]string{"port"}, 1024, 65535},
	{[]string{"percentage", "percent"}, 0, 100},
}

// floatRange is a keyword-selected float range with a rounding precision.
type floatRange struct {
	keywords []string
	min, max float64
	decimals int
}

var floatRanges = []floatRange{
	{[]string{"price", "amount", "cost"}, 10.0, 5000.0, 2},
	{[]string{"rate", "percentage"}, 0.0, 100.0, 2},
	{[]string{"temperature"}, -20.0, 40.0, 1},
	{[]string{"latitude"}, -90.0, 90.0, 6},
	{[]string{"longitude"}, -180.0, 180.0, 6},
}

func (s *source) generateInteger(field string, doc *schema.Document) int {
	lower := strings.ToLower(field)
	for _, r := range intRanges {
		if !containsAny(lower, r.keywords) {
			continue
		}
		// Declared bounds win over keyword heuristics; the heuristic
		// ranges are already sized, so the cap does not apply here.
		minimum, maximum := r.min, r.max
		if doc.Minimum != nil && int(*doc.Minimum) > minimum {
			minimum = int(*doc.Minimum)
		}
		if doc.Maximum != nil && int(*doc.Maximum) < maximum {
			maximum = int(*doc.Maximum)
		}
		return s.intBetween(minimum, maximum)
	}

	minimum := defaultIntMinimum
	maximum := defaultIntMaximum
	if doc.Minimum != nil {
		minimum = int(*doc.Minimum)
	}
	if doc.Maximum != nil {
		maximum = int(*doc.Maximum)
	}
	if maximum > integerCap {
		maximum = integerCap
	}
	return s.intBetween(minimum, maximum)
}

func (s *source) generateNumber(field string, doc *schema.Document) float64 {
	lower := strings.ToLower(field)
	for _, r := range floatRanges {
		if !containsAny(lower, r.keywords) {
			continue
		}
		// Declared bounds win over keyword heuristics; no cap here.
		minimum, maximum := r.min, r.max
		if doc.Minimum != nil && *doc.Minimum > minimum {
			minimum = *doc.Minimum
		}
		if doc.Maximum != nil && *doc.Maximum < maximum {
			maximum = *doc.Maximum
		}
		return roundTo(s.floatBetween(minimum, maximum), r.decimals)
	}

	minimum := defaultFloatMinimum
	maximum := defaultFloatMaximum
	if doc.Minimum != nil {
		minimum = *doc.Minimum
	}
	if doc.Maximum != nil {
		maximum = *doc.Maximum
	}
	if maximum > floatCap {
		maximum = floatCap
	}
	return roundTo(s.floatBetween(minimum, maximum), 2)
}

// intBetween returns a uniform integer in [min, max].
func (s *source) intBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.Intn(max-min+1)
}

// floatBetween returns a uniform float in [min, max).
func (s *source) floatBetween(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.rng.Float64()*(max-min)
}

func roundTo(value float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(value*scale) / scale
}
