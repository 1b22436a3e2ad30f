package evaluation

import (
	"math"
	"sort"
	"strings"
)

const (
	MinRating  = 0.0
	MaxRating  = 5.0
	RatingStep = 0.5
)

// Rating is one named criterion score.
type Rating struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// RatingSet keeps ratings in criterion order.
type RatingSet []Rating

// Values returns the scores in order.
func (rs RatingSet) Values() []float64 {
	values := make([]float64, len(rs))
	for i, r := range rs {
		values[i] = r.Value
	}
	return values
}

// Criteria per rating-scored stage. The order is the display order of the
// evaluation forms.
var Criteria = map[Stage][]string{
	StageL2: {"strategic_alignment", "feasibility", "impact", "innovation"},
	StageL3: {"market_potential", "implementation_risk", "resource_availability", "time_to_value"},
	StageL4: {"technical_feasibility", "operational_readiness", "risk_mitigation", "pilot_results"},
}

// Aggregate returns the arithmetic mean of ratings. Any finite values are
// accepted; range checks belong to ValidateRatings. An empty input has no
// mean and panics.
func Aggregate(ratings []float64) float64 {
	if len(ratings) == 0 {
		panic("evaluation: Aggregate called with no ratings")
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return sum / float64(len(ratings))
}

// RoundScore rounds to two decimal places.
func RoundScore(v float64) float64 {
	return math.Round(v*100) / 100
}

// RatingsFromMap orders a name->value map by the stage criteria. Unknown
// and missing criteria are reported as validation errors.
func RatingsFromMap(stage Stage, values map[string]float64) (RatingSet, error) {
	names, ok := Criteria[stage]
	if !ok {
		return nil, invalid("ratings", "stage %s is not rating scored", stage)
	}

	known := make(map[string]struct{}, len(names))
	for _, name := range names {
		known[name] = struct{}{}
	}
	var unknown []string
	for name := range values {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, invalid("ratings", "unknown criteria: %s", strings.Join(unknown, ", "))
	}

	set := make(RatingSet, 0, len(names))
	for _, name := range names {
		v, ok := values[name]
		if !ok {
			return nil, invalid("ratings."+name, "rating is required")
		}
		set = append(set, Rating{Name: name, Value: v})
	}
	return set, nil
}

// ValidateRatings checks a stage's rating set is complete and every value
// sits on the 0.5 grid inside [0,5].
func ValidateRatings(stage Stage, set RatingSet) error {
	names, ok := Criteria[stage]
	if !ok {
		return invalid("ratings", "stage %s is not rating scored", stage)
	}
	if len(set) != len(names) {
		return invalid("ratings", "expected %d ratings, got %d", len(names), len(set))
	}
	for i, r := range set {
		field := "ratings." + names[i]
		if r.Name != names[i] {
			return invalid(field, "expected criterion %q at position %d, got %q", names[i], i+1, r.Name)
		}
		if err := ValidateRatingValue(field, r.Value); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRatingValue checks a single score against the rating widget range.
func ValidateRatingValue(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, "must be a finite number")
	}
	if v < MinRating || v > MaxRating {
		return invalid(field, "must be between %.1f and %.1f", MinRating, MaxRating)
	}
	if steps := v / RatingStep; steps != math.Trunc(steps) {
		return invalid(field, "must be a multiple of %.1f", RatingStep)
	}
	return nil
}
