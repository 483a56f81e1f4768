package extract

import "github.com/danpilch/cbprobe/pkg/check"

// Stats summarises a numeric time series.
type Stats struct {
	Mean  float64
	Min   float64
	Max   float64
	Count int
}

// Summarize computes mean, min and max. It reports false for an empty series.
func Summarize(values []float64) (Stats, bool) {
	if len(values) == 0 {
		return Stats{}, false
	}

	s := Stats{Min: values[0], Max: values[0], Count: len(values)}
	var sum float64
	for _, v := range values {
		sum += v
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
	}
	s.Mean = sum / float64(len(values))
	return s, true
}

// Samples summarises the numeric array at path. Non-numeric entries are ignored.
// A missing, non-array or empty series reports false.
func Samples(doc any, path Path) (Stats, bool) {
	v, ok := Lookup(doc, path)
	if !ok {
		return Stats{}, false
	}
	items, ok := v.([]any)
	if !ok {
		return Stats{}, false
	}

	values := make([]float64, 0, len(items))
	for _, item := range items {
		if f, ok := toFloat(item); ok {
			values = append(values, f)
		}
	}
	return Summarize(values)
}

// PerfData converts the stats into a sample valued at the mean.
func (s Stats) PerfData(label string) check.PerfData {
	return check.PerfData{
		Label: label,
		Value: s.Mean,
		Min:   s.Min,
	}.WithMax(s.Max)
}
