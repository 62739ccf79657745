package detector

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/wsantos08/outlierscan/internal/model"
)

// Summaries computes descriptive statistics for every numeric column of the
// dataset. Missing values are skipped; a column with no non-missing values
// is omitted. Results follow column declaration order.
//
// Mean, median, standard deviation, min, and max come from the stats
// library. Q1 and Q3 deliberately reuse the pinned Quantile routine so the
// summary quartiles always agree with the bounds the detector derived.
func Summaries(ds *model.Dataset) []model.ColumnSummary {
	var summaries []model.ColumnSummary

	for _, col := range ds.Columns {
		if col.Kind != model.KindNumeric {
			continue
		}

		values := make([]float64, 0, len(col.Numbers))
		for _, v := range col.Numbers {
			if !model.IsMissing(v) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		mean, err := stats.Mean(values)
		if err != nil {
			continue
		}
		median, err := stats.Median(values)
		if err != nil {
			continue
		}
		minimum, err := stats.Min(values)
		if err != nil {
			continue
		}
		maximum, err := stats.Max(values)
		if err != nil {
			continue
		}

		// Sample standard deviation is undefined for a single value.
		var stdDev float64
		if len(values) > 1 {
			stdDev, err = stats.StandardDeviationSample(values)
			if err != nil {
				continue
			}
		}

		sorted := make([]float64, len(values))
		copy(sorted, values)
		sort.Float64s(sorted)

		summaries = append(summaries, model.ColumnSummary{
			Column: col.Name,
			Count:  len(values),
			Mean:   mean,
			Median: median,
			StdDev: stdDev,
			Min:    minimum,
			Max:    maximum,
			Q1:     Quantile(sorted, 0.25),
			Q3:     Quantile(sorted, 0.75),
		})
	}

	return summaries
}
