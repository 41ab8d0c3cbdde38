package bdc

import "github.com/bobmcallan/bdcwatch/internal/models"

// Averages computes the mean of each scalar metric across the given views.
// Unknown values are excluded from both numerator and denominator, so a
// metric populated on two of three entities averages over two. Metrics with
// no populated values at all are omitted from the result.
func (s *Service) Averages(views []*models.BDCView) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, v := range views {
		for _, name := range models.MetricNames() {
			if p := v.Metric(name); p != nil {
				sums[name] += *p
				counts[name]++
			}
		}
	}

	averages := make(map[string]float64, len(sums))
	for name, sum := range sums {
		averages[name] = sum / float64(counts[name])
	}
	return averages
}
