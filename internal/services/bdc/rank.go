package bdc

import (
	"sort"
	"strings"

	"github.com/bobmcallan/bdcwatch/internal/interfaces"
	"github.com/bobmcallan/bdcwatch/internal/models"
)

// DefaultSortKey orders the dashboard by income first.
const DefaultSortKey = "dividend_yield"

// Rank sorts and filters composite views in place per the given options and
// returns the result. Sorting is stable so equal keys keep storage order.
// Unknown sort keys fall back to the default. A nil metric compares as zero;
// the null is a display concern, not a ranking one.
func Rank(views []*models.BDCView, opts interfaces.ViewOptions) []*models.BDCView {
	if filter := strings.TrimSpace(opts.SectorFilter); filter != "" && !strings.EqualFold(filter, "all") {
		filtered := views[:0]
		for _, v := range views {
			if v.SectorPercentages[filter] > 0 {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	key := opts.SortKey
	if key == "" {
		key = DefaultSortKey
	}

	var less func(a, b *models.BDCView) bool
	switch {
	case key == "name":
		less = func(a, b *models.BDCView) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case key == "total_fair_value":
		less = func(a, b *models.BDCView) bool {
			return a.TotalFairValue < b.TotalFairValue
		}
	case strings.HasPrefix(key, "sector:"):
		sector := strings.TrimPrefix(key, "sector:")
		less = func(a, b *models.BDCView) bool {
			return a.SectorPercentages[sector] < b.SectorPercentages[sector]
		}
	default:
		metric := key
		if !isMetricName(metric) {
			metric = DefaultSortKey
		}
		less = func(a, b *models.BDCView) bool {
			return metricOrZero(a, metric) < metricOrZero(b, metric)
		}
	}

	sort.SliceStable(views, func(i, j int) bool {
		if opts.Descending {
			return less(views[j], views[i])
		}
		return less(views[i], views[j])
	})

	return views
}

func isMetricName(name string) bool {
	for _, m := range models.MetricNames() {
		if m == name {
			return true
		}
	}
	return false
}

func metricOrZero(v *models.BDCView, name string) float64 {
	if p := v.Metric(name); p != nil {
		return *p
	}
	return 0
}
