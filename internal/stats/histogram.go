// Package stats computes aggregate match statistics. It is the calculator
// behind the statistics jobs: pure in-memory aggregation over already
// loaded matches, safe to run off the request path.
package stats

import "trialbook/internal/model"

// Histogram is a category -> count mapping that remembers insertion order,
// so derived chart axes are stable across runs. Categories may be declared
// up front at a zero count to guarantee consistent axes.
type Histogram struct {
	labels []string
	counts map[string]int
}

// NewHistogram creates a histogram with the given categories pre-declared
// at zero, in the given order.
func NewHistogram(labels ...string) *Histogram {
	h := &Histogram{
		labels: make([]string, 0, len(labels)),
		counts: make(map[string]int, len(labels)),
	}
	for _, label := range labels {
		h.declare(label)
	}
	return h
}

func (h *Histogram) declare(label string) {
	if _, ok := h.counts[label]; !ok {
		h.labels = append(h.labels, label)
		h.counts[label] = 0
	}
}

// Add increments the count for a label, declaring it if unseen.
func (h *Histogram) Add(label string) {
	h.AddN(label, 1)
}

// AddN increments the count for a label by n, declaring it if unseen.
func (h *Histogram) AddN(label string, n int) {
	h.declare(label)
	h.counts[label] += n
}

// Count returns the count for a label, zero if never declared.
func (h *Histogram) Count(label string) int {
	return h.counts[label]
}

// Labels returns the categories in insertion order.
func (h *Histogram) Labels() []string {
	return h.labels
}

// Len returns the number of declared categories.
func (h *Histogram) Len() int {
	return len(h.labels)
}

// Max returns the largest count, zero for an empty histogram.
func (h *Histogram) Max() int {
	max := 0
	for _, label := range h.labels {
		if c := h.counts[label]; c > max {
			max = c
		}
	}
	return max
}

// Buckets converts the histogram into its serializable form, preserving
// insertion order.
func (h *Histogram) Buckets() []model.Bucket {
	buckets := make([]model.Bucket, 0, len(h.labels))
	for _, label := range h.labels {
		buckets = append(buckets, model.Bucket{Label: label, Count: h.counts[label]})
	}
	return buckets
}

// MostCommon returns the first label holding the maximum count. The bool is
// false for an empty histogram.
func (h *Histogram) MostCommon() (string, int, bool) {
	if len(h.labels) == 0 {
		return "", 0, false
	}
	best, bestCount := h.labels[0], h.counts[h.labels[0]]
	for _, label := range h.labels[1:] {
		if h.counts[label] > bestCount {
			best, bestCount = label, h.counts[label]
		}
	}
	return best, bestCount, true
}

// LeastCommon returns the first label holding the minimum count. The bool
// is false for an empty histogram.
func (h *Histogram) LeastCommon() (string, int, bool) {
	if len(h.labels) == 0 {
		return "", 0, false
	}
	worst, worstCount := h.labels[0], h.counts[h.labels[0]]
	for _, label := range h.labels[1:] {
		if h.counts[label] < worstCount {
			worst, worstCount = label, h.counts[label]
		}
	}
	return worst, worstCount, true
}
