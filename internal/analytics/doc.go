// Package analytics computes the descriptive aggregates of the analysis
// stage: the per-segment ride-length summary and the ride counts per
// weekday, start hour, and month, each split by rider segment.
//
// All aggregates are pure passes over a cleaned record set. Ordering is
// always segment first (member, casual) and then the ordinal of the
// grouping enum, which is what makes the aggregate CSVs and the charts
// line up without any locale-dependent sorting. Statistics come from
// gonum/stat; the median is the linearly interpolated 0.5 quantile.
package analytics
