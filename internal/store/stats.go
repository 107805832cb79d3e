package store

import (
	"context"
	"sort"
	"time"
)

// LabelCount is the number of submissions carrying a label.
type LabelCount struct {
	Prediction string `json:"prediction"`
	Count      int    `json:"count"`
}

// Stats summarizes the stored records.
type Stats struct {
	TotalAccounts    int          `json:"totalAccounts"`
	TotalSubmissions int          `json:"totalSubmissions"`
	ActiveUsers      int          `json:"activeUsers"`
	Labels           []LabelCount `json:"labels"`
	FirstSubmission  *time.Time   `json:"firstSubmission,omitempty"`
	LastSubmission   *time.Time   `json:"lastSubmission,omitempty"`
}

// ComputeStats aggregates accounts and submissions. Labels are sorted by count, then name.
func ComputeStats(accounts map[string]Account, submissions []Submission) Stats {
	stats := Stats{
		TotalAccounts:    len(accounts),
		TotalSubmissions: len(submissions),
	}

	counts := make(map[string]int)
	users := make(map[string]struct{})
	for i := range submissions {
		counts[submissions[i].Prediction]++
		users[submissions[i].Identifier] = struct{}{}
	}
	stats.ActiveUsers = len(users)

	for label, count := range counts {
		stats.Labels = append(stats.Labels, LabelCount{Prediction: label, Count: count})
	}
	sort.Slice(stats.Labels, func(i, j int) bool {
		if stats.Labels[i].Count != stats.Labels[j].Count {
			return stats.Labels[i].Count > stats.Labels[j].Count
		}
		return stats.Labels[i].Prediction < stats.Labels[j].Prediction
	})

	if len(submissions) > 0 {
		first := submissions[0].Timestamp
		last := submissions[len(submissions)-1].Timestamp
		stats.FirstSubmission = &first
		stats.LastSubmission = &last
	}

	return stats
}

// LoadStats loads everything from s and aggregates it.
func LoadStats(ctx context.Context, s Store) (Stats, error) {
	accounts, err := s.LoadAccounts(ctx)
	if err != nil {
		return Stats{}, err
	}
	submissions, err := s.LoadSubmissions(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(accounts, submissions), nil
}
