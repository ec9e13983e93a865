package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DebtorFilter selects which debtor summaries to include
type DebtorFilter string

const (
	DebtorFilterAll     DebtorFilter = "all"
	DebtorFilterOverdue DebtorFilter = "overdue" // first activity more than 30 days ago
	DebtorFilterRecent  DebtorFilter = "recent"  // last activity within 7 days
)

// IsValid checks if the filter is valid
func (f DebtorFilter) IsValid() bool {
	switch f {
	case DebtorFilterAll, DebtorFilterOverdue, DebtorFilterRecent:
		return true
	}
	return false
}

// DebtorSort selects the ordering of debtor summaries
type DebtorSort string

const (
	DebtorSortByDebt         DebtorSort = "debt"          // total debt descending
	DebtorSortByLastActivity DebtorSort = "last_activity" // last activity descending
	DebtorSortByName         DebtorSort = "name"          // display name ascending
)

// IsValid checks if the sort is valid
func (s DebtorSort) IsValid() bool {
	switch s {
	case DebtorSortByDebt, DebtorSortByLastActivity, DebtorSortByName:
		return true
	}
	return false
}

const (
	overdueAfter = 30 * 24 * time.Hour
	recentWithin = 7 * 24 * time.Hour
)

// DebtorSummary is the derived per-customer view over outstanding sale
// lines. It is recomputed on every read and never persisted.
type DebtorSummary struct {
	NormalizedName string          `json:"normalized_name"`
	DisplayName    string          `json:"display_name"`
	Phone          string          `json:"phone,omitempty"`
	TotalDebt      decimal.Decimal `json:"total_debt"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	FirstActivity  time.Time       `json:"first_activity"`
	LastActivity   time.Time       `json:"last_activity"`
	Lines          []*SaleLine     `json:"lines"`
}

// IsOverdue returns true if the debtor's oldest activity is older than 30 days
func (s *DebtorSummary) IsOverdue(now time.Time) bool {
	return now.Sub(s.FirstActivity) > overdueAfter
}

// IsRecent returns true if the debtor was active within the last 7 days
func (s *DebtorSummary) IsRecent(now time.Time) bool {
	return now.Sub(s.LastActivity) <= recentWithin
}

// Aggregator groups sale lines with outstanding debt into per-customer
// summaries. It is a pure function of its input and has no side effects.
type Aggregator struct{}

// NewAggregator creates a new debtor aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate groups all lines with positive debt by normalized customer
// name. The summary's display name is taken from the first line seen
// for the customer, the phone from the first line with a non-empty
// phone. Member lines are ordered chronologically, oldest first.
func (a *Aggregator) Aggregate(lines []*SaleLine) []*DebtorSummary {
	byCustomer := make(map[string]*DebtorSummary)
	order := make([]string, 0)

	for _, line := range lines {
		if !line.HasDebt() {
			continue
		}

		key := line.NormalizedCustomer()
		summary, exists := byCustomer[key]
		if !exists {
			displayName := line.CustomerName
			if key == UnknownCustomer {
				displayName = UnknownCustomer
			}
			summary = &DebtorSummary{
				NormalizedName: key,
				DisplayName:    displayName,
				TotalDebt:      decimal.Zero,
				TotalPaid:      decimal.Zero,
				FirstActivity:  line.OccurredAt,
				LastActivity:   line.OccurredAt,
				Lines:          make([]*SaleLine, 0, 4),
			}
			byCustomer[key] = summary
			order = append(order, key)
		}

		summary.TotalDebt = summary.TotalDebt.Add(line.Debt)
		summary.TotalPaid = summary.TotalPaid.Add(line.PaidAmount)
		if summary.Phone == "" && line.CustomerPhone != "" {
			summary.Phone = line.CustomerPhone
		}
		if line.OccurredAt.Before(summary.FirstActivity) {
			summary.FirstActivity = line.OccurredAt
		}
		if line.OccurredAt.After(summary.LastActivity) {
			summary.LastActivity = line.OccurredAt
		}
		summary.Lines = append(summary.Lines, line)
	}

	summaries := make([]*DebtorSummary, 0, len(order))
	for _, key := range order {
		summary := byCustomer[key]
		sortLinesChronologically(summary.Lines)
		summaries = append(summaries, summary)
	}
	return summaries
}

// Filter returns the summaries matching the given filter at time now
func (a *Aggregator) Filter(summaries []*DebtorSummary, filter DebtorFilter, now time.Time) []*DebtorSummary {
	if filter == DebtorFilterAll || filter == "" {
		return summaries
	}
	result := make([]*DebtorSummary, 0, len(summaries))
	for _, s := range summaries {
		switch filter {
		case DebtorFilterOverdue:
			if s.IsOverdue(now) {
				result = append(result, s)
			}
		case DebtorFilterRecent:
			if s.IsRecent(now) {
				result = append(result, s)
			}
		}
	}
	return result
}

// Sort orders the summaries in place by the given sort key
func (a *Aggregator) Sort(summaries []*DebtorSummary, by DebtorSort) {
	switch by {
	case DebtorSortByLastActivity:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].LastActivity.After(summaries[j].LastActivity)
		})
	case DebtorSortByName:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].NormalizedName < summaries[j].NormalizedName
		})
	default: // DebtorSortByDebt
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].TotalDebt.GreaterThan(summaries[j].TotalDebt)
		})
	}
}

// sortLinesChronologically orders lines oldest first, breaking ties by
// ID so allocation order is deterministic for same-timestamp lines
func sortLinesChronologically(lines []*SaleLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		if !lines[i].OccurredAt.Equal(lines[j].OccurredAt) {
			return lines[i].OccurredAt.Before(lines[j].OccurredAt)
		}
		return lines[i].ID.String() < lines[j].ID.String()
	})
}
