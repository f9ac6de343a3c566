package activity

import (
	"sort"
)

// Summary is the aggregated view of one date bucket.
type Summary struct {
	Date               string
	Activities         []Activity
	TotalLoggedSeconds int
	ActivityCount      int
}

// IssueGroup is the per-issue drill-down inside one date bucket.
type IssueGroup struct {
	IssueKey           string
	IssueTitle         string
	Activities         []Activity
	TotalLoggedSeconds int
}

// TotalLoggedSeconds sums logged seconds over activities that carry a
// logged record. Zero for an empty or all-unlogged list.
func TotalLoggedSeconds(activities []Activity) int {
	total := 0
	for _, a := range activities {
		if a.Logged != nil {
			total += a.Logged.Seconds
		}
	}
	return total
}

// FilterLogged returns only the activities carrying logged time,
// preserving order. Used by the logged-work view; the activities view
// keeps everything.
func FilterLogged(activities []Activity) []Activity {
	var logged []Activity
	for _, a := range activities {
		if a.Logged != nil {
			logged = append(logged, a)
		}
	}
	return logged
}

// GroupByIssue groups one date's activities by issue key. Groups are
// ordered by total logged seconds descending; the sort is stable, so
// issues with equal totals keep first-seen order. Activities inside a
// group are chronological.
func GroupByIssue(activities []Activity) []IssueGroup {
	index := make(map[string]int)
	var groups []IssueGroup

	for _, a := range activities {
		i, ok := index[a.IssueKey]
		if !ok {
			i = len(groups)
			index[a.IssueKey] = i
			groups = append(groups, IssueGroup{
				IssueKey:   a.IssueKey,
				IssueTitle: a.IssueTitle,
			})
		}
		groups[i].Activities = append(groups[i].Activities, a)
	}

	for i := range groups {
		groups[i].TotalLoggedSeconds = TotalLoggedSeconds(groups[i].Activities)
		sort.SliceStable(groups[i].Activities, func(a, b int) bool {
			return groups[i].Activities[a].EntryAt.Before(groups[i].Activities[b].EntryAt)
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalLoggedSeconds > groups[j].TotalLoggedSeconds
	})

	return groups
}

// Summarize turns a parsed date->activities mapping into per-date
// summaries. Every activity stays in exactly one bucket.
func Summarize(byDate map[string][]Activity) map[string]Summary {
	summaries := make(map[string]Summary, len(byDate))
	for date, activities := range byDate {
		summaries[date] = Summary{
			Date:               date,
			Activities:         activities,
			TotalLoggedSeconds: TotalLoggedSeconds(activities),
			ActivityCount:      len(activities),
		}
	}
	return summaries
}

// SortedDates returns bucket dates newest first.
func SortedDates[V any](byDate map[string]V) []string {
	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}
