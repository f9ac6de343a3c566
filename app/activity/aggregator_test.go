package activity

import (
	"testing"
	"time"
)

func makeActivity(id, issueKey, issueTitle string, at time.Time, loggedSeconds int) Activity {
	a := Activity{
		ID:         id,
		EntryAt:    at,
		Action:     ActionCommented,
		ActionText: "John Doe commented on " + issueKey,
		IssueKey:   issueKey,
		IssueTitle: issueTitle,
	}
	if loggedSeconds > 0 {
		a.Action = ActionLogged
		a.Logged = &Logged{
			HumanTime: FormatSeconds(loggedSeconds),
			Seconds:   loggedSeconds,
		}
	}
	return a
}

func TestTotalLoggedSeconds(t *testing.T) {
	at := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	activities := []Activity{
		makeActivity("1", "ABC-1", "First", at, 3600),
		makeActivity("2", "ABC-1", "First", at, 0),
		makeActivity("3", "ABC-2", "Second", at, 1800),
	}

	if total := TotalLoggedSeconds(activities); total != 5400 {
		t.Errorf("Expected 5400, got %d", total)
	}
	if total := TotalLoggedSeconds(nil); total != 0 {
		t.Errorf("Expected 0 for empty list, got %d", total)
	}
}

func TestFilterLogged(t *testing.T) {
	at := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	activities := []Activity{
		makeActivity("1", "ABC-1", "First", at, 3600),
		makeActivity("2", "ABC-1", "First", at, 0),
		makeActivity("3", "ABC-2", "Second", at, 1800),
	}

	logged := FilterLogged(activities)
	if len(logged) != 2 {
		t.Fatalf("Expected 2 logged activities, got %d", len(logged))
	}
	if logged[0].ID != "1" || logged[1].ID != "3" {
		t.Errorf("Expected order preserved, got %s, %s", logged[0].ID, logged[1].ID)
	}
}

func TestGroupByIssueOrdering(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	// ABC-2 appears first in the feed but has less logged time.
	activities := []Activity{
		makeActivity("1", "ABC-2", "Second", day.Add(9*time.Hour), 1800),
		makeActivity("2", "ABC-1", "First", day.Add(14*time.Hour), 3600),
		makeActivity("3", "ABC-1", "First", day.Add(10*time.Hour), 3600),
		makeActivity("4", "ABC-2", "Second", day.Add(11*time.Hour), 0),
	}

	groups := GroupByIssue(activities)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}

	if groups[0].IssueKey != "ABC-1" {
		t.Errorf("Expected ABC-1 first (7200s > 1800s), got %s", groups[0].IssueKey)
	}
	if groups[0].TotalLoggedSeconds != 7200 {
		t.Errorf("Expected 7200 seconds for ABC-1, got %d", groups[0].TotalLoggedSeconds)
	}
	if groups[1].TotalLoggedSeconds != 1800 {
		t.Errorf("Expected 1800 seconds for ABC-2, got %d", groups[1].TotalLoggedSeconds)
	}

	// Activities within a group are chronological regardless of feed order.
	abc1 := groups[0].Activities
	if abc1[0].ID != "3" || abc1[1].ID != "2" {
		t.Errorf("Expected chronological order within group, got %s, %s", abc1[0].ID, abc1[1].ID)
	}
}

func TestGroupByIssueStableOnEqualTotals(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	activities := []Activity{
		makeActivity("1", "ABC-1", "First", day.Add(9*time.Hour), 1800),
		makeActivity("2", "ABC-2", "Second", day.Add(10*time.Hour), 1800),
		makeActivity("3", "ABC-3", "Third", day.Add(11*time.Hour), 1800),
	}

	groups := GroupByIssue(activities)
	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}
	for i, expected := range []string{"ABC-1", "ABC-2", "ABC-3"} {
		if groups[i].IssueKey != expected {
			t.Errorf("Expected first-seen order to hold, group %d is %s", i, groups[i].IssueKey)
		}
	}
}

func TestGroupByIssueAllUnlogged(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	activities := []Activity{
		makeActivity("1", "ABC-1", "First", day.Add(9*time.Hour), 0),
		makeActivity("2", "ABC-2", "Second", day.Add(10*time.Hour), 0),
	}

	groups := GroupByIssue(activities)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	// Equal zero totals keep first-seen order.
	if groups[0].IssueKey != "ABC-1" || groups[1].IssueKey != "ABC-2" {
		t.Errorf("Expected first-seen order, got %s, %s", groups[0].IssueKey, groups[1].IssueKey)
	}
}

func TestSummarize(t *testing.T) {
	day1 := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)

	byDate := map[string][]Activity{
		"2024-03-15": {
			makeActivity("1", "ABC-1", "First", day1, 3600),
			makeActivity("2", "ABC-1", "First", day1, 0),
		},
		"2024-03-14": {
			makeActivity("3", "ABC-2", "Second", day2, 1800),
		},
	}

	summaries := Summarize(byDate)
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}

	s := summaries["2024-03-15"]
	if s.TotalLoggedSeconds != 3600 {
		t.Errorf("Expected 3600 seconds, got %d", s.TotalLoggedSeconds)
	}
	if s.ActivityCount != 2 {
		t.Errorf("Expected 2 activities, got %d", s.ActivityCount)
	}
}

func TestSortedDates(t *testing.T) {
	byDate := map[string][]Activity{
		"2024-03-14": nil,
		"2024-03-16": nil,
		"2024-03-15": nil,
	}

	dates := SortedDates(byDate)
	expected := []string{"2024-03-16", "2024-03-15", "2024-03-14"}
	for i := range expected {
		if dates[i] != expected[i] {
			t.Errorf("Expected %s at position %d, got %s", expected[i], i, dates[i])
		}
	}
}
