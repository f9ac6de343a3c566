package api

import (
	"github.com/lysyi3m/jira-comb/app/activity"
	"github.com/lysyi3m/jira-comb/app/database"
	"github.com/lysyi3m/jira-comb/app/tasks"
)

type Handler struct {
	configCache  *activity.ConfigCache
	sourceRepo   database.SourceRepository
	activityRepo database.ActivityRepository
	scheduler    tasks.TaskSchedulerInterface
}

// View types returned by the JSON API.

type LoggedView struct {
	HumanTime   string `json:"human_time"`
	Seconds     int    `json:"seconds"`
	Description string `json:"description,omitempty"`
}

type ActivityView struct {
	ID          string      `json:"id"`
	Time        string      `json:"time"`
	Action      string      `json:"action"`
	ActionText  string      `json:"action_text"`
	IssueKey    string      `json:"issue_key"`
	IssueTitle  string      `json:"issue_title"`
	Logged      *LoggedView `json:"logged,omitempty"`
	CommentLink string      `json:"comment_link,omitempty"`
}

type DateSummaryView struct {
	Date               string         `json:"date"`
	TotalLoggedSeconds int            `json:"total_logged_seconds"`
	TotalLogged        string         `json:"total_logged"`
	ActivityCount      int            `json:"activity_count"`
	Activities         []ActivityView `json:"activities"`
}

type IssueGroupView struct {
	IssueKey           string         `json:"issue_key"`
	IssueTitle         string         `json:"issue_title"`
	TotalLoggedSeconds int            `json:"total_logged_seconds"`
	TotalLogged        string         `json:"total_logged"`
	ActivityCount      int            `json:"activity_count"`
	Activities         []ActivityView `json:"activities"`
}
