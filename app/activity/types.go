package activity

import (
	"time"
)

// DateLayout is the key format of date buckets (local calendar date).
const DateLayout = "2006-01-02"

// Action classifies what kind of user action an activity stream entry
// records. The value set is closed; Classify falls back to ActionUnknown.
type Action string

const (
	ActionCommented       Action = "COMMENTED"
	ActionUpdated         Action = "UPDATED"
	ActionChanged         Action = "CHANGED"
	ActionAdded           Action = "ADDED"
	ActionRemoved         Action = "REMOVED"
	ActionStartedProgress Action = "STARTED_PROGRESS"
	ActionStoppedProgress Action = "STOPPED_PROGRESS"
	ActionAttached        Action = "ATTACHED"
	ActionLogged          Action = "LOGGED"
	ActionLinked          Action = "LINKED"
	ActionResolved        Action = "RESOLVED"
	ActionCreated         Action = "CREATED"
	ActionReduced         Action = "REDUCED"
	ActionReopened        Action = "REOPENED"
	ActionUnknown         Action = "UNKNOWN"
)

// Logged captures a work-time log annotation attached to an activity.
// Seconds is always positive: a zero-duration log is represented by the
// absence of the whole record, not by a zero value.
type Logged struct {
	HumanTime   string
	Seconds     int
	Description string
}

// Activity is one unit of user action parsed from the feed. Constructed
// once per entry and immutable afterwards.
type Activity struct {
	ID          string
	EntryAt     time.Time // local time zone
	Action      Action
	ActionText  string
	IssueKey    string
	IssueTitle  string
	Logged      *Logged
	CommentLink string
}

func (a Activity) IsLogged() bool {
	return a.Logged != nil
}

// EntryDate returns the local calendar date the activity belongs to.
func (a Activity) EntryDate() string {
	return a.EntryAt.Format(DateLayout)
}

// Configuration types

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	Username string         `yaml:"username"`
	Settings ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	MaxResults      int  `yaml:"max_results"`
	Timeout         int  `yaml:"timeout"`         // seconds
	WindowDays      int  `yaml:"window_days"`     // 0 = no update-date window filter
	SkipIncomplete  bool `yaml:"skip_incomplete"` // skip broken entries instead of failing the parse
}
