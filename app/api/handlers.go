package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/jira-comb/app/activity"
	"github.com/lysyi3m/jira-comb/app/database"
	"github.com/lysyi3m/jira-comb/app/tasks"
)

func NewHandler(configCache *activity.ConfigCache, sourceRepo database.SourceRepository,
	activityRepo database.ActivityRepository, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		configCache:  configCache,
		sourceRepo:   sourceRepo,
		activityRepo: activityRepo,
		scheduler:    scheduler,
	}
}

// GetActivities returns per-date summaries of everything the user did,
// logged or not, newest date first.
func (h *Handler) GetActivities(c *gin.Context) {
	name := c.Param("name")

	activities, ok := h.loadActivities(c, name)
	if !ok {
		return
	}

	summaries := activity.Summarize(bucketByDate(activities))

	views := make([]DateSummaryView, 0, len(summaries))
	for _, date := range activity.SortedDates(summaries) {
		views = append(views, summaryView(summaries[date]))
	}

	c.JSON(http.StatusOK, gin.H{
		"source": name,
		"dates":  views,
		"total":  len(views),
	})
}

// GetLogged returns per-date summaries restricted to logged work. Dates
// without logged time are filtered out of this view.
func (h *Handler) GetLogged(c *gin.Context) {
	name := c.Param("name")

	activities, ok := h.loadActivities(c, name)
	if !ok {
		return
	}

	byDate := bucketByDate(activities)

	views := make([]DateSummaryView, 0, len(byDate))
	for _, date := range activity.SortedDates(byDate) {
		logged := activity.FilterLogged(byDate[date])
		totalSeconds := activity.TotalLoggedSeconds(logged)
		if totalSeconds == 0 {
			continue
		}
		views = append(views, summaryView(activity.Summary{
			Date:               date,
			Activities:         logged,
			TotalLoggedSeconds: totalSeconds,
			ActivityCount:      len(logged),
		}))
	}

	c.JSON(http.StatusOK, gin.H{
		"source": name,
		"dates":  views,
		"total":  len(views),
	})
}

// GetIssuesByDate returns one date's drill-down: activities grouped by
// issue, ordered by total logged seconds descending.
func (h *Handler) GetIssuesByDate(c *gin.Context) {
	name := c.Param("name")
	date := c.Param("date")

	if _, err := time.Parse(activity.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	if _, err := h.configCache.GetConfig(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}

	activities, err := h.activityRepo.GetActivitiesByDate(name, date)
	if err != nil {
		slog.Error("Database error", "operation", "get_activities_by_date", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	groups := activity.GroupByIssue(activities)

	views := make([]IssueGroupView, 0, len(groups))
	for _, group := range groups {
		views = append(views, IssueGroupView{
			IssueKey:           group.IssueKey,
			IssueTitle:         group.IssueTitle,
			TotalLoggedSeconds: group.TotalLoggedSeconds,
			TotalLogged:        activity.FormatSeconds(group.TotalLoggedSeconds),
			ActivityCount:      len(group.Activities),
			Activities:         activityViews(group.Activities),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"source": name,
		"date":   date,
		"issues": views,
		"total":  len(views),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if sourceCount, err := h.sourceRepo.GetSourceCount(); err == nil {
		health["sources"] = sourceCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	stats := make([]map[string]interface{}, 0, len(configs))

	for _, sourceConfig := range configs {
		info := map[string]interface{}{
			"name":             sourceConfig.Name,
			"username":         sourceConfig.Username,
			"enabled":          sourceConfig.Settings.Enabled,
			"refresh_interval": (time.Duration(sourceConfig.Settings.RefreshInterval) * time.Second).String(),
			"refreshing":       h.scheduler.IsRefreshing(sourceConfig.Name),
		}

		if source, err := h.sourceRepo.GetSource(sourceConfig.Name); err == nil && source != nil {
			if source.LastRefreshedAt != nil {
				info["last_refreshed_at"] = source.LastRefreshedAt
				info["last_refreshed"] = humanize.Time(*source.LastRefreshedAt)
			}
			info["next_refresh_at"] = source.NextRefreshAt
		}

		if activityCount, err := h.activityRepo.GetActivityCount(sourceConfig.Name); err == nil {
			info["activity_count"] = activityCount
		}

		stats = append(stats, info)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": stats,
		"total":   len(stats),
	})
}

func (h *Handler) APIListSources(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	sources := make([]map[string]interface{}, 0, len(configs))

	for _, sourceConfig := range configs {
		info := map[string]interface{}{
			"name":             sourceConfig.Name,
			"username":         sourceConfig.Username,
			"enabled":          sourceConfig.Settings.Enabled,
			"refresh_interval": (time.Duration(sourceConfig.Settings.RefreshInterval) * time.Second).String(),
			"window_days":      sourceConfig.Settings.WindowDays,
			"skip_incomplete":  sourceConfig.Settings.SkipIncomplete,
		}

		if source, err := h.sourceRepo.GetSource(sourceConfig.Name); err == nil && source != nil {
			info["last_refreshed_at"] = source.LastRefreshedAt
			info["next_refresh_at"] = source.NextRefreshAt
		}

		sources = append(sources, info)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": sources,
		"total":   len(sources),
	})
}

// APIRefreshSource enqueues a manual refresh. A refresh already in
// flight for the source is a conflict, not a queue entry.
func (h *Handler) APIRefreshSource(c *gin.Context) {
	name := c.Param("name")

	if _, err := h.configCache.GetConfig(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}

	if h.scheduler.IsRefreshing(name) {
		c.JSON(http.StatusConflict, gin.H{"error": "Refresh already in progress"})
		return
	}

	if err := h.scheduler.EnqueueRefresh(name); err != nil {
		slog.Error("Failed to enqueue refresh", "source", name, "error", err)
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Refresh enqueued",
		"source":  name,
	})
}

func (h *Handler) loadActivities(c *gin.Context, name string) ([]activity.Activity, bool) {
	if _, err := h.configCache.GetConfig(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return nil, false
	}

	activities, err := h.activityRepo.GetActivities(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_activities", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}

	return activities, true
}

func bucketByDate(activities []activity.Activity) map[string][]activity.Activity {
	byDate := make(map[string][]activity.Activity)
	for _, a := range activities {
		date := a.EntryDate()
		byDate[date] = append(byDate[date], a)
	}
	return byDate
}

func summaryView(summary activity.Summary) DateSummaryView {
	return DateSummaryView{
		Date:               summary.Date,
		TotalLoggedSeconds: summary.TotalLoggedSeconds,
		TotalLogged:        activity.FormatSeconds(summary.TotalLoggedSeconds),
		ActivityCount:      summary.ActivityCount,
		Activities:         activityViews(summary.Activities),
	}
}

func activityViews(activities []activity.Activity) []ActivityView {
	views := make([]ActivityView, 0, len(activities))
	for _, a := range activities {
		view := ActivityView{
			ID:          a.ID,
			Time:        a.EntryAt.Format(time.RFC3339),
			Action:      string(a.Action),
			ActionText:  a.ActionText,
			IssueKey:    a.IssueKey,
			IssueTitle:  a.IssueTitle,
			CommentLink: a.CommentLink,
		}
		if a.Logged != nil {
			view.Logged = &LoggedView{
				HumanTime:   a.Logged.HumanTime,
				Seconds:     a.Logged.Seconds,
				Description: a.Logged.Description,
			}
		}
		views = append(views, view)
	}
	return views
}
