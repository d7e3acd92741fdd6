package view

import (
	"sort"
	"strings"
	"time"
)

var dateLayouts = []string{"2006-01-02", "01/02/2006", "2006/01/02"}

// ParseDate parses a due date in any of the accepted layouts. The zero time
// and false are returned when the value is empty or unparseable.
func ParseDate(raw string) (time.Time, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TaskView is one task with its derived presentation fields.
type TaskView struct {
	Row           map[string]any `json:"row"`
	DueDate       string         `json:"due_date"`
	PriorityClass string         `json:"priority_class"`
	StatusText    string         `json:"status_text"`
	StatusClass   string         `json:"status_class"`
}

// DayView is one weekday column of the week strip.
type DayView struct {
	Label     string     `json:"label"`
	DateLabel string     `json:"date_label"`
	IsToday   bool       `json:"is_today"`
	Tasks     []TaskView `json:"tasks"`
}

// WeekView is the task card's data: all tasks sorted for the list plus the
// current Monday-start week with per-day buckets.
type WeekView struct {
	Bars      []TaskView `json:"bars"`
	Days      []DayView  `json:"days"`
	WeekLabel string     `json:"week_label"`
}

func priorityRank(raw string) int {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return 0
	case "low":
		return 2
	default:
		return 1
	}
}

func rowString(row map[string]any, key string) string {
	if v, ok := row[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// BuildWeekView lays tasks out over the week containing today. Tasks are
// sorted by priority rank then due date; undated tasks sort last within
// their rank.
func BuildWeekView(tasks []map[string]any, today time.Time) WeekView {
	today = dateOnly(today)
	weekStart := today.AddDate(0, 0, -mondayOffset(today))

	days := make([]time.Time, 7)
	for i := range days {
		days[i] = weekStart.AddDate(0, 0, i)
	}
	dayTasks := make(map[time.Time][]TaskView, 7)

	bars := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		due, hasDue := ParseDate(rowString(task, "due_date"))
		statusText := strings.TrimSpace(rowString(task, "status"))
		if statusText == "" {
			statusText = "Not started"
		}
		tv := TaskView{
			Row:           task,
			PriorityClass: PriorityClass(rowString(task, "priority")),
			StatusText:    statusText,
			StatusClass:   TaskStatusClass(statusText),
		}
		if hasDue {
			tv.DueDate = due.Format("2006-01-02")
		}
		bars = append(bars, tv)
		if hasDue {
			day := dateOnly(due)
			if !day.Before(weekStart) && day.Before(weekStart.AddDate(0, 0, 7)) {
				dayTasks[day] = append(dayTasks[day], tv)
			}
		}
	}

	sortTasks(bars)
	for _, bucket := range dayTasks {
		sortTasks(bucket)
	}

	dayViews := make([]DayView, 0, 7)
	for _, day := range days {
		dayViews = append(dayViews, DayView{
			Label:     day.Format("Mon"),
			DateLabel: day.Format("Jan 02"),
			IsToday:   day.Equal(today),
			Tasks:     dayTasks[day],
		})
	}

	return WeekView{
		Bars:      bars,
		Days:      dayViews,
		WeekLabel: weekStart.Format("Jan 02, 2006"),
	}
}

func sortTasks(tasks []TaskView) {
	sort.SliceStable(tasks, func(i, j int) bool {
		ri := priorityRank(rowString(tasks[i].Row, "priority"))
		rj := priorityRank(rowString(tasks[j].Row, "priority"))
		if ri != rj {
			return ri < rj
		}
		di, iOK := ParseDate(tasks[i].DueDate)
		dj, jOK := ParseDate(tasks[j].DueDate)
		if iOK != jOK {
			return iOK // dated before undated
		}
		if !iOK {
			return false
		}
		return di.Before(dj)
	})
}

// dateOnly drops the time-of-day and zone so calendar days compare equal.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mondayOffset returns the number of days since the most recent Monday.
func mondayOffset(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6 // Sunday
	}
	return wd - 1
}
