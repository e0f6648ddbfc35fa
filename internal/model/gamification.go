package model

// Points granted for completing a task, by priority.
const (
	PointsLow    = 10
	PointsMedium = 20
	PointsHigh   = 30
)

// Badge names, awarded when a user's completed-task count lands exactly on
// a threshold.
const (
	BadgeFirstStep          = "First Step"
	BadgeTaskMaster         = "Task Master"
	BadgeProductivityLegend = "Productivity Legend"
	BadgeCenturyClub        = "Century Club"
)

var badgeThresholds = map[int64]string{
	1:   BadgeFirstStep,
	10:  BadgeTaskMaster,
	50:  BadgeProductivityLegend,
	100: BadgeCenturyClub,
}

// PointsForPriority maps a task priority to its completion award.
func PointsForPriority(p Priority) int {
	switch p {
	case PriorityHigh:
		return PointsHigh
	case PriorityLow:
		return PointsLow
	default:
		return PointsMedium
	}
}

// LevelForPoints derives the level from cumulative points:
// floor(points/100) + 1.
func LevelForPoints(points int) int {
	return points/100 + 1
}

// BadgeForCompletedCount returns the badge for an exact completed-task
// count. Thresholds are edge-triggered: a count that jumps past one
// (bulk import, re-completion) never earns it later.
func BadgeForCompletedCount(n int64) (string, bool) {
	name, ok := badgeThresholds[n]
	return name, ok
}
