// utils/dates.go
package utils

import (
	"time"

	"courtpro-backend/models"
)

// Payment status classes shown on the dashboard.
const (
	StatusOverdue = "Overdue"
	StatusDueSoon = "Due Soon"
	StatusActive  = "Active"
)

// Fixed dashboard window; per-member reminder lead days are a separate
// threshold and must not replace this.
const DueSoonWindowDays = 7

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts whole calendar days from start to end, ignoring
// time of day. Both dates are re-anchored in UTC so DST-shortened days
// still count as full days.
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

// MembershipDuration returns the billing period in days for a plan.
// Unrecognized plans fall back to the monthly period.
func MembershipDuration(plan string) int {
	switch plan {
	case models.PlanMonthly:
		return 30
	case models.PlanQuarterly:
		return 90
	case models.PlanHalfYearly:
		return 180
	case models.PlanAnnual:
		return 365
	default:
		return 30
	}
}

// NextDueDate adds the plan's fixed day count to the last payment date.
// Deliberately day-based, not AddDate(0, 1, 0): a monthly member's billing
// date drifts over the year and that drift is part of the pricing.
func NextDueDate(lastPayment time.Time, plan string) time.Time {
	return BeginningOfDay(lastPayment).AddDate(0, 0, MembershipDuration(plan))
}

// DaysRemaining is the signed day count until the due date. Negative means
// overdue.
func DaysRemaining(nextDue, today time.Time) int {
	return DaysBetween(today, nextDue)
}

func ClassifyStatus(daysRemaining int) string {
	if daysRemaining < 0 {
		return StatusOverdue
	}
	if daysRemaining <= DueSoonWindowDays {
		return StatusDueSoon
	}
	return StatusActive
}
