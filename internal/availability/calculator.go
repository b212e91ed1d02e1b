// Package availability holds the pure booking-feasibility rules: the
// availability calculator, the booking conflict resolver and the assignment
// eligibility checker. Nothing in this package performs I/O or reads the
// wall clock; callers inject "now" so results are deterministic.
package availability

import (
	"time"

	"serendibgo/internal/models"
)

// Result is the outcome of evaluating a proposed window against a provider's
// availability policy. Not-available outcomes are expected results, not
// errors.
type Result string

const (
	ResultAvailable     Result = "AVAILABLE"
	ResultPastDate      Result = "PAST_DATE"
	ResultOutOfWindow   Result = "OUT_OF_WINDOW"
	ResultNonWorkingDay Result = "NON_WORKING_DAY"
	ResultBlocked       Result = "BLOCKED"
	ResultOutsideHours  Result = "OUTSIDE_HOURS"
)

// maxScannedDays bounds the per-day scan in Evaluate so an absurdly long
// window cannot make it iterate for years.
const maxScannedDays = 31

// Evaluate applies the policy rules to a proposed window. Rules run in a
// fixed order and the first failing rule wins:
//
//  1. window starts in the past            -> PAST_DATE
//  2. window starts beyond the advance-booking horizon -> OUT_OF_WINDOW
//  3. a touched calendar day is not a working day      -> NON_WORKING_DAY
//  4. a touched calendar day is blocked                -> BLOCKED
//  5. time of day not fully inside working hours       -> OUTSIDE_HOURS
//
// Rules 3 and 4 scan every calendar date the window touches, so a window
// that starts on an open day but extends into a blocked or non-working day
// is rejected. The scan stops after maxScannedDays: a window that long can
// never fit inside a single working day, so rule 5 rejects it regardless of
// what the later dates hold. Evaluate is total: malformed working hours
// degrade to OUTSIDE_HOURS rather than panicking.
func Evaluate(policy models.AvailabilityPolicy, window models.BookingWindow, now time.Time) Result {
	if window.Start.Before(now) {
		return ResultPastDate
	}

	horizon := now.AddDate(0, 0, policy.AdvanceBookingDays)
	if window.Start.After(horizon) {
		return ResultOutOfWindow
	}

	scanEnd := window.End
	if limit := startOfDay(window.Start).AddDate(0, 0, maxScannedDays); limit.Before(scanEnd) {
		scanEnd = limit
	}
	for day := startOfDay(window.Start); day.Before(scanEnd); day = day.AddDate(0, 0, 1) {
		if !policy.WorksOn(day.Weekday()) {
			return ResultNonWorkingDay
		}
		if policy.IsBlocked(day) {
			return ResultBlocked
		}
	}

	if !withinWorkingHours(policy.WorkingHours, window) {
		return ResultOutsideHours
	}

	return ResultAvailable
}

// withinWorkingHours requires the whole window to sit inside working hours
// on a single calendar day. A window crossing midnight can therefore never
// pass, which closes the start-date-only gap in the legacy checks.
func withinWorkingHours(hours models.WorkingHours, window models.BookingWindow) bool {
	startY, startM, startD := window.Start.Date()
	endY, endM, endD := window.End.Date()
	if startY != endY || startM != endM || startD != endD {
		return false
	}

	open, err := models.MinutesOfDay(hours.Start)
	if err != nil {
		return false
	}
	close, err := models.MinutesOfDay(hours.End)
	if err != nil {
		return false
	}

	startMin := window.Start.Hour()*60 + window.Start.Minute()
	endMin := window.End.Hour()*60 + window.End.Minute()
	return startMin >= open && endMin <= close
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
