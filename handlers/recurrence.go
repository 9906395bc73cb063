package handlers

import (
	"time"

	"masterboxer.com/habit-builder/models"
)

// lastInstant is the anchor the matcher and generator walk from: the
// latest generated occurrence, falling back to the habit's start, then
// to the reference date itself.
func lastInstant(h models.Habit, today time.Time) time.Time {
	if h.LatestDate != nil && !h.LatestDate.IsZero() {
		return *h.LatestDate
	}
	return TimestampToDate(&h.StartOn, today)
}

// IsScheduledToday reports whether today (date part only) is an
// occurrence day for the habit.
//
// Day cadence is an exact match: lastInstant + everyNum days == today.
// A missed invocation day is not caught up; the job assumes at most
// one run per day.
//
// Week cadence is anchored to weekday membership, not elapsed days:
// today must be in the weekday set, and the cursor walk from the last
// date must land on today. The walk advances one cursor across the
// whole set, each step by everyNum*7 - startWeekday + w days.
func IsScheduledToday(h models.Habit, today time.Time) bool {
	repeatDays := ParseNum(h.Repeat.EveryNum, 0)
	if h.Repeat.Every == "week" {
		repeatDays *= 7
	}

	last := DateOnly(lastInstant(h, today))
	today0 := DateOnly(today)

	if h.Repeat.Every == "week" {
		todayWeekday := int(today.Weekday())
		if !containsWeekday(h.Repeat.Weekdays, todayWeekday) {
			return false
		}

		startWeekday := int(TimestampToDate(&h.StartOn, today).Weekday())
		cursor := last
		for _, w := range h.Repeat.Weekdays {
			cursor = cursor.AddDate(0, 0, repeatDays-startWeekday+w)
			if SameDate(cursor, today0) {
				return true
			}
		}
		return false
	}

	return SameDate(last.AddDate(0, 0, repeatDays), today0)
}

// ExpandOccurrences returns the concrete occurrence instants for a
// habit on the reference date, in increasing order, or nil when the
// habit is not scheduled today.
//
// The base instant carries the last occurrence's hour and minute onto
// today's date. With timesADay > 1 each slot advances by perDayNum
// hours or minutes; a slot is kept only when it lands strictly after
// the previous kept instant, so a slot equal to the last recorded
// occurrence (or a zero-coerced perDayNum collapsing the slots) never
// duplicates a history row.
func ExpandOccurrences(h models.Habit, today time.Time) []time.Time {
	if !IsScheduledToday(h, today) {
		return nil
	}

	last := lastInstant(h, today)
	base := time.Date(today.Year(), today.Month(), today.Day(),
		last.Hour(), last.Minute(), 0, 0, last.Location())

	timesADay := ParseNum(h.Repeat.TimesADay, 0)
	if timesADay <= 1 {
		return []time.Time{base}
	}

	perDayNum := ParseNum(h.Repeat.PerDayNum, 0)
	step := time.Duration(perDayNum) * time.Minute
	if h.Repeat.PerDay == "hour" {
		step = time.Duration(perDayNum) * time.Hour
	}

	var slots []time.Time
	prev := last
	for i := 0; i < timesADay; i++ {
		slot := base.Add(time.Duration(i) * step)
		if slot.After(prev) {
			slots = append(slots, slot)
			prev = slot
		}
	}
	return slots
}

func containsWeekday(weekdays []int, w int) bool {
	for _, d := range weekdays {
		if d == w {
			return true
		}
	}
	return false
}
