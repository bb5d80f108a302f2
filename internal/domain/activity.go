package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Activity is a dated event scheduled inside a trip's date range.
type Activity struct {
	ID       uuid.UUID
	TripID   uuid.UUID
	Title    string
	OccursAt time.Time
}

// ActivityDay is one calendar day of a trip and the activities on it.
// It is derived on read and never stored.
type ActivityDay struct {
	Date       time.Time
	Activities []Activity
}

const secondsPerDay = 24 * 60 * 60

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaySpan returns the number of whole calendar days between the days of
// from and to. It is negative when to falls on an earlier day.
func DaySpan(from, to time.Time) int {
	return int((Day(to).Unix() - Day(from).Unix()) / secondsPerDay)
}

// GroupActivitiesByDay buckets activities into one ActivityDay per calendar
// day from trip.StartsAt to trip.EndsAt inclusive. Activities are sorted by
// OccursAt before bucketing; activities outside the range are dropped.
// Every bucket has a non-nil Activities slice. At most MaxTripDays+1
// buckets are built.
func GroupActivitiesByDay(trip Trip, activities []Activity) []ActivityDay {
	span := DaySpan(trip.StartsAt, trip.EndsAt)
	if span < 0 {
		return []ActivityDay{}
	}
	span = min(span, MaxTripDays)

	sorted := make([]Activity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccursAt.Before(sorted[j].OccursAt)
	})

	first := Day(trip.StartsAt)
	days := make([]ActivityDay, span+1)
	for i := range days {
		days[i] = ActivityDay{Date: first.AddDate(0, 0, i), Activities: []Activity{}}
	}
	for _, a := range sorted {
		idx := DaySpan(first, a.OccursAt)
		if idx < 0 || idx > span {
			continue
		}
		days[idx].Activities = append(days[idx].Activities, a)
	}
	return days
}
