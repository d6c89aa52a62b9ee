package matching

import (
	"math"
	"strconv"
	"strings"
	"time"

	"volunteerhub-workers/internal/models"
)

// scoreAvailability rates schedule overlap 0-100. Volunteers with no
// availability data score a flat 30; volunteers with data but no slot covering
// the event's day score 0. Otherwise the best percentage overlap across
// covering slots is adjusted for the weekdays-only and preferred time-of-day
// preferences.
func scoreAvailability(volunteer *models.VolunteerProfile, event *models.Event) int {
	if len(volunteer.Availability) == 0 {
		return 30
	}

	eventDay := event.StartTime.Weekday()
	eventDate := event.StartTime.Format("2006-01-02")

	var covering []models.AvailabilitySlot
	for _, slot := range volunteer.Availability {
		if slotCovers(slot, eventDay, eventDate) {
			covering = append(covering, slot)
		}
	}
	if len(covering) == 0 {
		return 0
	}

	eventStart := minutesSinceMidnight(event.StartTime)
	eventEnd := minutesSinceMidnight(event.EndTime)

	var bestOverlap float64
	for _, slot := range covering {
		overlap := percentOverlap(
			parseClockMinutes(slot.StartTime), parseClockMinutes(slot.EndTime),
			eventStart, eventEnd,
		)
		if overlap > bestOverlap {
			bestOverlap = overlap
		}
	}

	score := bestOverlap

	if volunteer.Preferences.WeekdaysOnly && isWeekend(eventDay) {
		score -= 30
		if score < 0 {
			score = 0
		}
	}

	if prefersTimeOfDay(volunteer.Preferences.PreferredTimeSlots, event.StartTime) {
		score += 15
		if score > 100 {
			score = 100
		}
	}

	return int(math.Round(score))
}

func slotCovers(slot models.AvailabilitySlot, day time.Weekday, date string) bool {
	if !slot.IsRecurring {
		return slot.SpecificDate == date
	}
	return strings.EqualFold(slot.DayOfWeek, day.String())
}

// percentOverlap returns the overlap of [slotStart, slotEnd] with
// [eventStart, eventEnd] as a percentage of the event duration, capped at 100.
// Disjoint intervals yield 0.
func percentOverlap(slotStart, slotEnd, eventStart, eventEnd int) float64 {
	overlapStart := slotStart
	if eventStart > overlapStart {
		overlapStart = eventStart
	}
	overlapEnd := slotEnd
	if eventEnd < overlapEnd {
		overlapEnd = eventEnd
	}
	if overlapEnd <= overlapStart {
		return 0
	}

	eventDuration := eventEnd - eventStart
	if eventDuration <= 0 {
		return 0
	}

	return math.Min(100, float64(overlapEnd-overlapStart)/float64(eventDuration)*100)
}

// parseClockMinutes converts "HH:MM" to minutes since midnight. Malformed
// values parse to 0, which yields zero overlap rather than an error.
func parseClockMinutes(clock string) int {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return hours*60 + minutes
}

func minutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func isWeekend(day time.Weekday) bool {
	return day == time.Saturday || day == time.Sunday
}

// prefersTimeOfDay reports whether the event's start falls in one of the
// volunteer's preferred time slots (morning <12:00, afternoon 12:00-17:00,
// evening >=17:00).
func prefersTimeOfDay(preferred []string, start time.Time) bool {
	if len(preferred) == 0 {
		return false
	}

	var timeOfDay string
	switch hour := start.Hour(); {
	case hour < 12:
		timeOfDay = "morning"
	case hour < 17:
		timeOfDay = "afternoon"
	default:
		timeOfDay = "evening"
	}

	for _, p := range preferred {
		if strings.EqualFold(p, timeOfDay) {
			return true
		}
	}
	return false
}
