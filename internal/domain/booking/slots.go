package booking

import "time"

// The site offers a fixed hourly grid. Slots are identified by their start
// time in "HH:MM"; the storage layer's partial unique index makes each
// (date, time) pair bookable at most once among non-cancelled appointments.
var bookableTimes = []string{
	"10:00", "11:00", "12:00", "13:00",
	"14:00", "15:00", "16:00", "17:00",
}

// TimeSlot is one entry of the advisory availability view. The flag is a UI
// convenience only; the insert's constraint is the authoritative check.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

func BookableTimes() []string {
	out := make([]string, len(bookableTimes))
	copy(out, bookableTimes)
	return out
}

func IsBookableTime(t string) bool {
	for _, bt := range bookableTimes {
		if bt == t {
			return true
		}
	}
	return false
}

// IsOpenOn reports whether the business takes bookings on the given date.
// Sundays are closed.
func IsOpenOn(date time.Time) bool {
	return date.Weekday() != time.Sunday
}

// DaySlots merges the fixed grid with the taken times for one date.
func DaySlots(date time.Time, taken []string) []TimeSlot {
	takenSet := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		takenSet[t] = struct{}{}
	}

	open := IsOpenOn(date)
	slots := make([]TimeSlot, 0, len(bookableTimes))
	for _, bt := range bookableTimes {
		_, isTaken := takenSet[bt]
		slots = append(slots, TimeSlot{
			Time:      bt,
			Available: open && !isTaken,
		})
	}
	return slots
}

// ParseDate parses a calendar date ("2006-01-02") in the business timezone.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, loc)
}
