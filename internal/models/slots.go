package models

import "time"

// DateLayout is the wire format of appointment dates.
const DateLayout = "2006-01-02"

const (
	openingHour  = 10
	closingHour  = 21
	slotInterval = 30 * time.Minute
)

// TimeSlots is the fixed, ordered list of bookable half-hour slots.
var TimeSlots = buildTimeSlots()

var slotIndex = func() map[string]int {
	idx := make(map[string]int, len(TimeSlots))
	for i, s := range TimeSlots {
		idx[s] = i
	}
	return idx
}()

func buildTimeSlots() []string {
	day := time.Date(2000, 1, 1, openingHour, 0, 0, 0, time.UTC)
	end := time.Date(2000, 1, 1, closingHour, 0, 0, 0, time.UTC)
	var slots []string
	for t := day; t.Before(end); t = t.Add(slotInterval) {
		slots = append(slots, t.Format("3:04 PM"))
	}
	return slots
}

// SlotIndex returns the position of slot in TimeSlots, or len(TimeSlots)
// for unknown labels so they sort last.
func SlotIndex(slot string) int {
	if i, ok := slotIndex[slot]; ok {
		return i
	}
	return len(TimeSlots)
}

// IsValidSlot reports whether slot is one of TimeSlots.
func IsValidSlot(slot string) bool {
	_, ok := slotIndex[slot]
	return ok
}
