package dob

import "time"

// CalculateAge parses dobStr under each accepted layout in priority order
// and computes age in completed years as of now. The first layout that
// parses wins. ok is false when no layout accepts the string, including
// calendar-impossible dates; callers must treat that as a recoverable
// rejection, not a fault.
func CalculateAge(dobStr string, layouts []string, now time.Time) (age int, isAdult bool, ok bool) {
	for _, layout := range layouts {
		birth, err := time.Parse(layout, dobStr)
		if err != nil {
			continue
		}
		age = now.Year() - birth.Year()
		if beforeBirthday(now, birth) {
			age--
		}
		return age, age >= 18, true
	}
	return 0, false, false
}

// beforeBirthday reports whether the birthday has not yet occurred this year.
func beforeBirthday(now, birth time.Time) bool {
	if now.Month() != birth.Month() {
		return now.Month() < birth.Month()
	}
	return now.Day() < birth.Day()
}
