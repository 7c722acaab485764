// Package dob extracts a date of birth from OCR text and computes age.
package dob

import "regexp"

// Matches two digits, a / or - separator, two digits, the same class of
// separator, and four digits (day/month/year order only).
var datePattern = regexp.MustCompile(`\b(\d{2}[/-]\d{2}[/-]\d{4})\b`)

// FindDOB returns the first date-shaped substring of text verbatim, or ""
// when none is present. The match is deliberately permissive: no calendar
// validation happens here, that is deferred to CalculateAge.
func FindDOB(text string) string {
	match := datePattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return match[1]
}
