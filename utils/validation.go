package utils

import (
	"regexp"
	"strings"
	"time"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic email shape
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// + prefix followed by 7-15 digits
	match, _ := regexp.MatchString(`^\+?[1-9]\d{6,14}$`, cleaned)
	return match
}

// ParseDate accepts either a full RFC3339 timestamp or a bare YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// ValidateClockTime checks an "HH:MM" 24-hour time string.
func ValidateClockTime(value string) bool {
	_, err := time.Parse("15:04", value)
	return err == nil
}
