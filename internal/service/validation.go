package service

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxEmailLength       = 50
	minNameLength        = 3
	maxNameLength        = 20
	minPasswordLength    = 6
	maxPasswordLength    = 40
	maxSessionNameLength = 50
	maxDescriptionLength = 2500
)

var sessionDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func validEmail(value string) bool {
	if value == "" || utf8.RuneCountInString(value) > maxEmailLength {
		return false
	}
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return false
	}
	return addr.Address == value
}

func lengthBetween(value string, lo int, hi int) bool {
	n := utf8.RuneCountInString(value)
	return n >= lo && n <= hi
}

// parseSessionDate accepts a full timestamp, a zone-less local timestamp
// (read as UTC) or a bare date.
func parseSessionDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range sessionDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
