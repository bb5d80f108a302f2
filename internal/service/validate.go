package service

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkordes/planner/internal/domain"
)

// minTextLen is the minimum length, in characters, of destinations and titles.
const minTextLen = 4

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrValidation}, args...)...)
}

// validateText trims s and checks its length. Returns the trimmed value.
func validateText(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < minTextLen {
		return "", validationErr("%s must be at least %d characters", field, minTextLen)
	}
	return s, nil
}

// validateEmail accepts a bare address such as "a@a.com". Display-name
// forms like "Ann <a@a.com>" are rejected.
func validateEmail(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return "", validationErr("%s is not a valid email address: %q", field, s)
	}
	return s, nil
}

// validateTripDates enforces the trip date rules against now.
//   - startsAt must not be before now.
//   - endsAt must not be before startsAt.
func validateTripDates(startsAt, endsAt, now time.Time) error {
	if startsAt.IsZero() || endsAt.IsZero() {
		return validationErr("startsAt and endsAt are required")
	}
	if startsAt.Before(now) {
		return validationErr("invalid trip start date: startsAt must not be in the past")
	}
	if endsAt.Before(startsAt) {
		return validationErr("invalid trip end date: endsAt must not be before startsAt")
	}
	if domain.DaySpan(startsAt, endsAt) > domain.MaxTripDays {
		return validationErr("invalid trip end date: trip must not last more than %d days", domain.MaxTripDays+1)
	}
	return nil
}

// validateActivityDate checks occursAt falls on a calendar day (UTC) inside
// the trip. Day granularity matches how activities are bucketed on read.
func validateActivityDate(trip domain.Trip, occursAt time.Time) error {
	if occursAt.IsZero() {
		return validationErr("occursAt is required")
	}
	day := domain.Day(occursAt)
	if day.Before(domain.Day(trip.StartsAt)) {
		return validationErr("activity date is before trip start")
	}
	if day.After(domain.Day(trip.EndsAt)) {
		return validationErr("activity date is after trip end")
	}
	return nil
}

// validateURL accepts absolute http and https URLs only.
func validateURL(s string) (string, error) {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", validationErr("url must be an absolute http or https URL")
	}
	return s, nil
}
