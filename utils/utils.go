package utils

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
)

const Layout = "2006-01-02"

var (
	ErrDateOrder = errors.New("expiry date must not be before valuation date")
	ErrSpan      = errors.New("a sweep needs at least two points")
)

var NYSE = []string{
	"2022-01-01", "2022-01-17", "2022-02-21", "2022-04-15", "2022-05-30", "2022-06-20", "2022-07-04", "2022-09-05", "2022-11-24", "2022-12-26",
	"2023-01-02", "2023-01-16", "2023-02-20", "2023-04-07", "2023-05-29", "2023-06-19", "2023-07-04", "2023-09-04", "2023-11-23", "2023-12-25",
	"2024-01-01", "2024-01-15", "2024-02-19", "2024-03-29", "2024-05-27", "2024-06-19", "2024-07-04", "2024-09-02", "2024-11-28", "2024-12-25",
	"2025-01-01", "2025-01-09", "2025-01-20", "2025-02-17", "2025-04-18", "2025-05-26", "2025-06-19", "2025-07-04", "2025-09-01", "2025-11-27", "2025-12-25",
	"2026-01-01", "2026-01-19", "2026-02-16", "2026-04-03", "2026-05-25", "2026-06-19", "2026-07-03", "2026-09-07", "2026-11-26", "2026-12-25",
}

// Convert holidays from string to time.Time format
func Hols(s []string) ([]time.Time, error) {
	h := make([]time.Time, len(s))
	for i, v := range s {
		d, err := time.Parse(Layout, v)
		if err != nil {
			return nil, err
		}
		h[i] = d
	}
	return h, nil
}

func IsHol(d time.Time, hols []time.Time) bool {
	for _, v := range hols {
		if d.Equal(v) {
			return true
		}
	}
	return false
}

func IsWeekday(d time.Time) bool {
	return d.Weekday() > time.Sunday && d.Weekday() < time.Saturday
}

// AdjustFollowing rolls d forward to the next business day.
func AdjustFollowing(d time.Time, hols []time.Time) time.Time {
	for IsHol(d, hols) || !IsWeekday(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// YearFraction is the ACT/365 year fraction between two instants.
func YearFraction(start, end time.Time) float64 {
	return end.Sub(start).Hours() / (365 * 24)
}

// Expiration converts a valuation date and an expiry date, both in Layout,
// into a year fraction. The expiry is rolled to the following NYSE business
// day first.
func Expiration(valuation, expiry string) (float64, error) {
	start, err := time.Parse(Layout, valuation)
	if err != nil {
		return 0, fmt.Errorf("valuation date: %w", err)
	}
	end, err := time.Parse(Layout, expiry)
	if err != nil {
		return 0, fmt.Errorf("expiry date: %w", err)
	}
	hols, err := Hols(NYSE)
	if err != nil {
		return 0, err
	}
	end = AdjustFollowing(end, hols)
	if end.Before(start) {
		return 0, fmt.Errorf("%w: %s before %s", ErrDateOrder, expiry, valuation)
	}
	return YearFraction(start, end), nil
}

// Span returns points evenly spaced values from lo to hi inclusive.
func Span(lo, hi float64, points int) ([]float64, error) {
	if points < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrSpan, points)
	}
	return floats.Span(make([]float64, points), lo, hi), nil
}
