package utils

import (
	"fmt"
	"time"

	apperrors "inventory-system/pkg/errors"
)

const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "02.01.2006 15:04"
)

// ParseDayRange переводит две календарные даты в полуинтервал [from, to).
// Обе даты включаются целиком.
func ParseDayRange(start, end string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	from, err := time.ParseInLocation(DateLayout, start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewValidationError("Başlangıç tarihi YYYY-MM-DD formatında olmalıdır.", fmt.Sprintf("startDate=%q", start))
	}
	last, err := time.ParseInLocation(DateLayout, end, loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewValidationError("Bitiş tarihi YYYY-MM-DD formatında olmalıdır.", fmt.Sprintf("endDate=%q", end))
	}
	if last.Before(from) {
		return time.Time{}, time.Time{}, apperrors.NewValidationError("Bitiş tarihi başlangıç tarihinden önce olamaz.")
	}
	return from, last.AddDate(0, 0, 1), nil
}

// PeriodStart - начало периода today/week/month; false для "all" и неизвестных значений
func PeriodStart(period string, now time.Time) (time.Time, bool) {
	y, m, d := now.Date()
	switch period {
	case "today":
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case "week":
		return now.AddDate(0, 0, -7), true
	case "month":
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), true
	}
	return time.Time{}, false
}

func FormatLocal(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DisplayLayout)
}
