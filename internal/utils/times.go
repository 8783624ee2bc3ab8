package utils

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DayFormat формат календарного дня
const DayFormat = "2006-01-02"

// Day длительность суток
const Day = 24 * time.Hour

// DayKey возвращает календарный день момента t в зоне loc
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayFormat)
}

// StartOfDay полночь дня момента t в зоне loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseDay разбирает день 2006-01-02 или ISO отметку времени, оставляя только дату
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	day, _, _ := strings.Cut(strings.TrimSpace(s), "T")
	t, err := time.ParseInLocation(DayFormat, day, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q want format %q: %w", s, DayFormat, err)
	}
	return t, nil
}

// AddDays сдвигает день на n календарных дней, не завися от перехода на летнее время
func AddDays(day time.Time, n int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, day.Location())
}

// EntryDate переводит день записи в сохраняемый ISO вид
func EntryDate(day string, loc *time.Location) (string, error) {
	t, err := ParseDay(day, loc)
	if err != nil {
		return "", err
	}
	return t.Format(DayFormat) + "T00:00:00.000Z", nil
}

// FormatDate форматирует день для отображения: Mon, Jan 2, 2006
func FormatDate(day string) string {
	t, err := time.Parse(DayFormat, dayPart(day))
	if err != nil {
		return day
	}
	return t.Format("Mon, Jan 2, 2006")
}

// FormatRelativeDate возвращает Today, Yesterday, N days ago, N weeks ago или дату
func FormatRelativeDate(day string, now time.Time, loc *time.Location) string {
	t, err := ParseDay(day, loc)
	if err != nil {
		return day
	}
	diff := int(math.Round(StartOfDay(now, loc).Sub(t).Hours() / 24))

	switch {
	case diff == 0:
		return "Today"
	case diff == 1:
		return "Yesterday"
	case diff > 1 && diff < 7:
		return fmt.Sprintf("%d days ago", diff)
	case diff >= 7 && diff < 30:
		return fmt.Sprintf("%d weeks ago", diff/7)
	default:
		return FormatDate(day)
	}
}

func dayPart(s string) string {
	day, _, _ := strings.Cut(s, "T")
	return day
}
