package view

import (
	"fmt"
	"time"

	"github.com/amonks/agenda/task"
)

// Labels for the nearest days.
const (
	LabelToday    = "Oggi"
	LabelTomorrow = "Domani"
)

var (
	weekdayNames      = [...]string{"domenica", "lunedì", "martedì", "mercoledì", "giovedì", "venerdì", "sabato"}
	weekdayShortNames = [...]string{"Dom", "Lun", "Mar", "Mer", "Gio", "Ven", "Sab"}
	monthNames        = [...]string{"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno", "luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre"}
	monthShortNames   = [...]string{"Gen", "Feb", "Mar", "Apr", "Mag", "Giu", "Lug", "Ago", "Set", "Ott", "Nov", "Dic"}
)

// DayLabel names a day relative to now: "Oggi", "Domani", or a long date
// like "lunedì 19 ottobre", with the year appended outside the current year.
func DayLabel(day, now time.Time) string {
	day = task.Day(day.In(now.Location()))
	today := task.Day(now)

	switch {
	case day.Equal(today):
		return LabelToday
	case day.Equal(today.AddDate(0, 0, 1)):
		return LabelTomorrow
	}

	label := fmt.Sprintf("%s %d %s", weekdayNames[day.Weekday()], day.Day(), monthNames[day.Month()-1])
	if day.Year() != now.Year() {
		label = fmt.Sprintf("%s %d", label, day.Year())
	}
	return label
}

// MonthTitle names a month like "ottobre 2026".
func MonthTitle(month time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[month.Month()-1], month.Year())
}

// WeekdayInitials returns Monday-first two-letter column headers.
func WeekdayInitials() []string {
	return []string{"Lu", "Ma", "Me", "Gi", "Ve", "Sa", "Do"}
}

// Greeting returns the salutation for the time of day: "Buongiorno" from
// 05:00 to 12:59, "Buon pomeriggio" until 17:59, "Buona sera" otherwise.
func Greeting(now time.Time) string {
	hour := now.Hour()
	switch {
	case hour >= 5 && hour < 13:
		return "Buongiorno"
	case hour >= 13 && hour < 18:
		return "Buon pomeriggio"
	default:
		return "Buona sera"
	}
}

// GreetingLine personalises Greeting with name, e.g. "Buongiorno, Tino".
func GreetingLine(now time.Time, name string) string {
	if name == "" {
		return Greeting(now)
	}
	return Greeting(now) + ", " + name
}

// HeaderDate formats now like "Oggi, Dom 18 Ott 2026".
func HeaderDate(now time.Time) string {
	return fmt.Sprintf("%s, %s %d %s %d",
		LabelToday,
		weekdayShortNames[now.Weekday()],
		now.Day(),
		monthShortNames[now.Month()-1],
		now.Year(),
	)
}
