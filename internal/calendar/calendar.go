package calendar

import (
	"sort"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/br"
)

// Holiday is a named national holiday
type Holiday struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// Carnival Monday and Tuesday, Ash Wednesday and Corpus Christi are optional
// points for public bodies, not national holidays. Keyed by days from Easter.
var optionalPoints = map[int]bool{
	-48: true,
	-47: true,
	-46: true,
	60:  true,
}

// consciousnessDay became a national holiday with Lei 14.759/2023
var consciousnessDay = &cal.Holiday{
	Name:      "Dia Nacional de Zumbi e da Consciência Negra",
	Type:      cal.ObservancePublic,
	Month:     time.November,
	Day:       20,
	StartYear: 2024,
	Func:      cal.CalcDayOfMonth,
}

// national returns the public national holidays the restaurant closes on
func national() []*cal.Holiday {
	holidays := make([]*cal.Holiday, 0, len(br.Holidays)+1)
	for _, h := range br.Holidays {
		if h.Type != cal.ObservancePublic || optionalPoints[h.Offset] {
			continue
		}
		holidays = append(holidays, h)
	}
	return append(holidays, consciousnessDay)
}

// Holidays returns the national holidays of year sorted by date
func Holidays(year int) []Holiday {
	seen := make(map[string]bool)
	var holidays []Holiday

	for _, h := range national() {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		key := actual.Format("01-02")
		if seen[key] {
			continue
		}
		seen[key] = true
		holidays = append(holidays, Holiday{
			Name: h.Name,
			Date: time.Date(year, actual.Month(), actual.Day(), 0, 0, 0, 0, time.UTC),
		})
	}

	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})

	return holidays
}

// HolidayOn returns the holiday falling on date's calendar day, if any.
// The calendar day is taken in date's own location.
func HolidayOn(date time.Time) (Holiday, bool) {
	y, m, d := date.Date()
	for _, h := range Holidays(y) {
		if h.Date.Month() == m && h.Date.Day() == d {
			return h, true
		}
	}
	return Holiday{}, false
}

// IsServiceDay reports whether meals are served on date: a weekday that is
// not a national holiday
func IsServiceDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := HolidayOn(date)
	return !holiday
}
