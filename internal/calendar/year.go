package calendar

import "time"

// YearMonth is one mini-month of the year view. Offset is the weekday of the
// 1st (Sunday = 0) and Counts maps day of month to number of entries.
type YearMonth struct {
	Month  time.Month
	Offset int
	Days   int
	Counts map[int]int
}

// YearGrid is twelve mini-months.
type YearGrid struct {
	Year   int
	Months [12]YearMonth
}

// CountByDay counts entries per start date key.
func CountByDay(entries []Entry, loc *time.Location) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[dateKey(e.Start.In(loc))]++
	}
	return counts
}

// BuildYear builds the year view for year in loc.
func BuildYear(year int, loc *time.Location, entries []Entry) YearGrid {
	grid := YearGrid{Year: year}
	for _, e := range entries {
		s := e.Start.In(loc)
		if s.Year() != year {
			continue
		}
		m := &grid.Months[s.Month()-1]
		if m.Counts == nil {
			m.Counts = make(map[int]int)
		}
		m.Counts[s.Day()]++
	}
	for i := range grid.Months {
		month := time.Month(i + 1)
		first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		grid.Months[i].Month = month
		grid.Months[i].Offset = int(first.Weekday())
		grid.Months[i].Days = DaysInMonth(year, month)
		if grid.Months[i].Counts == nil {
			grid.Months[i].Counts = map[int]int{}
		}
	}
	return grid
}
