package calendar

import "time"

// MaxVisiblePerCell is how many entries a month cell shows before collapsing
// the rest into a "+N more" marker, by viewport width in pixels.
func MaxVisiblePerCell(viewportWidth int) int {
	switch {
	case viewportWidth < 640:
		return 0
	case viewportWidth < 1024:
		return 1
	case viewportWidth < 1280:
		return 2
	default:
		return 3
	}
}

// MonthCell is one square of the month grid.
type MonthCell struct {
	Date    time.Time
	InMonth bool
	IsToday bool
	Visible []Entry
	Hidden  int
}

// Total is the number of entries starting on the cell's day.
func (c MonthCell) Total() int { return len(c.Visible) + c.Hidden }

// MonthGrid is a month padded to whole Sunday-first weeks.
type MonthGrid struct {
	Year  int
	Month time.Month
	Weeks [][7]MonthCell
}

// BucketByDay groups entries by the date key of their start.
func BucketByDay(entries []Entry, loc *time.Location) map[string][]Entry {
	buckets := make(map[string][]Entry)
	for _, e := range entries {
		key := dateKey(e.Start.In(loc))
		buckets[key] = append(buckets[key], e)
	}
	for key := range buckets {
		sortChronological(buckets[key])
	}
	return buckets
}

// BuildMonth lays out the month containing anchor. Days from the adjacent
// months fill the first and last week and are marked InMonth=false.
func BuildMonth(anchor, today time.Time, entries []Entry, maxPerCell int) MonthGrid {
	loc := anchor.Location()
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	gridStart := WeekStart(first)
	gridEnd := WeekStart(last).AddDate(0, 0, 7)

	buckets := BucketByDay(entries, loc)
	todayKey := dateKey(today.In(loc))

	grid := MonthGrid{Year: first.Year(), Month: first.Month()}
	for day := gridStart; day.Before(gridEnd); day = day.AddDate(0, 0, 7) {
		var week [7]MonthCell
		for i := 0; i < 7; i++ {
			d := day.AddDate(0, 0, i)
			key := dateKey(d)
			visible, hidden := truncate(buckets[key], maxPerCell)
			week[i] = MonthCell{
				Date:    d,
				InMonth: d.Month() == first.Month(),
				IsToday: key == todayKey,
				Visible: visible,
				Hidden:  hidden,
			}
		}
		grid.Weeks = append(grid.Weeks, week)
	}
	return grid
}

func truncate(entries []Entry, max int) ([]Entry, int) {
	if max < 0 {
		max = 0
	}
	if len(entries) <= max {
		return entries, 0
	}
	return entries[:max], len(entries) - max
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
