package calendar

import (
	"sort"
	"time"

	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
)

const (
	// MinutesPerDay bounds every timeline block.
	MinutesPerDay = 24 * 60
	// MinBlockMinutes is the shortest block drawn on a timeline.
	MinBlockMinutes = 30
	// DefaultBlockMinutes is used when an event has neither end nor duration.
	DefaultBlockMinutes = 60
	// AllDayRowHeight is the fixed pixel height of one all-day row.
	AllDayRowHeight = 24
)

// Block is a timed entry placed on a day timeline. StartMinutes and
// EndMinutes are minutes since local midnight, clamped to the day. Overlapping
// blocks share the width of the day column: each takes 1/TotalColumns of it,
// offset by Column.
type Block struct {
	Entry        Entry
	StartMinutes int
	EndMinutes   int
	Column       int
	TotalColumns int
}

// Duration is the drawn length of the block in minutes.
func (b Block) Duration() int { return b.EndMinutes - b.StartMinutes }

// LeftPercent is the horizontal offset of the block within its day column.
func (b Block) LeftPercent() float64 {
	if b.TotalColumns == 0 {
		return 0
	}
	return 100 * float64(b.Column) / float64(b.TotalColumns)
}

// WidthPercent is the share of the day column the block occupies.
func (b Block) WidthPercent() float64 {
	if b.TotalColumns == 0 {
		return 100
	}
	return 100 / float64(b.TotalColumns)
}

// Top is the vertical offset in pixels for a timeline hourHeight pixels per hour.
func (b Block) Top(hourHeight float64) float64 {
	return float64(b.StartMinutes) * hourHeight / 60
}

// Height is the block height in pixels for a timeline hourHeight pixels per hour.
func (b Block) Height(hourHeight float64) float64 {
	return float64(b.Duration()) * hourHeight / 60
}

// AllDayItem is an all-day entry stacked in the row above the timeline.
type AllDayItem struct {
	Entry Entry
	Row   int
	Top   int
}

// DayLayout is everything needed to draw one day column.
type DayLayout struct {
	Date   time.Time
	AllDay []AllDayItem
	Timed  []Block
}

// Columns is the widest overlap group in the day.
func (d DayLayout) Columns() int {
	max := 0
	for _, b := range d.Timed {
		if b.TotalColumns > max {
			max = b.TotalColumns
		}
	}
	return max
}

// AllDayHeight is the pixel height of the all-day row.
func (d DayLayout) AllDayHeight() int {
	return len(d.AllDay) * AllDayRowHeight
}

// WeekLayout holds seven consecutive day columns starting on Sunday.
type WeekLayout struct {
	Start time.Time
	Days  [7]DayLayout
}

// Span converts e into minutes within day. Times outside the day are clamped
// to [0, MinutesPerDay]; blocks shorter than MinBlockMinutes are stretched.
// ok is false when e does not touch day at all.
func Span(day time.Time, e Entry) (start, end int, ok bool) {
	dayStart := timeutil.StartOfDay(day)
	dayEnd := dayStart.AddDate(0, 0, 1)
	loc := dayStart.Location()

	s := e.Start.In(loc)
	f := e.EffectiveEnd().In(loc)
	if !f.After(dayStart) || !s.Before(dayEnd) {
		return 0, 0, false
	}

	start = 0
	if !s.Before(dayStart) {
		start = s.Hour()*60 + s.Minute()
	}
	end = MinutesPerDay
	if f.Before(dayEnd) {
		end = f.Hour()*60 + f.Minute()
	}

	if end-start < MinBlockMinutes {
		end = start + MinBlockMinutes
		if end > MinutesPerDay {
			end = MinutesPerDay
			start = MinutesPerDay - MinBlockMinutes
		}
	}
	return start, end, true
}

// Pack assigns columns to blocks by greedy interval colouring. Blocks are
// processed by start time, shorter first on ties. Each block takes the lowest
// column not held by a still-running block, and every block active at
// insertion time has its TotalColumns widened to cover the highest column in
// use. A block that ended earlier keeps the width it had, even when it
// overlapped a block that is widened later.
func Pack(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	copy(out, blocks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartMinutes != out[j].StartMinutes {
			return out[i].StartMinutes < out[j].StartMinutes
		}
		return out[i].Duration() < out[j].Duration()
	})

	active := make([]int, 0, len(out))
	for i := range out {
		cur := &out[i]

		running := active[:0]
		for _, idx := range active {
			if out[idx].EndMinutes > cur.StartMinutes {
				running = append(running, idx)
			}
		}
		active = running

		used := make(map[int]bool, len(active))
		for _, idx := range active {
			used[out[idx].Column] = true
		}
		col := 0
		for used[col] {
			col++
		}
		cur.Column = col
		active = append(active, i)

		maxCol := 0
		for _, idx := range active {
			if out[idx].Column > maxCol {
				maxCol = out[idx].Column
			}
		}
		for _, idx := range active {
			if out[idx].TotalColumns < maxCol+1 {
				out[idx].TotalColumns = maxCol + 1
			}
		}
	}
	return out
}

// AllDayRow stacks all-day entries alphabetically by title.
func AllDayRow(entries []Entry) []AllDayItem {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sortByTitle(sorted)

	items := make([]AllDayItem, len(sorted))
	for i, e := range sorted {
		items[i] = AllDayItem{Entry: e, Row: i, Top: i * AllDayRowHeight}
	}
	return items
}

// coversDay reports whether an all-day entry includes day. An end exactly at
// midnight is exclusive.
func coversDay(day time.Time, e Entry) bool {
	loc := day.Location()
	first := timeutil.StartOfDay(e.Start.In(loc))
	end := e.EffectiveEnd().In(loc)
	last := timeutil.StartOfDay(end)
	if end.Equal(last) && end.After(e.Start) {
		last = last.AddDate(0, 0, -1)
	}
	if last.Before(first) {
		last = first
	}
	d := timeutil.StartOfDay(day)
	return !d.Before(first) && !d.After(last)
}

// LayoutDay lays out one day. Timed entries that merely run into the day
// from the previous one are included with their start clamped to midnight.
func LayoutDay(day time.Time, entries []Entry) DayLayout {
	return layoutDay(day, entries, func(Entry) bool { return true })
}

func layoutDay(day time.Time, entries []Entry, owns func(Entry) bool) DayLayout {
	layout := DayLayout{Date: timeutil.StartOfDay(day)}

	var allDay []Entry
	var blocks []Block
	for _, e := range entries {
		if e.AllDay {
			if coversDay(day, e) {
				allDay = append(allDay, e)
			}
			continue
		}
		if !owns(e) {
			continue
		}
		start, end, ok := Span(day, e)
		if !ok {
			continue
		}
		blocks = append(blocks, Block{Entry: e, StartMinutes: start, EndMinutes: end})
	}

	layout.AllDay = AllDayRow(allDay)
	layout.Timed = Pack(blocks)
	return layout
}

// WeekStart returns the Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	d := timeutil.StartOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// LayoutWeek lays out the Sunday-based week containing anyDay. A timed entry
// is drawn only in the column of the day it starts on; an end past midnight
// is capped at the bottom of that column rather than spilling over.
func LayoutWeek(anyDay time.Time, entries []Entry) WeekLayout {
	start := WeekStart(anyDay)
	week := WeekLayout{Start: start}
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		key := dateKey(day)
		week.Days[i] = layoutDay(day, entries, func(e Entry) bool {
			return dateKey(e.Start.In(day.Location())) == key
		})
	}
	return week
}
