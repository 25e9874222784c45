package models

import "time"

// RecurrenceType is the repeat cadence of a recurring event.
type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

// Valid reports whether r is a supported cadence.
func (r RecurrenceType) Valid() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// Event is a calendar entry. Recurring events are stored once; occurrences
// are projected on read. RecurrenceEndDate is an inclusive YYYY-MM-DD.
type Event struct {
	Base
	UserID            uint            `gorm:"not null;index" json:"userId"`
	ContextID         uint            `gorm:"not null;index" json:"contextId"`
	Title             string          `gorm:"not null" json:"title"`
	Description       string          `json:"description"`
	StartDate         time.Time       `gorm:"not null;index" json:"startDate"`
	EndDate           time.Time       `gorm:"not null" json:"endDate"`
	AllDay            bool            `gorm:"not null;default:false" json:"allDay"`
	DurationHours     float64         `json:"durationHours"`
	Tags              []string        `gorm:"serializer:json;type:text" json:"tags"`
	Recurring         bool            `gorm:"not null;default:false" json:"recurring"`
	RecurrenceType    *RecurrenceType `json:"recurrenceType"`
	RecurrenceEndDate *string         `gorm:"type:varchar(10)" json:"recurrenceEndDate"`
	LinkedTodoID      *uint           `gorm:"index" json:"linkedTodoId"`
	Completed         bool            `gorm:"not null;default:false" json:"completed"`
}
