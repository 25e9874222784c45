package models

// FieldType classifies a context (a life area) by what it is expected to yield.
type FieldType string

const (
	FieldTypeRevenue      FieldType = "Revenue"
	FieldTypeInvestment   FieldType = "Investment"
	FieldTypeExperimental FieldType = "Experimental"
)

// Valid reports whether f is one of the known field types.
func (f FieldType) Valid() bool {
	switch f {
	case FieldTypeRevenue, FieldTypeInvestment, FieldTypeExperimental:
		return true
	}
	return false
}

// Context is the root organisational unit. Transactions, todos, events and
// notes each belong to exactly one context.
type Context struct {
	Base
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Name      string    `gorm:"not null" json:"name"`
	Emoji     string    `json:"emoji"`
	FieldType FieldType `gorm:"not null;default:'Experimental'" json:"fieldType"`
}
