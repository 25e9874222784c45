package models

// Note is a rich-text page. Body holds sanitised HTML.
type Note struct {
	Base
	UserID    uint     `gorm:"not null;index" json:"userId"`
	ContextID uint     `gorm:"not null;index" json:"contextId"`
	Title     string   `json:"title"`
	Body      string   `gorm:"type:text" json:"body"`
	Tags      []string `gorm:"serializer:json;type:text" json:"tags"`
}
