package models

// AuditLog records mutations for later inspection.
type AuditLog struct {
	Base
	UserID       uint   `gorm:"not null;index" json:"userId"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resourceType"`
	ResourceID   uint   `json:"resourceId"`
	IPAddress    string `json:"ipAddress"`
	Changes      string `json:"changes,omitempty"`
}
