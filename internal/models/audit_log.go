package models

import "time"

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID    *uint  `gorm:"index" json:"user_id"`
	Action    string `gorm:"size:50;not null;index" json:"action"`
	RequestID string `gorm:"size:64" json:"request_id,omitempty"`

	Entity   string `gorm:"size:50" json:"entity"`
	EntityID *uint  `json:"entity_id"`
	Metadata string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
