package models

import "time"

type Instrument struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Type        string  `gorm:"size:20;not null;index" json:"type"`
	Status      string  `gorm:"size:20;not null;default:'AVAILABLE'" json:"status"`
	ImageURL    *string `gorm:"size:500" json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
