package models

import (
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
)

type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	InstrumentID uint        `gorm:"not null;index" json:"instrument_id"`
	Instrument   *Instrument `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"instrument,omitempty"`

	// intervalo fechado [StartDate, EndDate]
	StartDate calendar.Date `gorm:"type:date;not null" json:"start_date"`
	EndDate   calendar.Date `gorm:"type:date;not null" json:"end_date"`

	Status string `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`

	ReturnedAt *time.Time `json:"returned_at"`
	ReturnedBy *uint      `json:"returned_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
