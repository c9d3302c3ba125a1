package models

import (
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
)

type Meeting struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// referência somente leitura; vira NULL se a reserva for apagada
	ReservationID *uint        `gorm:"index" json:"reservation_id"`
	Reservation   *Reservation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"reservation,omitempty"`

	Room string        `gorm:"size:20;not null;index:idx_meetings_room_day" json:"room"`
	Day  calendar.Date `gorm:"type:date;not null;index:idx_meetings_room_day" json:"day"`

	// intervalo semiaberto [StartTime, EndTime)
	StartTime calendar.TimeOfDay `gorm:"type:time;not null" json:"start_time"`
	EndTime   calendar.TimeOfDay `gorm:"type:time;not null" json:"end_time"`

	Status    string `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`
	CreatedBy uint   `gorm:"not null" json:"created_by"`

	Memberships []MeetingMembership `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsParticipant consulta as memberships carregadas.
func (m *Meeting) IsParticipant(userID uint) bool {
	for _, ms := range m.Memberships {
		if ms.UserID == userID {
			return true
		}
	}
	return false
}

func (m *Meeting) UsersCount() int {
	return len(m.Memberships)
}

type MeetingMembership struct {
	MeetingID uint  `gorm:"primaryKey;autoIncrement:false" json:"meeting_id"`
	UserID    uint  `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
	User      *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	JoinedAt time.Time `gorm:"not null" json:"joined_at"`
}
