package dto

import (
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type ParticipantDTO struct {
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}

type MeetingDTO struct {
	ID            uint               `json:"id"`
	ReservationID *uint              `json:"reservation_id"`
	Reservation   *ReservationDTO    `json:"reservation,omitempty"`
	Room          string             `json:"room"`
	Day           calendar.Date      `json:"day"`
	StartTime     calendar.TimeOfDay `json:"start_time"`
	EndTime       calendar.TimeOfDay `json:"end_time"`
	Status        string             `json:"status"`
	CreatedBy     uint               `json:"created_by"`
	Participants  []ParticipantDTO   `json:"participants"`
	UsersCount    int                `json:"users_count"`
	Capacity      int                `json:"capacity"`
}

func NewMeetingDTO(m *models.Meeting, capacity int) MeetingDTO {
	out := MeetingDTO{
		ID:            m.ID,
		ReservationID: m.ReservationID,
		Room:          m.Room,
		Day:           m.Day,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
		Status:        m.Status,
		CreatedBy:     m.CreatedBy,
		Participants:  make([]ParticipantDTO, 0, len(m.Memberships)),
		UsersCount:    m.UsersCount(),
		Capacity:      capacity,
	}

	if m.Reservation != nil {
		r := NewReservationDTO(m.Reservation)
		out.Reservation = &r
	}

	for _, ms := range m.Memberships {
		p := ParticipantDTO{ID: ms.UserID, JoinedAt: ms.JoinedAt}
		if ms.User != nil {
			p.Name = ms.User.Name
		}
		out.Participants = append(out.Participants, p)
	}
	return out
}

func NewMeetingDTOs(items []models.Meeting, capacity int) []MeetingDTO {
	out := make([]MeetingDTO, 0, len(items))
	for i := range items {
		out = append(out, NewMeetingDTO(&items[i], capacity))
	}
	return out
}
