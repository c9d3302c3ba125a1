package dto

import (
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type InstrumentSummaryDTO struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	ImageURL *string `json:"image_url"`
}

type ReservationDTO struct {
	ID           uint                  `json:"id"`
	UserID       uint                  `json:"user_id"`
	UserName     string                `json:"user_name,omitempty"`
	InstrumentID uint                  `json:"instrument_id"`
	Instrument   *InstrumentSummaryDTO `json:"instrument,omitempty"`
	StartDate    calendar.Date         `json:"start_date"`
	EndDate      calendar.Date         `json:"end_date"`
	Status       string                `json:"status"`
	ReturnedAt   *time.Time            `json:"returned_at"`
	ReturnedBy   *uint                 `json:"returned_by"`
	CreatedAt    time.Time             `json:"created_at"`
}

func NewReservationDTO(r *models.Reservation) ReservationDTO {
	out := ReservationDTO{
		ID:           r.ID,
		UserID:       r.UserID,
		InstrumentID: r.InstrumentID,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Status:       r.Status,
		ReturnedAt:   r.ReturnedAt,
		ReturnedBy:   r.ReturnedBy,
		CreatedAt:    r.CreatedAt,
	}
	if r.User != nil {
		out.UserName = r.User.Name
	}
	if r.Instrument != nil {
		out.Instrument = &InstrumentSummaryDTO{
			ID:       r.Instrument.ID,
			Name:     r.Instrument.Name,
			Type:     r.Instrument.Type,
			ImageURL: r.Instrument.ImageURL,
		}
	}
	return out
}

func NewReservationDTOs(items []models.Reservation) []ReservationDTO {
	out := make([]ReservationDTO, 0, len(items))
	for i := range items {
		out = append(out, NewReservationDTO(&items[i]))
	}
	return out
}
