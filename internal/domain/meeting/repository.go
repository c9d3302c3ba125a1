package meeting

import (
	"context"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type ListFilter struct {
	ParticipantID *uint
	Status        string
	Day           *calendar.Date
}

type Repository interface {
	// -------- Reservation (anchor) --------
	GetReservation(
		ctx context.Context,
		id uint,
	) (*models.Reservation, error)

	// -------- Meeting (create / conflict) --------
	ListActiveMeetingsForRoomDay(
		ctx context.Context,
		room string,
		day calendar.Date,
	) ([]models.Meeting, error)

	// CreateMeeting grava a reunião junto com as memberships iniciais.
	CreateMeeting(
		ctx context.Context,
		m *models.Meeting,
	) error

	// -------- Meeting (state change) --------
	GetMeeting(
		ctx context.Context,
		id uint,
	) (*models.Meeting, error)

	UpdateMeetingStatus(
		ctx context.Context,
		id uint,
		status string,
	) error

	DeleteMeeting(
		ctx context.Context,
		id uint,
	) error

	// -------- Memberships --------
	AddMembership(
		ctx context.Context,
		ms *models.MeetingMembership,
	) error

	RemoveMembership(
		ctx context.Context,
		meetingID uint,
		userID uint,
	) error

	// -------- Queries --------
	ListMeetings(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Meeting, error)
}
