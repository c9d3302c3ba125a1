package reservation

import (
	"context"

	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type ListFilter struct {
	UserID *uint
	Status string
}

type Repository interface {
	// -------- Instrument --------
	GetInstrument(
		ctx context.Context,
		id uint,
	) (*models.Instrument, error)

	// -------- Reservation (create / conflict) --------
	ListActiveReservationsForInstrument(
		ctx context.Context,
		instrumentID uint,
	) ([]models.Reservation, error)

	CreateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error

	// -------- Reservation (state change) --------
	GetReservation(
		ctx context.Context,
		id uint,
	) (*models.Reservation, error)

	UpdateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error

	DeleteReservation(
		ctx context.Context,
		id uint,
	) error

	// -------- Queries --------
	ListReservations(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Reservation, error)
}
