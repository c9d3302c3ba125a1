package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

// --------------------------------------------------
// Instrument
// --------------------------------------------------

func (r *ReservationGormRepository) GetInstrument(ctx context.Context, id uint) (*models.Instrument, error) {
	return getInstrument(ctx, r.db, id)
}

// --------------------------------------------------
// Reservation (create / conflict)
// --------------------------------------------------

func (r *ReservationGormRepository) ListActiveReservationsForInstrument(
	ctx context.Context,
	instrumentID uint,
) ([]models.Reservation, error) {

	var out []models.Reservation
	if err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("instrument_id = ? AND status = ?", instrumentID, string(reservation.StatusActive)).
		Order("start_date ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CreateReservation: a constraint EXCLUDE é a última barreira contra sobreposição.
func (r *ReservationGormRepository) CreateReservation(ctx context.Context, res *models.Reservation) error {
	err := conn(ctx, r.db).Omit(clause.Associations).Create(res).Error
	switch {
	case err == nil:
		return nil
	case httperr.IsExclusionConflict(err):
		return httperr.ErrConflict(
			"instrument_already_reserved",
			"The instrument is already reserved for part of this period.",
			map[string]any{"instrument_id": res.InstrumentID},
		)
	case httperr.IsForeignKeyViolation(err):
		return domain.ErrNotFound
	default:
		return err
	}
}

// --------------------------------------------------
// Reservation (state change)
// --------------------------------------------------

func (r *ReservationGormRepository) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return getReservation(ctx, r.db, id)
}

// UpdateReservation grava só os campos mutáveis (status e devolução).
func (r *ReservationGormRepository) UpdateReservation(ctx context.Context, res *models.Reservation) error {
	res.UpdatedAt = time.Now()

	q := conn(ctx, r.db).
		Model(&models.Reservation{ID: res.ID}).
		Select("status", "returned_at", "returned_by", "updated_at").
		Updates(res)
	if q.Error != nil {
		return q.Error
	}
	if q.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReservationGormRepository) DeleteReservation(ctx context.Context, id uint) error {
	q := conn(ctx, r.db).Delete(&models.Reservation{}, id)
	if q.Error != nil {
		return q.Error
	}
	if q.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Queries
// --------------------------------------------------

func (r *ReservationGormRepository) ListReservations(
	ctx context.Context,
	filter reservation.ListFilter,
) ([]models.Reservation, error) {

	q := conn(ctx, r.db).
		Preload("Instrument").
		Preload("User")

	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	out := []models.Reservation{}
	if err := q.Order("start_date ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func getReservation(ctx context.Context, db *gorm.DB, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := conn(ctx, db).
		Preload("Instrument").
		Preload("User").
		First(&res, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &res, nil
}

var _ reservation.Repository = (*ReservationGormRepository)(nil)
