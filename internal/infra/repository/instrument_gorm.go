package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/instrument"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type InstrumentGormRepository struct {
	db *gorm.DB
}

func NewInstrumentGormRepository(db *gorm.DB) *InstrumentGormRepository {
	return &InstrumentGormRepository{db: db}
}

func (r *InstrumentGormRepository) CreateInstrument(ctx context.Context, in *models.Instrument) error {
	return conn(ctx, r.db).Create(in).Error
}

func (r *InstrumentGormRepository) GetInstrument(ctx context.Context, id uint) (*models.Instrument, error) {
	return getInstrument(ctx, r.db, id)
}

func (r *InstrumentGormRepository) UpdateInstrument(ctx context.Context, in *models.Instrument) error {
	in.UpdatedAt = time.Now()

	res := conn(ctx, r.db).
		Model(&models.Instrument{ID: in.ID}).
		Select("name", "description", "type", "status", "image_url", "updated_at").
		Updates(in)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteInstrument: as reservas caem pela FK ON DELETE CASCADE.
func (r *InstrumentGormRepository) DeleteInstrument(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Delete(&models.Instrument{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InstrumentGormRepository) ListInstruments(
	ctx context.Context,
	filter instrument.ListFilter,
) ([]models.Instrument, error) {

	q := conn(ctx, r.db).Model(&models.Instrument{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	items := []models.Instrument{}
	if err := q.Order("name ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *InstrumentGormRepository) CountActiveReservations(
	ctx context.Context,
	instrumentID uint,
) (int64, error) {

	var n int64
	err := conn(ctx, r.db).
		Model(&models.Reservation{}).
		Where("instrument_id = ? AND status = ?", instrumentID, string(reservation.StatusActive)).
		Count(&n).Error
	return n, err
}

func getInstrument(ctx context.Context, db *gorm.DB, id uint) (*models.Instrument, error) {
	var in models.Instrument
	if err := conn(ctx, db).First(&in, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &in, nil
}

var _ instrument.Repository = (*InstrumentGormRepository)(nil)
